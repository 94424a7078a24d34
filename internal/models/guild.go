package models

import "time"

// Guild represents a guild row.
type Guild struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	LeaderID    int64     `db:"leader_id" json:"leader_id"`
	Level       int       `db:"level" json:"level"`
	MemberCount int       `db:"member_count" json:"member_count"`
	Notice      string    `db:"notice" json:"notice,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// GuildFilter captures filtering criteria for listing guilds.
type GuildFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
