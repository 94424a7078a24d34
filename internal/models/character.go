package models

import "time"

// Character represents a player character row.
type Character struct {
	ID        int64     `db:"id" json:"id"`
	AccountID int64     `db:"account_id" json:"account_id"`
	Name      string    `db:"name" json:"name"`
	Class     string    `db:"class" json:"class"`
	Level     int       `db:"level" json:"level"`
	Exp       int64     `db:"exp" json:"exp"`
	Gold      int64     `db:"gold" json:"gold"`
	GuildID   *int64    `db:"guild_id" json:"guild_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CharacterFilter captures filtering criteria for listing characters.
type CharacterFilter struct {
	AccountID *int64
	Search    string
	Class     string
	MinLevel  *int
	MaxLevel  *int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
