package models

import "time"

// Account status values as stored in the accounts table.
const (
	AccountStatusActive    = "ACTIVE"
	AccountStatusSuspended = "SUSPENDED"
	AccountStatusClosed    = "CLOSED"
)

// Account represents a player account row.
type Account struct {
	ID        int64      `db:"id" json:"id"`
	Username  string     `db:"username" json:"username"`
	Email     string     `db:"email" json:"email"`
	Status    string     `db:"status" json:"status"`
	Banned    bool       `db:"banned" json:"banned"`
	BanReason string     `db:"ban_reason" json:"ban_reason,omitempty"`
	LastLogin *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// AccountFilter captures filtering criteria for listing accounts.
type AccountFilter struct {
	Search    string
	Status    string
	Banned    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
