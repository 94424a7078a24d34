package models

import "time"

// Transaction status values as stored in the transactions table.
const (
	TransactionStatusPending  = "PENDING"
	TransactionStatusComplete = "COMPLETE"
	TransactionStatusRefunded = "REFUNDED"
	TransactionStatusFailed   = "FAILED"
)

// Transaction represents a cash-shop or billing transaction row.
type Transaction struct {
	ID        int64     `db:"id" json:"id"`
	AccountID int64     `db:"account_id" json:"account_id"`
	Type      string    `db:"type" json:"type"`
	Amount    int64     `db:"amount" json:"amount"`
	Currency  string    `db:"currency" json:"currency"`
	Status    string    `db:"status" json:"status"`
	Reference string    `db:"reference" json:"reference,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TransactionFilter captures filtering criteria for listing transactions.
type TransactionFilter struct {
	AccountID *int64
	Type      string
	Status    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
