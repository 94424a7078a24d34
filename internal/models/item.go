package models

import "time"

// Item represents an inventory item row.
type Item struct {
	ID          int64     `db:"id" json:"id"`
	CharacterID int64     `db:"character_id" json:"character_id"`
	ItemCode    string    `db:"item_code" json:"item_code"`
	Name        string    `db:"name" json:"name"`
	Quantity    int       `db:"quantity" json:"quantity"`
	Enhancement int       `db:"enhancement" json:"enhancement"`
	Bound       bool      `db:"bound" json:"bound"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ItemFilter captures filtering criteria for listing items.
type ItemFilter struct {
	CharacterID *int64
	ItemCode    string
	Search      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
