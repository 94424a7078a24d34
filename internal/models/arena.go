package models

import "time"

// ArenaRanking represents one character's standing in an arena season.
type ArenaRanking struct {
	ID          int64     `db:"id" json:"id"`
	CharacterID int64     `db:"character_id" json:"character_id"`
	Season      int       `db:"season" json:"season"`
	Rank        int       `db:"rank" json:"rank"`
	Points      int       `db:"points" json:"points"`
	Wins        int       `db:"wins" json:"wins"`
	Losses      int       `db:"losses" json:"losses"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ArenaFilter captures filtering criteria for listing arena rankings.
type ArenaFilter struct {
	Season    *int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
