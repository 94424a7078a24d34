package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gm-panel-api/internal/models"
)

const characterColumns = `id, account_id, name, class, level, exp, gold, guild_id, created_at, updated_at`

// CharacterRepository provides database access for player characters.
type CharacterRepository struct {
	db *sqlx.DB
}

// NewCharacterRepository creates a new instance of CharacterRepository.
func NewCharacterRepository(db *sqlx.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// FindByID returns a character by identifier.
func (r *CharacterRepository) FindByID(ctx context.Context, id int64) (*models.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE id = $1 LIMIT 1`
	var character models.Character
	if err := r.db.GetContext(ctx, &character, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find character by id: %w", err)
	}
	return &character, nil
}

// List returns characters based on filters with total count.
func (r *CharacterRepository) List(ctx context.Context, filter models.CharacterFilter) ([]models.Character, int, error) {
	baseQuery := `FROM characters WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.AccountID != nil {
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", len(args)+1))
		args = append(args, *filter.AccountID)
	}
	if filter.Class != "" {
		conditions = append(conditions, fmt.Sprintf("class = $%d", len(args)+1))
		args = append(args, filter.Class)
	}
	if filter.MinLevel != nil {
		conditions = append(conditions, fmt.Sprintf("level >= $%d", len(args)+1))
		args = append(args, *filter.MinLevel)
	}
	if filter.MaxLevel != nil {
		conditions = append(conditions, fmt.Sprintf("level <= $%d", len(args)+1))
		args = append(args, *filter.MaxLevel)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := sortColumn(filter.SortBy, map[string]bool{
		"name":       true,
		"level":      true,
		"gold":       true,
		"created_at": true,
		"updated_at": true,
	}, "created_at")
	sortOrder := sortDirection(filter.SortOrder)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		characterColumns, baseQuery, sortBy, sortOrder, limit, offset)

	characters := make([]models.Character, 0)
	if err := r.db.SelectContext(ctx, &characters, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list characters: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count characters: %w", err)
	}

	return characters, total, nil
}

// Update persists the mutable character fields.
func (r *CharacterRepository) Update(ctx context.Context, character *models.Character) error {
	const query = `UPDATE characters SET name = $2, class = $3, level = $4, exp = $5, gold = $6, updated_at = $7 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, character.ID, character.Name, character.Class, character.Level, character.Exp, character.Gold, time.Now().UTC()); err != nil {
		return fmt.Errorf("update character: %w", err)
	}
	return nil
}

// Delete removes a character row.
func (r *CharacterRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	return nil
}
