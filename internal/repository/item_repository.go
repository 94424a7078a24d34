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

const itemColumns = `id, character_id, item_code, name, quantity, enhancement, bound, created_at, updated_at`

// ItemRepository provides database access for inventory items.
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a new instance of ItemRepository.
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// FindByID returns an item by identifier.
func (r *ItemRepository) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 LIMIT 1`
	var item models.Item
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find item by id: %w", err)
	}
	return &item, nil
}

// List returns items based on filters with total count.
func (r *ItemRepository) List(ctx context.Context, filter models.ItemFilter) ([]models.Item, int, error) {
	baseQuery := `FROM items WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.CharacterID != nil {
		conditions = append(conditions, fmt.Sprintf("character_id = $%d", len(args)+1))
		args = append(args, *filter.CharacterID)
	}
	if filter.ItemCode != "" {
		conditions = append(conditions, fmt.Sprintf("item_code = $%d", len(args)+1))
		args = append(args, filter.ItemCode)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := sortColumn(filter.SortBy, map[string]bool{
		"item_code":   true,
		"name":        true,
		"quantity":    true,
		"enhancement": true,
		"created_at":  true,
	}, "created_at")
	sortOrder := sortDirection(filter.SortOrder)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		itemColumns, baseQuery, sortBy, sortOrder, limit, offset)

	items := make([]models.Item, 0)
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	return items, total, nil
}

// Update persists the mutable item fields.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	const query = `UPDATE items SET quantity = $2, enhancement = $3, bound = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, item.ID, item.Quantity, item.Enhancement, item.Bound, time.Now().UTC()); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete removes an item row.
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
