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

const guildColumns = `id, name, leader_id, level, member_count, notice, created_at, updated_at`

// GuildRepository provides database access for guilds.
type GuildRepository struct {
	db *sqlx.DB
}

// NewGuildRepository creates a new instance of GuildRepository.
func NewGuildRepository(db *sqlx.DB) *GuildRepository {
	return &GuildRepository{db: db}
}

// FindByID returns a guild by identifier.
func (r *GuildRepository) FindByID(ctx context.Context, id int64) (*models.Guild, error) {
	query := `SELECT ` + guildColumns + ` FROM guilds WHERE id = $1 LIMIT 1`
	var guild models.Guild
	if err := r.db.GetContext(ctx, &guild, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find guild by id: %w", err)
	}
	return &guild, nil
}

// List returns guilds based on filters with total count.
func (r *GuildRepository) List(ctx context.Context, filter models.GuildFilter) ([]models.Guild, int, error) {
	baseQuery := `FROM guilds WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := sortColumn(filter.SortBy, map[string]bool{
		"name":         true,
		"level":        true,
		"member_count": true,
		"created_at":   true,
	}, "created_at")
	sortOrder := sortDirection(filter.SortOrder)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		guildColumns, baseQuery, sortBy, sortOrder, limit, offset)

	guilds := make([]models.Guild, 0)
	if err := r.db.SelectContext(ctx, &guilds, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list guilds: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count guilds: %w", err)
	}

	return guilds, total, nil
}

// Update persists the mutable guild fields.
func (r *GuildRepository) Update(ctx context.Context, guild *models.Guild) error {
	const query = `UPDATE guilds SET name = $2, level = $3, notice = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, guild.ID, guild.Name, guild.Level, guild.Notice, time.Now().UTC()); err != nil {
		return fmt.Errorf("update guild: %w", err)
	}
	return nil
}

// Delete removes a guild row.
func (r *GuildRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM guilds WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete guild: %w", err)
	}
	return nil
}
