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

const arenaColumns = `id, character_id, season, rank, points, wins, losses, updated_at`

// ArenaRepository provides database access for arena rankings.
type ArenaRepository struct {
	db *sqlx.DB
}

// NewArenaRepository creates a new instance of ArenaRepository.
func NewArenaRepository(db *sqlx.DB) *ArenaRepository {
	return &ArenaRepository{db: db}
}

// FindByID returns a ranking row by identifier.
func (r *ArenaRepository) FindByID(ctx context.Context, id int64) (*models.ArenaRanking, error) {
	query := `SELECT ` + arenaColumns + ` FROM arena_rankings WHERE id = $1 LIMIT 1`
	var ranking models.ArenaRanking
	if err := r.db.GetContext(ctx, &ranking, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find arena ranking by id: %w", err)
	}
	return &ranking, nil
}

// List returns rankings based on filters with total count. The default
// order is ascending rank, unlike the other listings.
func (r *ArenaRepository) List(ctx context.Context, filter models.ArenaFilter) ([]models.ArenaRanking, int, error) {
	baseQuery := `FROM arena_rankings WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Season != nil {
		conditions = append(conditions, fmt.Sprintf("season = $%d", len(args)+1))
		args = append(args, *filter.Season)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := sortColumn(filter.SortBy, map[string]bool{
		"rank":       true,
		"points":     true,
		"wins":       true,
		"updated_at": true,
	}, "rank")
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "ASC"
	}
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		arenaColumns, baseQuery, sortBy, sortOrder, limit, offset)

	rankings := make([]models.ArenaRanking, 0)
	if err := r.db.SelectContext(ctx, &rankings, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list arena rankings: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count arena rankings: %w", err)
	}

	return rankings, total, nil
}

// Update persists the mutable ranking fields.
func (r *ArenaRepository) Update(ctx context.Context, ranking *models.ArenaRanking) error {
	const query = `UPDATE arena_rankings SET rank = $2, points = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, ranking.ID, ranking.Rank, ranking.Points, time.Now().UTC()); err != nil {
		return fmt.Errorf("update arena ranking: %w", err)
	}
	return nil
}
