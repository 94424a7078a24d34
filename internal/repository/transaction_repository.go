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

const transactionColumns = `id, account_id, type, amount, currency, status, reference, created_at, updated_at`

// TransactionRepository provides database access for billing transactions.
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository creates a new instance of TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// FindByID returns a transaction by identifier.
func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 LIMIT 1`
	var tx models.Transaction
	if err := r.db.GetContext(ctx, &tx, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find transaction by id: %w", err)
	}
	return &tx, nil
}

// List returns transactions based on filters with total count.
func (r *TransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int, error) {
	baseQuery := `FROM transactions WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.AccountID != nil {
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", len(args)+1))
		args = append(args, *filter.AccountID)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := sortColumn(filter.SortBy, map[string]bool{
		"amount":     true,
		"status":     true,
		"created_at": true,
		"updated_at": true,
	}, "created_at")
	sortOrder := sortDirection(filter.SortOrder)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		transactionColumns, baseQuery, sortBy, sortOrder, limit, offset)

	txs := make([]models.Transaction, 0)
	if err := r.db.SelectContext(ctx, &txs, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	return txs, total, nil
}

// UpdateStatus transitions a transaction to the given status.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	const query = `UPDATE transactions SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	return nil
}
