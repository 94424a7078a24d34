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

const accountColumns = `id, username, email, status, banned, ban_reason, last_login, created_at, updated_at`

// AccountRepository provides database access for player accounts.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByID returns an account by identifier.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return &account, nil
}

// List returns accounts based on filters with total count.
func (r *AccountRepository) List(ctx context.Context, filter models.AccountFilter) ([]models.Account, int, error) {
	baseQuery := `FROM accounts WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Banned != nil {
		conditions = append(conditions, fmt.Sprintf("banned = $%d", len(args)+1))
		args = append(args, *filter.Banned)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(username) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := sortColumn(filter.SortBy, map[string]bool{
		"username":   true,
		"email":      true,
		"status":     true,
		"last_login": true,
		"created_at": true,
	}, "created_at")
	sortOrder := sortDirection(filter.SortOrder)
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		accountColumns, baseQuery, sortBy, sortOrder, limit, offset)

	accounts := make([]models.Account, 0)
	if err := r.db.SelectContext(ctx, &accounts, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	return accounts, total, nil
}

// Update persists the mutable account fields.
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	const query = `UPDATE accounts SET email = $2, status = $3, banned = $4, ban_reason = $5, updated_at = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, account.ID, account.Email, account.Status, account.Banned, account.BanReason, time.Now().UTC()); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// Delete removes an account row.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
