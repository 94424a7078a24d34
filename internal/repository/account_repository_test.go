package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gm-panel-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "status", "banned", "ban_reason", "last_login", "created_at", "updated_at"}).
		AddRow(42, "player1", "p1@example.com", "ACTIVE", false, "", nil, time.Now(), time.Now())
}

func TestAccountRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, status, banned, ban_reason, last_login, created_at, updated_at FROM accounts WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(accountRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM accounts WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	accounts, total, err := repo.List(context.Background(), models.AccountFilter{})
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryListFiltered(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	banned := true
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, status, banned, ban_reason, last_login, created_at, updated_at FROM accounts WHERE 1=1 AND status = $1 AND banned = $2 AND (LOWER(username) LIKE $3 OR LOWER(email) LIKE $3) ORDER BY username ASC LIMIT 10 OFFSET 10")).
		WithArgs("SUSPENDED", true, "%player%").
		WillReturnRows(accountRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM accounts WHERE 1=1 AND status = $1 AND banned = $2 AND (LOWER(username) LIKE $3 OR LOWER(email) LIKE $3)")).
		WithArgs("SUSPENDED", true, "%player%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	_, total, err := repo.List(context.Background(), models.AccountFilter{
		Status:    "SUSPENDED",
		Banned:    &banned,
		Search:    "Player",
		Page:      2,
		PageSize:  10,
		SortBy:    "username",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryListIgnoresUnknownSortColumn(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WillReturnRows(accountRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, _, err := repo.List(context.Background(), models.AccountFilter{SortBy: "password; DROP TABLE accounts"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, status, banned, ban_reason, last_login, created_at, updated_at FROM accounts WHERE id = $1 LIMIT 1")).
		WithArgs(int64(42)).
		WillReturnRows(accountRows())

	account, err := repo.FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "player1", account.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery("SELECT .* FROM accounts WHERE id").
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 7)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAccountRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET email = $2, status = $3, banned = $4, ban_reason = $5, updated_at = $6 WHERE id = $1")).
		WithArgs(int64(42), "new@example.com", "SUSPENDED", true, "rmt", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Account{
		ID: 42, Email: "new@example.com", Status: "SUSPENDED", Banned: true, BanReason: "rmt",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM accounts WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}
