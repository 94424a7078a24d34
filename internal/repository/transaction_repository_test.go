package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gm-panel-api/internal/models"
)

func transactionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "account_id", "type", "amount", "currency", "status", "reference", "created_at", "updated_at"}).
		AddRow(7, 42, "CASH_SHOP", 4900, "USD", "COMPLETE", "ref-001", time.Now(), time.Now())
}

func TestTransactionRepositoryListByAccount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTransactionRepository(db)

	accountID := int64(42)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, account_id, type, amount, currency, status, reference, created_at, updated_at FROM transactions WHERE 1=1 AND account_id = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs(accountID).
		WillReturnRows(transactionRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM transactions WHERE 1=1 AND account_id = $1")).
		WithArgs(accountID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	txs, total, err := repo.List(context.Background(), models.TransactionFilter{AccountID: &accountID})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTransactionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE transactions SET status = $2, updated_at = $3 WHERE id = $1")).
		WithArgs(int64(7), "REFUNDED", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 7, "REFUNDED")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
