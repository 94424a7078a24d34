package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gm-panel-api/internal/audit"
	"github.com/noah-isme/gm-panel-api/internal/models"
	appErrors "github.com/noah-isme/gm-panel-api/pkg/errors"
)

type transactionRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Transaction, error)
	List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// UpdateTransactionStatusRequest transitions a transaction, typically for
// manual refunds.
type UpdateTransactionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING COMPLETE REFUNDED FAILED"`

	Actor     string `json:"-"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// TransactionService provides transaction review use cases.
type TransactionService struct {
	repo      transactionRepository
	recorder  *audit.Recorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTransactionService constructs a TransactionService.
func NewTransactionService(repo transactionRepository, recorder *audit.Recorder, validate *validator.Validate, logger *zap.Logger) *TransactionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TransactionService{repo: repo, recorder: recorder, validator: validate, logger: logger}
}

// List returns transactions matching the filter.
func (s *TransactionService) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, *models.Pagination, error) {
	txs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list transactions")
	}
	return txs, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a single transaction.
func (s *TransactionService) Get(ctx context.Context, id int64) (*models.Transaction, error) {
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "transaction not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load transaction")
	}
	return tx, nil
}

// UpdateStatus transitions the transaction status and records the diff
// against the previously stored status.
func (s *TransactionService) UpdateStatus(ctx context.Context, id int64, req UpdateTransactionStatusRequest) (*models.Transaction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transaction payload")
	}

	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := map[string]interface{}{"status": tx.Status}
	after := map[string]interface{}{"status": req.Status}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update transaction")
	}
	tx.Status = req.Status

	s.recorder.Record(req.Actor, models.AuditActionTransactionUpdate, audit.Options{
		Target:    &models.AuditTarget{Type: "transaction", ID: strconv.FormatInt(tx.ID, 10), Name: tx.Reference},
		Changes:   audit.Diff(before, after),
		Metadata:  map[string]interface{}{"account_id": tx.AccountID, "amount": tx.Amount, "currency": tx.Currency},
		IP:        req.IP,
		UserAgent: req.UserAgent,
	})

	return tx, nil
}
