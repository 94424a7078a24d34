package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gm-panel-api/internal/audit"
	"github.com/noah-isme/gm-panel-api/internal/models"
	appErrors "github.com/noah-isme/gm-panel-api/pkg/errors"
)

type accountRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	List(ctx context.Context, filter models.AccountFilter) ([]models.Account, int, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id int64) error
}

type listCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// UpdateAccountRequest carries the account fields an operator may change.
// Nil fields are left untouched.
type UpdateAccountRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Status    *string `json:"status" validate:"omitempty,oneof=ACTIVE SUSPENDED CLOSED"`
	Banned    *bool   `json:"banned"`
	BanReason *string `json:"ban_reason"`

	Actor     string `json:"-"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

type cachedAccountList struct {
	Accounts   []models.Account  `json:"accounts"`
	Pagination models.Pagination `json:"pagination"`
}

// AccountService provides account management use cases.
type AccountService struct {
	repo      accountRepository
	cache     listCache
	recorder  *audit.Recorder
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewAccountService constructs an AccountService. cache may be nil.
func NewAccountService(repo accountRepository, cache listCache, recorder *audit.Recorder, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AccountService{repo: repo, cache: cache, recorder: recorder, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// List returns accounts matching the filter, serving repeated queries from
// the cache when available.
func (s *AccountService) List(ctx context.Context, filter models.AccountFilter) ([]models.Account, *models.Pagination, error) {
	key := accountListKey(filter)
	if s.cache != nil {
		var cached cachedAccountList
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached.Accounts, &cached.Pagination, nil
		}
	}

	accounts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list accounts")
	}
	pagination := paginationFor(filter.Page, filter.PageSize, total)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cachedAccountList{Accounts: accounts, Pagination: *pagination}, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache account list", zap.Error(err))
		}
	}
	return accounts, pagination, nil
}

// Get returns a single account.
func (s *AccountService) Get(ctx context.Context, id int64) (*models.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	return account, nil
}

// Update applies the provided fields to an account and records the
// field-level diff against the values actually stored before the change.
func (s *AccountService) Update(ctx context.Context, id int64, req UpdateAccountRequest) (*models.Account, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid account payload")
	}

	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := make(map[string]interface{})
	after := make(map[string]interface{})
	if req.Email != nil {
		before["email"], after["email"] = account.Email, *req.Email
		account.Email = *req.Email
	}
	if req.Status != nil {
		before["status"], after["status"] = account.Status, *req.Status
		account.Status = *req.Status
	}
	if req.Banned != nil {
		before["banned"], after["banned"] = account.Banned, *req.Banned
		account.Banned = *req.Banned
	}
	if req.BanReason != nil {
		before["ban_reason"], after["ban_reason"] = account.BanReason, *req.BanReason
		account.BanReason = *req.BanReason
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update account")
	}
	s.invalidate(ctx)

	s.recorder.Record(req.Actor, models.AuditActionAccountUpdate, audit.Options{
		Target:    &models.AuditTarget{Type: "account", ID: strconv.FormatInt(account.ID, 10), Name: account.Username},
		Changes:   audit.Diff(before, after),
		IP:        req.IP,
		UserAgent: req.UserAgent,
	})

	return account, nil
}

// Delete removes an account.
func (s *AccountService) Delete(ctx context.Context, id int64, actor, ip, userAgent string) error {
	account, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete account")
	}
	s.invalidate(ctx)

	s.recorder.Record(actor, models.AuditActionAccountDelete, audit.Options{
		Target:    &models.AuditTarget{Type: "account", ID: strconv.FormatInt(id, 10), Name: account.Username},
		IP:        ip,
		UserAgent: userAgent,
	})
	return nil
}

func (s *AccountService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "accounts:list:*"); err != nil {
		s.logger.Warn("failed to invalidate account cache", zap.Error(err))
	}
}

func accountListKey(f models.AccountFilter) string {
	banned := ""
	if f.Banned != nil {
		banned = strconv.FormatBool(*f.Banned)
	}
	return fmt.Sprintf("accounts:list:%s:%s:%s:%d:%d:%s:%s",
		f.Search, f.Status, banned, f.Page, f.PageSize, f.SortBy, f.SortOrder)
}

func paginationFor(page, pageSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
