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

type itemRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Item, error)
	List(ctx context.Context, filter models.ItemFilter) ([]models.Item, int, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id int64) error
}

// UpdateItemRequest carries the item fields an operator may change.
type UpdateItemRequest struct {
	Quantity    *int  `json:"quantity" validate:"omitempty,min=0"`
	Enhancement *int  `json:"enhancement" validate:"omitempty,min=0,max=20"`
	Bound       *bool `json:"bound"`

	Actor     string `json:"-"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// ItemService provides inventory management use cases.
type ItemService struct {
	repo      itemRepository
	recorder  *audit.Recorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewItemService constructs an ItemService.
func NewItemService(repo itemRepository, recorder *audit.Recorder, validate *validator.Validate, logger *zap.Logger) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ItemService{repo: repo, recorder: recorder, validator: validate, logger: logger}
}

// List returns items matching the filter.
func (s *ItemService) List(ctx context.Context, filter models.ItemFilter) ([]models.Item, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list items")
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a single item.
func (s *ItemService) Get(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load item")
	}
	return item, nil
}

// Update applies the provided fields and records the field-level diff.
func (s *ItemService) Update(ctx context.Context, id int64, req UpdateItemRequest) (*models.Item, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid item payload")
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := make(map[string]interface{})
	after := make(map[string]interface{})
	if req.Quantity != nil {
		before["quantity"], after["quantity"] = item.Quantity, *req.Quantity
		item.Quantity = *req.Quantity
	}
	if req.Enhancement != nil {
		before["enhancement"], after["enhancement"] = item.Enhancement, *req.Enhancement
		item.Enhancement = *req.Enhancement
	}
	if req.Bound != nil {
		before["bound"], after["bound"] = item.Bound, *req.Bound
		item.Bound = *req.Bound
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update item")
	}

	s.recorder.Record(req.Actor, models.AuditActionItemUpdate, audit.Options{
		Target:    &models.AuditTarget{Type: "item", ID: strconv.FormatInt(item.ID, 10), Name: item.Name},
		Changes:   audit.Diff(before, after),
		IP:        req.IP,
		UserAgent: req.UserAgent,
	})

	return item, nil
}

// Delete removes an item.
func (s *ItemService) Delete(ctx context.Context, id int64, actor, ip, userAgent string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete item")
	}

	s.recorder.Record(actor, models.AuditActionItemDelete, audit.Options{
		Target:    &models.AuditTarget{Type: "item", ID: strconv.FormatInt(id, 10), Name: item.Name},
		IP:        ip,
		UserAgent: userAgent,
	})
	return nil
}
