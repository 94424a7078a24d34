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

type guildRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Guild, error)
	List(ctx context.Context, filter models.GuildFilter) ([]models.Guild, int, error)
	Update(ctx context.Context, guild *models.Guild) error
	Delete(ctx context.Context, id int64) error
}

// UpdateGuildRequest carries the guild fields an operator may change.
type UpdateGuildRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=32"`
	Level  *int    `json:"level" validate:"omitempty,min=1"`
	Notice *string `json:"notice"`

	Actor     string `json:"-"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// GuildService provides guild management use cases.
type GuildService struct {
	repo      guildRepository
	recorder  *audit.Recorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGuildService constructs a GuildService.
func NewGuildService(repo guildRepository, recorder *audit.Recorder, validate *validator.Validate, logger *zap.Logger) *GuildService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GuildService{repo: repo, recorder: recorder, validator: validate, logger: logger}
}

// List returns guilds matching the filter.
func (s *GuildService) List(ctx context.Context, filter models.GuildFilter) ([]models.Guild, *models.Pagination, error) {
	guilds, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list guilds")
	}
	return guilds, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a single guild.
func (s *GuildService) Get(ctx context.Context, id int64) (*models.Guild, error) {
	guild, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guild not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guild")
	}
	return guild, nil
}

// Update applies the provided fields and records the field-level diff.
func (s *GuildService) Update(ctx context.Context, id int64, req UpdateGuildRequest) (*models.Guild, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guild payload")
	}

	guild, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := make(map[string]interface{})
	after := make(map[string]interface{})
	if req.Name != nil {
		before["name"], after["name"] = guild.Name, *req.Name
		guild.Name = *req.Name
	}
	if req.Level != nil {
		before["level"], after["level"] = guild.Level, *req.Level
		guild.Level = *req.Level
	}
	if req.Notice != nil {
		before["notice"], after["notice"] = guild.Notice, *req.Notice
		guild.Notice = *req.Notice
	}

	if err := s.repo.Update(ctx, guild); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update guild")
	}

	s.recorder.Record(req.Actor, models.AuditActionGuildUpdate, audit.Options{
		Target:    &models.AuditTarget{Type: "guild", ID: strconv.FormatInt(guild.ID, 10), Name: guild.Name},
		Changes:   audit.Diff(before, after),
		IP:        req.IP,
		UserAgent: req.UserAgent,
	})

	return guild, nil
}

// Delete removes a guild.
func (s *GuildService) Delete(ctx context.Context, id int64, actor, ip, userAgent string) error {
	guild, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete guild")
	}

	s.recorder.Record(actor, models.AuditActionGuildDelete, audit.Options{
		Target:    &models.AuditTarget{Type: "guild", ID: strconv.FormatInt(id, 10), Name: guild.Name},
		IP:        ip,
		UserAgent: userAgent,
	})
	return nil
}
