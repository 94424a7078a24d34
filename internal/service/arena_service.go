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

type arenaRepository interface {
	FindByID(ctx context.Context, id int64) (*models.ArenaRanking, error)
	List(ctx context.Context, filter models.ArenaFilter) ([]models.ArenaRanking, int, error)
	Update(ctx context.Context, ranking *models.ArenaRanking) error
}

// UpdateArenaRequest carries the ranking fields an operator may adjust
// (used to correct standings after exploit rollbacks).
type UpdateArenaRequest struct {
	Rank   *int `json:"rank" validate:"omitempty,min=1"`
	Points *int `json:"points" validate:"omitempty,min=0"`

	Actor     string `json:"-"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// ArenaService provides arena ranking use cases.
type ArenaService struct {
	repo      arenaRepository
	recorder  *audit.Recorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewArenaService constructs an ArenaService.
func NewArenaService(repo arenaRepository, recorder *audit.Recorder, validate *validator.Validate, logger *zap.Logger) *ArenaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ArenaService{repo: repo, recorder: recorder, validator: validate, logger: logger}
}

// List returns rankings matching the filter.
func (s *ArenaService) List(ctx context.Context, filter models.ArenaFilter) ([]models.ArenaRanking, *models.Pagination, error) {
	rankings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list arena rankings")
	}
	return rankings, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Update applies the provided fields and records the field-level diff.
func (s *ArenaService) Update(ctx context.Context, id int64, req UpdateArenaRequest) (*models.ArenaRanking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid arena payload")
	}

	ranking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "arena ranking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load arena ranking")
	}

	before := make(map[string]interface{})
	after := make(map[string]interface{})
	if req.Rank != nil {
		before["rank"], after["rank"] = ranking.Rank, *req.Rank
		ranking.Rank = *req.Rank
	}
	if req.Points != nil {
		before["points"], after["points"] = ranking.Points, *req.Points
		ranking.Points = *req.Points
	}

	if err := s.repo.Update(ctx, ranking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update arena ranking")
	}

	s.recorder.Record(req.Actor, models.AuditActionArenaUpdate, audit.Options{
		Target:    &models.AuditTarget{Type: "arena_ranking", ID: strconv.FormatInt(ranking.ID, 10)},
		Changes:   audit.Diff(before, after),
		Metadata:  map[string]interface{}{"season": ranking.Season, "character_id": ranking.CharacterID},
		IP:        req.IP,
		UserAgent: req.UserAgent,
	})

	return ranking, nil
}
