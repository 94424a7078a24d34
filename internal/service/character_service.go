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

type characterRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Character, error)
	List(ctx context.Context, filter models.CharacterFilter) ([]models.Character, int, error)
	Update(ctx context.Context, character *models.Character) error
	Delete(ctx context.Context, id int64) error
}

// UpdateCharacterRequest carries the character fields an operator may
// change. Nil fields are left untouched.
type UpdateCharacterRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=32"`
	Class *string `json:"class"`
	Level *int    `json:"level" validate:"omitempty,min=1,max=999"`
	Exp   *int64  `json:"exp" validate:"omitempty,min=0"`
	Gold  *int64  `json:"gold" validate:"omitempty,min=0"`

	Actor     string `json:"-"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

type cachedCharacterList struct {
	Characters []models.Character `json:"characters"`
	Pagination models.Pagination  `json:"pagination"`
}

// CharacterService provides character management use cases.
type CharacterService struct {
	repo      characterRepository
	cache     listCache
	recorder  *audit.Recorder
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewCharacterService constructs a CharacterService. cache may be nil.
func NewCharacterService(repo characterRepository, cache listCache, recorder *audit.Recorder, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *CharacterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CharacterService{repo: repo, cache: cache, recorder: recorder, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// List returns characters matching the filter.
func (s *CharacterService) List(ctx context.Context, filter models.CharacterFilter) ([]models.Character, *models.Pagination, error) {
	key := characterListKey(filter)
	if s.cache != nil {
		var cached cachedCharacterList
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached.Characters, &cached.Pagination, nil
		}
	}

	characters, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list characters")
	}
	pagination := paginationFor(filter.Page, filter.PageSize, total)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cachedCharacterList{Characters: characters, Pagination: *pagination}, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache character list", zap.Error(err))
		}
	}
	return characters, pagination, nil
}

// Get returns a single character.
func (s *CharacterService) Get(ctx context.Context, id int64) (*models.Character, error) {
	character, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "character not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load character")
	}
	return character, nil
}

// Update applies the provided fields to a character and records the
// field-level diff against the stored values.
func (s *CharacterService) Update(ctx context.Context, id int64, req UpdateCharacterRequest) (*models.Character, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid character payload")
	}

	character, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := make(map[string]interface{})
	after := make(map[string]interface{})
	if req.Name != nil {
		before["name"], after["name"] = character.Name, *req.Name
		character.Name = *req.Name
	}
	if req.Class != nil {
		before["class"], after["class"] = character.Class, *req.Class
		character.Class = *req.Class
	}
	if req.Level != nil {
		before["level"], after["level"] = character.Level, *req.Level
		character.Level = *req.Level
	}
	if req.Exp != nil {
		before["exp"], after["exp"] = character.Exp, *req.Exp
		character.Exp = *req.Exp
	}
	if req.Gold != nil {
		before["gold"], after["gold"] = character.Gold, *req.Gold
		character.Gold = *req.Gold
	}

	if err := s.repo.Update(ctx, character); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update character")
	}
	s.invalidate(ctx)

	s.recorder.Record(req.Actor, models.AuditActionCharacterUpdate, audit.Options{
		Target:    &models.AuditTarget{Type: "character", ID: strconv.FormatInt(character.ID, 10), Name: character.Name},
		Changes:   audit.Diff(before, after),
		IP:        req.IP,
		UserAgent: req.UserAgent,
	})

	return character, nil
}

// Delete removes a character.
func (s *CharacterService) Delete(ctx context.Context, id int64, actor, ip, userAgent string) error {
	character, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete character")
	}
	s.invalidate(ctx)

	s.recorder.Record(actor, models.AuditActionCharacterDelete, audit.Options{
		Target:    &models.AuditTarget{Type: "character", ID: strconv.FormatInt(id, 10), Name: character.Name},
		IP:        ip,
		UserAgent: userAgent,
	})
	return nil
}

func (s *CharacterService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "characters:list:*"); err != nil {
		s.logger.Warn("failed to invalidate character cache", zap.Error(err))
	}
}

func characterListKey(f models.CharacterFilter) string {
	accountID := ""
	if f.AccountID != nil {
		accountID = strconv.FormatInt(*f.AccountID, 10)
	}
	minLevel, maxLevel := "", ""
	if f.MinLevel != nil {
		minLevel = strconv.Itoa(*f.MinLevel)
	}
	if f.MaxLevel != nil {
		maxLevel = strconv.Itoa(*f.MaxLevel)
	}
	return fmt.Sprintf("characters:list:%s:%s:%s:%s:%s:%d:%d:%s:%s",
		accountID, f.Search, f.Class, minLevel, maxLevel, f.Page, f.PageSize, f.SortBy, f.SortOrder)
}
