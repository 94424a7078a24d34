package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gm-panel-api/internal/audit"
	"github.com/noah-isme/gm-panel-api/internal/models"
	"github.com/noah-isme/gm-panel-api/pkg/config"
	appErrors "github.com/noah-isme/gm-panel-api/pkg/errors"
)

type characterRepoStub struct {
	character *models.Character
	listCalls int
}

func (s *characterRepoStub) FindByID(ctx context.Context, id int64) (*models.Character, error) {
	cp := *s.character
	return &cp, nil
}

func (s *characterRepoStub) List(ctx context.Context, filter models.CharacterFilter) ([]models.Character, int, error) {
	s.listCalls++
	return []models.Character{*s.character}, 1, nil
}

func (s *characterRepoStub) Update(ctx context.Context, character *models.Character) error {
	s.character = character
	return nil
}

func (s *characterRepoStub) Delete(ctx context.Context, id int64) error { return nil }

type memoryCache struct {
	values  map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.deleted = append(c.deleted, pattern)
	c.values = make(map[string][]byte)
	return nil
}

func intPtr(n int) *int       { return &n }
func int64Ptr(n int64) *int64 { return &n }

func TestCharacterUpdateRecordsLevelAndGoldDiff(t *testing.T) {
	dir := t.TempDir()
	recorder := audit.NewRecorder(config.AuditConfig{Enabled: true, Dir: dir}, zap.NewNop(), nil)
	repo := &characterRepoStub{character: &models.Character{
		ID: 7, AccountID: 42, Name: "Arthas", Class: "knight", Level: 5, Gold: 100,
	}}
	svc := NewCharacterService(repo, nil, recorder, nil, zap.NewNop(), time.Minute)

	character, err := svc.Update(context.Background(), 7, UpdateCharacterRequest{
		Level: intPtr(6),
		Gold:  int64Ptr(150),
		Actor: "gm_alice",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, character.Level)
	assert.Equal(t, int64(150), character.Gold)

	entries, err := audit.NewReader(dir, zap.NewNop()).Read(models.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, models.AuditActionCharacterUpdate, entry.Action)

	// Exactly the two touched fields, nothing else.
	require.Len(t, entry.Changes, 2)
	assert.Equal(t, float64(5), entry.Changes["level"].From)
	assert.Equal(t, float64(6), entry.Changes["level"].To)
	assert.Equal(t, float64(100), entry.Changes["gold"].From)
	assert.Equal(t, float64(150), entry.Changes["gold"].To)
}

func TestCharacterListUsesCache(t *testing.T) {
	recorder := audit.NewRecorder(config.AuditConfig{}, zap.NewNop(), nil)
	repo := &characterRepoStub{character: &models.Character{ID: 7, Name: "Arthas", Level: 5}}
	cache := newMemoryCache()
	svc := NewCharacterService(repo, cache, recorder, nil, zap.NewNop(), time.Minute)

	filter := models.CharacterFilter{Page: 1, PageSize: 20}
	_, _, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	_, pagination, err := svc.List(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
	require.NotNil(t, pagination)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestCharacterUpdateInvalidatesCache(t *testing.T) {
	recorder := audit.NewRecorder(config.AuditConfig{}, zap.NewNop(), nil)
	repo := &characterRepoStub{character: &models.Character{ID: 7, Name: "Arthas", Level: 5}}
	cache := newMemoryCache()
	svc := NewCharacterService(repo, cache, recorder, nil, zap.NewNop(), time.Minute)

	_, _, err := svc.List(context.Background(), models.CharacterFilter{})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 7, UpdateCharacterRequest{Level: intPtr(6), Actor: "gm_alice"})
	require.NoError(t, err)

	assert.Contains(t, cache.deleted, "characters:list:*")

	_, _, err = svc.List(context.Background(), models.CharacterFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}
