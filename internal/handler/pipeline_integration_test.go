package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gm-panel-api/internal/audit"
	"github.com/noah-isme/gm-panel-api/internal/middleware"
	"github.com/noah-isme/gm-panel-api/internal/models"
	"github.com/noah-isme/gm-panel-api/internal/service"
	"github.com/noah-isme/gm-panel-api/pkg/config"
)

type accountRepoStub struct {
	account models.Account
}

func (s *accountRepoStub) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	cp := s.account
	return &cp, nil
}

func (s *accountRepoStub) List(ctx context.Context, filter models.AccountFilter) ([]models.Account, int, error) {
	return []models.Account{s.account}, 1, nil
}

func (s *accountRepoStub) Update(ctx context.Context, account *models.Account) error {
	s.account = *account
	return nil
}

func (s *accountRepoStub) Delete(ctx context.Context, id int64) error { return nil }

// Exercises the full mutation pipeline: login, an authenticated update, and
// the resulting audit trail visible through the viewer endpoint.
func TestMutationPipeline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	logr := zap.NewNop()
	recorder := audit.NewRecorder(config.AuditConfig{Enabled: true, Dir: dir}, logr, nil)
	reader := audit.NewReader(dir, logr)

	authService, err := service.NewAuthService(recorder, nil, logr, service.AuthConfig{
		TokenSecret:   "test-secret",
		TokenExpiry:   time.Hour,
		AdminUsername: "gm_alice",
		AdminPassword: "hunter2",
	})
	require.NoError(t, err)

	repo := &accountRepoStub{account: models.Account{ID: 42, Username: "player1", Status: models.AccountStatusActive}}
	accountService := service.NewAccountService(repo, nil, recorder, nil, logr, time.Minute)

	authHandler := NewAuthHandler(authService, false)
	auditHandler := NewAuditHandler(reader)
	accountHandler := NewAccountHandler(accountService)

	r := gin.New()
	r.POST("/auth/login", authHandler.Login)
	secured := r.Group("", middleware.JWT(authService))
	secured.GET("/audit-logs", auditHandler.List)
	accounts := secured.Group("/accounts", middleware.Audit(recorder, "ACCOUNT"))
	accounts.PUT("/:id", accountHandler.Update)

	// Unauthenticated mutation is rejected before reaching the handler.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/accounts/42", bytes.NewBufferString(`{"status":"SUSPENDED"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Login.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"gm_alice","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token)

	time.Sleep(5 * time.Millisecond)

	// Authenticated mutation.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPut, "/accounts/42", bytes.NewBufferString(`{"status":"SUSPENDED"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.Data.Token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AccountStatusSuspended, repo.account.Status)

	// The trail contains the login, the detailed update, and the coarse
	// interceptor entry, all attributed to the operator.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/audit-logs", nil)
	req.Header.Set("Authorization", "Bearer "+login.Data.Token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var viewer struct {
		Data []models.AuditEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &viewer))
	require.Len(t, viewer.Data, 3)

	actions := make(map[string]models.AuditEntry, len(viewer.Data))
	for _, entry := range viewer.Data {
		actions[entry.Action] = entry
		assert.Equal(t, "gm_alice", entry.Admin)
	}
	require.Contains(t, actions, models.AuditActionLogin)
	require.Contains(t, actions, models.AuditActionAccountUpdate)
	require.Contains(t, actions, "ACCOUNT_PUT")

	update := actions[models.AuditActionAccountUpdate]
	require.NotNil(t, update.Target)
	assert.Equal(t, "42", update.Target.ID)
	assert.Equal(t, "player1", update.Target.Name)
	assert.Equal(t, "ACTIVE", update.Changes["status"].From)
	assert.Equal(t, "SUSPENDED", update.Changes["status"].To)
}
