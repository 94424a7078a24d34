package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gm-panel-api/internal/audit"
	"github.com/noah-isme/gm-panel-api/internal/models"
	"github.com/noah-isme/gm-panel-api/pkg/config"
)

func newAuditRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	recorder := audit.NewRecorder(config.AuditConfig{Enabled: true, Dir: dir}, zap.NewNop(), nil)

	r := gin.New()
	group := r.Group("/accounts", Audit(recorder, "ACCOUNT"))
	group.GET("/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	group.PUT("/:id", func(c *gin.Context) {
		c.Set(ContextAdminKey, &models.AdminClaims{Username: "gm_alice"})
		c.Status(http.StatusOK)
	})
	group.DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	return r, dir
}

func readEntries(t *testing.T, dir string) []models.AuditEntry {
	t.Helper()
	entries, err := audit.NewReader(dir, zap.NewNop()).Read(models.AuditFilter{})
	require.NoError(t, err)
	return entries
}

func TestAuditRecordsSuccessfulMutation(t *testing.T) {
	r, dir := newAuditRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/accounts/42", nil)
	req.Header.Set("User-Agent", "panel-ui")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	entries := readEntries(t, dir)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "ACCOUNT_PUT", entry.Action)
	assert.Equal(t, "gm_alice", entry.Admin)
	assert.Equal(t, "panel-ui", entry.UserAgent)
	assert.Equal(t, "/accounts/:id", entry.Metadata["path"])
	assert.Equal(t, float64(http.StatusOK), entry.Metadata["status"])

	params, ok := entry.Metadata["params"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "42", params["id"])
}

func TestAuditSkipsReads(t *testing.T) {
	r, dir := newAuditRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/accounts/42", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, readEntries(t, dir))
}

func TestAuditSkipsFailedMutations(t *testing.T) {
	r, dir := newAuditRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/accounts/42", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Empty(t, readEntries(t, dir))
}

func TestAuditUnknownAdminWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	recorder := audit.NewRecorder(config.AuditConfig{Enabled: true, Dir: dir}, zap.NewNop(), nil)

	r := gin.New()
	r.POST("/things", Audit(recorder, "THING"), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/things", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	entries := readEntries(t, dir)
	require.Len(t, entries, 1)
	assert.Equal(t, "THING_POST", entries[0].Action)
	assert.Equal(t, models.AdminUnknown, entries[0].Admin)
}
