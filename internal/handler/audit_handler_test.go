package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gm-panel-api/internal/audit"
	"github.com/noah-isme/gm-panel-api/internal/models"
)

func newAuditTestRouter(t *testing.T, dir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewAuditHandler(audit.NewReader(dir, zap.NewNop()))
	r := gin.New()
	r.GET("/audit-logs", h.List)
	r.GET("/audit-logs/export", h.Export)
	return r
}

func seedAuditFile(t *testing.T, dir string) {
	t.Helper()
	lines := strings.Join([]string{
		`{"timestamp":"2026-08-26T09:00:00.000Z","action":"LOGIN","admin":"gm_alice","ip":"10.0.0.1"}`,
		`{"timestamp":"2026-08-26T10:00:00.000Z","action":"ACCOUNT_UPDATE","admin":"gm_alice","target":{"type":"account","id":"42","name":"player1"},"changes":{"status":{"from":"ACTIVE","to":"SUSPENDED"}},"ip":"10.0.0.1"}`,
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "audit-2026-08-26.log"), []byte(lines), 0o644))
}

func TestAuditListReturnsEntries(t *testing.T) {
	dir := t.TempDir()
	seedAuditFile(t, dir)
	r := newAuditTestRouter(t, dir)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/audit-logs?startDate=2026-08-26&endDate=2026-08-26", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.AuditEntry    `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "ACCOUNT_UPDATE", envelope.Data[0].Action)
	assert.Equal(t, float64(2), envelope.Meta["count"])
}

func TestAuditListRejectsBadDate(t *testing.T) {
	r := newAuditTestRouter(t, t.TempDir())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/audit-logs?startDate=yesterday", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditExportCSV(t *testing.T) {
	dir := t.TempDir()
	seedAuditFile(t, dir)
	r := newAuditTestRouter(t, dir)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/audit-logs/export?format=csv", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "audit-logs.csv")

	body := w.Body.String()
	assert.Contains(t, body, "Timestamp,Action,Admin,Target,Changes,IP")
	assert.Contains(t, body, "ACCOUNT_UPDATE")
	assert.Contains(t, body, "account/42 (player1)")
	assert.Contains(t, body, "status: ACTIVE -> SUSPENDED")
}

func TestAuditExportPDF(t *testing.T) {
	dir := t.TempDir()
	seedAuditFile(t, dir)
	r := newAuditTestRouter(t, dir)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/audit-logs/export?format=pdf", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestAuditExportRejectsUnknownFormat(t *testing.T) {
	r := newAuditTestRouter(t, t.TempDir())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/audit-logs/export?format=xlsx", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
