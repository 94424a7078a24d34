package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gm-panel-api/internal/service"
)

func newJWTRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService, err := service.NewAuthService(nil, nil, zap.NewNop(), service.AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", JWT(authService), func(c *gin.Context) {
		claims := AdminFromContext(c)
		require.NotNil(t, claims)
		c.JSON(http.StatusOK, gin.H{"admin": claims.Username})
	})
	return r, authService
}

func TestJWTMissingToken(t *testing.T) {
	r, _ := newJWTRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTInvalidToken(t *testing.T) {
	r, _ := newJWTRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTBearerToken(t *testing.T) {
	r, authService := newJWTRouter(t)
	token, _, err := authService.IssueToken("gm_alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gm_alice")
}

func TestJWTCookieFallback(t *testing.T) {
	r, authService := newJWTRouter(t)
	token, _, err := authService.IssueToken("gm_alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTHeaderBeatsCookie(t *testing.T) {
	r, authService := newJWTRouter(t)
	token, _, err := authService.IssueToken("gm_alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: token})
	r.ServeHTTP(w, req)

	// A present but invalid header is rejected rather than silently falling
	// back to the cookie.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
