package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gm-panel-api/internal/middleware"
	"github.com/noah-isme/gm-panel-api/internal/service"
)

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService, err := service.NewAuthService(nil, nil, zap.NewNop(), service.AuthConfig{
		TokenSecret:   "test-secret",
		TokenExpiry:   time.Hour,
		AdminUsername: "gm_alice",
		AdminPassword: "hunter2",
	})
	require.NoError(t, err)

	h := NewAuthHandler(authService, false)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", middleware.JWT(authService), h.Logout)
	r.GET("/auth/me", middleware.JWT(authService), h.Me)
	return r
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.AdminCookieName {
			return cookie
		}
	}
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"username":"gm_alice","password":"hunter2"}`)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			Token     string `json:"token"`
			ExpiresIn int64  `json:"expires_in"`
			User      struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Token)
	assert.Equal(t, "gm_alice", envelope.Data.User.Username)
	assert.InDelta(t, 3600, envelope.Data.ExpiresIn, 5)

	cookie := sessionCookie(w.Result())
	require.NotNil(t, cookie)
	assert.Equal(t, envelope.Data.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.InDelta(t, 3600, cookie.MaxAge, 5)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"username":"gm_alice","password":"wrong"}`)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, sessionCookie(w.Result()))
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	r := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	r := newAuthTestRouter(t)

	login := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"username":"gm_alice","password":"hunter2"}`)
	loginReq, _ := http.NewRequest(http.MethodPost, "/auth/login", body)
	loginReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(login, loginReq)
	require.Equal(t, http.StatusOK, login.Code)
	token := sessionCookie(login.Result())
	require.NotNil(t, token)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	cleared := sessionCookie(w.Result())
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestMeReturnsIdentity(t *testing.T) {
	r := newAuthTestRouter(t)

	login := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"username":"gm_alice","password":"hunter2"}`)
	loginReq, _ := http.NewRequest(http.MethodPost, "/auth/login", body)
	loginReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(login, loginReq)
	token := sessionCookie(login.Result())
	require.NotNil(t, token)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gm_alice")
}

func TestMeRequiresAuth(t *testing.T) {
	r := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
