package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/gm-panel-api/internal/audit"
	"github.com/noah-isme/gm-panel-api/internal/models"
	appErrors "github.com/noah-isme/gm-panel-api/pkg/errors"
)

// AuthConfig defines configuration for the operator authentication flows.
type AuthConfig struct {
	TokenSecret       string
	TokenExpiry       time.Duration
	Issuer            string
	AdminUsername     string
	AdminPasswordHash string
	AdminPassword     string
}

// AuthService validates operator credentials and issues/verifies session
// tokens. Verification is stateless: expiry is the only termination
// mechanism short of rotating the signing secret.
type AuthService struct {
	recorder  *audit.Recorder
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService. A missing signing secret is a
// process-level misconfiguration and is rejected here, at startup, rather
// than on a per-request basis.
func NewAuthService(recorder *audit.Recorder, validate *validator.Validate, logger *zap.Logger, config AuthConfig) (*AuthService, error) {
	if config.TokenSecret == "" {
		return nil, fmt.Errorf("auth: token signing secret is not configured")
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{recorder: recorder, validator: validate, logger: logger, config: config}, nil
}

// ValidateCredentials checks a submitted username/password pair against the
// configured operator credentials. Missing server-side configuration is
// logged but reported to the caller the same as a wrong password.
func (s *AuthService) ValidateCredentials(username, password string) bool {
	if username == "" || password == "" {
		return false
	}
	if s.config.AdminUsername == "" || (s.config.AdminPasswordHash == "" && s.config.AdminPassword == "") {
		s.logger.Warn("admin credentials are not configured, rejecting login")
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.config.AdminUsername)) != 1 {
		return false
	}
	if s.config.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(password)) == nil
	}
	// Compat path for deployments that have not migrated to a hashed secret.
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.config.AdminPassword)) == 1
}

// Login authenticates an operator and returns an issued session token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	if !s.ValidateCredentials(req.Username, req.Password) {
		if s.recorder != nil {
			s.recorder.Record(models.AdminAnonymous, models.AuditActionLoginFailed, audit.Options{
				Metadata:  map[string]interface{}{"username": req.Username},
				IP:        req.IP,
				UserAgent: req.UserAgent,
			})
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	token, expiresAt, err := s.IssueToken(req.Username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	if s.recorder != nil {
		s.recorder.Record(req.Username, models.AuditActionLogin, audit.Options{
			IP:        req.IP,
			UserAgent: req.UserAgent,
		})
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(time.Until(expiresAt).Seconds()),
		IssuedAt:  time.Now().UTC(),
		User:      models.AdminInfo{Username: req.Username},
	}, nil
}

// Logout records the session termination. Tokens are stateless, so there is
// nothing to revoke server-side; the handler clears the cookie.
func (s *AuthService) Logout(claims *models.AdminClaims, ip, userAgent string) {
	admin := models.AdminUnknown
	if claims != nil {
		admin = claims.Username
	}
	if s.recorder != nil {
		s.recorder.Record(admin, models.AuditActionLogout, audit.Options{IP: ip, UserAgent: userAgent})
	}
}

// IssueToken produces a signed session token for the given operator.
func (s *AuthService) IssueToken(username string) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a session token returning the claims.
// Any failure (bad signature, malformed payload, expiry) maps to a typed
// unauthorized error; nothing escapes this boundary.
func (s *AuthService) ValidateToken(tokenString string) (*models.AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired token")
	}

	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// TokenExpiry exposes the configured session lifetime (used for the cookie
// max-age at login).
func (s *AuthService) TokenExpiry() time.Duration {
	return s.config.TokenExpiry
}
