package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating an operator.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued session token and operator info.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
	User      AdminInfo `json:"user"`
}

// AdminInfo describes the authenticated operator in responses.
type AdminInfo struct {
	Username string `json:"username"`
}

// AdminClaims represents the JWT payload for admin session tokens.
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
