package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gm-panel-api/internal/models"
	"github.com/noah-isme/gm-panel-api/internal/service"
	appErrors "github.com/noah-isme/gm-panel-api/pkg/errors"
	"github.com/noah-isme/gm-panel-api/pkg/response"
)

// ContextAdminKey is the gin context key storing the operator claims.
const ContextAdminKey = "currentAdmin"

// AdminCookieName is the HTTP-only cookie carrying the session token for
// browser clients that do not set the Authorization header.
const AdminCookieName = "gm_admin_token"

// JWT protects routes by requiring a valid session token, taken from the
// Authorization header first and the admin cookie second.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(AdminCookieName); err == nil {
				token = cookie
			}
		}
		if token == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAdminKey, claims)
		c.Next()
	}
}

// AdminFromContext returns the claims attached by JWT, or nil.
func AdminFromContext(c *gin.Context) *models.AdminClaims {
	if v, ok := c.Get(ContextAdminKey); ok {
		if claims, ok := v.(*models.AdminClaims); ok {
			return claims
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
