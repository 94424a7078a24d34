package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gm-panel-api/internal/middleware"
	"github.com/noah-isme/gm-panel-api/internal/models"
	appErrors "github.com/noah-isme/gm-panel-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.AdminClaims {
	return middleware.AdminFromContext(c)
}

// adminName resolves the acting operator for audit attribution.
func adminName(c *gin.Context) string {
	if claims := middleware.AdminFromContext(c); claims != nil && claims.Username != "" {
		return claims.Username
	}
	return models.AdminUnknown
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id")
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback))); err == nil {
		return v
	}
	return fallback
}
