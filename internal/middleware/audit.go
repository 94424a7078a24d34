package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gm-panel-api/internal/audit"
	"github.com/noah-isme/gm-panel-api/internal/models"
)

var mutatingMethods = map[string]struct{}{
	"POST":   {},
	"PUT":    {},
	"PATCH":  {},
	"DELETE": {},
}

// Audit creates a middleware that records a coarse entry for every mutating
// request that completes successfully. The record happens after c.Next(),
// so the final response status is observed; handlers that need field-level
// diffs call the recorder themselves in addition to this.
func Audit(recorder *audit.Recorder, actionPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if _, ok := mutatingMethods[c.Request.Method]; !ok {
			return
		}
		if c.Writer.Status() >= 400 {
			return
		}

		admin := models.AdminUnknown
		if claims := AdminFromContext(c); claims != nil {
			admin = claims.Username
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metadata := map[string]interface{}{
			"path":   path,
			"status": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, p := range c.Params {
				params[p.Key] = p.Value
			}
			metadata["params"] = params
		}

		recorder.Record(admin, actionPrefix+"_"+c.Request.Method, audit.Options{
			Metadata:  metadata,
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		})
	}
}
