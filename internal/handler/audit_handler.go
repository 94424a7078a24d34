package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gm-panel-api/internal/audit"
	"github.com/noah-isme/gm-panel-api/internal/models"
	appErrors "github.com/noah-isme/gm-panel-api/pkg/errors"
	"github.com/noah-isme/gm-panel-api/pkg/export"
	"github.com/noah-isme/gm-panel-api/pkg/response"
)

// AuditHandler exposes the audit log viewer endpoints.
type AuditHandler struct {
	reader *audit.Reader
}

// NewAuditHandler constructs AuditHandler.
func NewAuditHandler(reader *audit.Reader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// List godoc
// @Summary List audit log entries
// @Tags Audit
// @Produce json
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	entries, err := h.reader.Read(models.AuditFilter{
		StartDate: strings.TrimSpace(c.Query("startDate")),
		EndDate:   strings.TrimSpace(c.Query("endDate")),
	})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	response.JSON(c, http.StatusOK, entries, nil, map[string]interface{}{"count": len(entries)})
}

// Export godoc
// @Summary Export audit log entries
// @Tags Audit
// @Produce text/csv,application/pdf
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /audit-logs/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	entries, err := h.reader.Read(models.AuditFilter{
		StartDate: strings.TrimSpace(c.Query("startDate")),
		EndDate:   strings.TrimSpace(c.Query("endDate")),
	})
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}

	dataset := export.Dataset{
		Title:   "Audit Log",
		Headers: []string{"Timestamp", "Action", "Admin", "Target", "Changes", "IP"},
		Rows:    make([][]string, 0, len(entries)),
	}
	for _, e := range entries {
		dataset.Rows = append(dataset.Rows, []string{
			e.Timestamp, e.Action, e.Admin, formatTarget(e.Target), formatChanges(e.Changes), e.IP,
		})
	}

	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	switch format {
	case "csv":
		payload, err := export.RenderCSV(dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="audit-logs.csv"`)
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := export.RenderPDF(dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="audit-logs.pdf"`)
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

func formatTarget(target *models.AuditTarget) string {
	if target == nil {
		return ""
	}
	if target.Name != "" {
		return fmt.Sprintf("%s/%s (%s)", target.Type, target.ID, target.Name)
	}
	return fmt.Sprintf("%s/%s", target.Type, target.ID)
}

func formatChanges(changes map[string]models.FieldChange) string {
	if len(changes) == 0 {
		return ""
	}
	fields := make([]string, 0, len(changes))
	for field := range changes {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		change := changes[field]
		parts = append(parts, fmt.Sprintf("%s: %v -> %v", field, change.From, change.To))
	}
	return strings.Join(parts, "; ")
}
