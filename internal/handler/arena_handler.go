package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gm-panel-api/internal/models"
	"github.com/noah-isme/gm-panel-api/internal/service"
	appErrors "github.com/noah-isme/gm-panel-api/pkg/errors"
	"github.com/noah-isme/gm-panel-api/pkg/response"
)

// ArenaHandler exposes arena ranking endpoints.
type ArenaHandler struct {
	arena *service.ArenaService
}

// NewArenaHandler constructs ArenaHandler.
func NewArenaHandler(arena *service.ArenaService) *ArenaHandler {
	return &ArenaHandler{arena: arena}
}

// List godoc
// @Summary List arena rankings
// @Tags Arena
// @Produce json
// @Param season query int false "Filter by season"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /arena-rankings [get]
func (h *ArenaHandler) List(c *gin.Context) {
	var filter models.ArenaFilter
	if raw := c.Query("season"); raw != "" {
		if season, err := strconv.Atoi(raw); err == nil {
			filter.Season = &season
		}
	}
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	rankings, pagination, err := h.arena.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rankings, pagination)
}

// Update godoc
// @Summary Adjust an arena ranking
// @Tags Arena
// @Accept json
// @Produce json
// @Param id path int true "Ranking ID"
// @Param payload body service.UpdateArenaRequest true "Ranking payload"
// @Success 200 {object} response.Envelope
// @Router /arena-rankings/{id} [put]
func (h *ArenaHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateArenaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Actor = adminName(c)
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	ranking, err := h.arena.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranking, nil)
}
