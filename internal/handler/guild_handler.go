package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gm-panel-api/internal/models"
	"github.com/noah-isme/gm-panel-api/internal/service"
	appErrors "github.com/noah-isme/gm-panel-api/pkg/errors"
	"github.com/noah-isme/gm-panel-api/pkg/response"
)

// GuildHandler exposes guild endpoints.
type GuildHandler struct {
	guilds *service.GuildService
}

// NewGuildHandler constructs GuildHandler.
func NewGuildHandler(guilds *service.GuildService) *GuildHandler {
	return &GuildHandler{guilds: guilds}
}

// List godoc
// @Summary List guilds
// @Tags Guilds
// @Produce json
// @Param search query string false "Search by name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /guilds [get]
func (h *GuildHandler) List(c *gin.Context) {
	var filter models.GuildFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	guilds, pagination, err := h.guilds.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guilds, pagination)
}

// Get godoc
// @Summary Get guild detail
// @Tags Guilds
// @Produce json
// @Param id path int true "Guild ID"
// @Success 200 {object} response.Envelope
// @Router /guilds/{id} [get]
func (h *GuildHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	guild, err := h.guilds.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guild, nil)
}

// Update godoc
// @Summary Update guild
// @Tags Guilds
// @Accept json
// @Produce json
// @Param id path int true "Guild ID"
// @Param payload body service.UpdateGuildRequest true "Guild payload"
// @Success 200 {object} response.Envelope
// @Router /guilds/{id} [put]
func (h *GuildHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Actor = adminName(c)
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	guild, err := h.guilds.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guild, nil)
}

// Delete godoc
// @Summary Disband guild
// @Tags Guilds
// @Produce json
// @Param id path int true "Guild ID"
// @Success 204
// @Router /guilds/{id} [delete]
func (h *GuildHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.guilds.Delete(c.Request.Context(), id, adminName(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
