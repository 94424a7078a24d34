package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gm-panel-api/internal/models"
	"github.com/noah-isme/gm-panel-api/internal/service"
	appErrors "github.com/noah-isme/gm-panel-api/pkg/errors"
	"github.com/noah-isme/gm-panel-api/pkg/response"
)

// CharacterHandler exposes character endpoints.
type CharacterHandler struct {
	characters *service.CharacterService
}

// NewCharacterHandler constructs CharacterHandler.
func NewCharacterHandler(characters *service.CharacterService) *CharacterHandler {
	return &CharacterHandler{characters: characters}
}

// List godoc
// @Summary List characters
// @Tags Characters
// @Produce json
// @Param search query string false "Search by name"
// @Param accountId query int false "Filter by owning account"
// @Param class query string false "Filter by class"
// @Param minLevel query int false "Minimum level"
// @Param maxLevel query int false "Maximum level"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /characters [get]
func (h *CharacterHandler) List(c *gin.Context) {
	var filter models.CharacterFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Class = c.Query("class")
	if raw := c.Query("accountId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.AccountID = &id
		}
	}
	if raw := c.Query("minLevel"); raw != "" {
		if lvl, err := strconv.Atoi(raw); err == nil {
			filter.MinLevel = &lvl
		}
	}
	if raw := c.Query("maxLevel"); raw != "" {
		if lvl, err := strconv.Atoi(raw); err == nil {
			filter.MaxLevel = &lvl
		}
	}
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	characters, pagination, err := h.characters.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, characters, pagination)
}

// Get godoc
// @Summary Get character detail
// @Tags Characters
// @Produce json
// @Param id path int true "Character ID"
// @Success 200 {object} response.Envelope
// @Router /characters/{id} [get]
func (h *CharacterHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	character, err := h.characters.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, character, nil)
}

// Update godoc
// @Summary Update character
// @Tags Characters
// @Accept json
// @Produce json
// @Param id path int true "Character ID"
// @Param payload body service.UpdateCharacterRequest true "Character payload"
// @Success 200 {object} response.Envelope
// @Router /characters/{id} [put]
func (h *CharacterHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Actor = adminName(c)
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	character, err := h.characters.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, character, nil)
}

// Delete godoc
// @Summary Delete character
// @Tags Characters
// @Produce json
// @Param id path int true "Character ID"
// @Success 204
// @Router /characters/{id} [delete]
func (h *CharacterHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.characters.Delete(c.Request.Context(), id, adminName(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
