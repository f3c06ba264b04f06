package handler

import (
	"context"
	"net/http"

	"todo/internal/model"
	"todo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LevelService interface {
	Catalog(ctx context.Context) ([]model.Level, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*service.Dashboard, error)
	AcknowledgeSeen(ctx context.Context, userID, levelID uuid.UUID) (bool, error)
}

type LevelHandler struct {
	levels LevelService
}

func NewLevelHandler(levels LevelService) *LevelHandler {
	return &LevelHandler{levels: levels}
}

type MarkSeenRequest struct {
	LevelID string `json:"level_id" binding:"required"`
}

type MarkSeenResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// Dashboard godoc
// @Summary      Progress summary
// @Description  Reports an unseen level celebration once and marks it seen.
// @Tags         Levels
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} service.Dashboard
// @Router       /dashboard [get]
func (h *LevelHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	dashboard, err := h.levels.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// Catalog godoc
// @Summary      List levels
// @Tags         Levels
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.Level
// @Router       /levels [get]
func (h *LevelHandler) Catalog(c *gin.Context) {
	levels, err := h.levels.Catalog(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve levels")
		return
	}
	if levels == nil {
		levels = []model.Level{}
	}
	c.JSON(http.StatusOK, levels)
}

// MarkSeen godoc
// @Summary      Acknowledge a level celebration
// @Tags         Levels
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body MarkSeenRequest true "Level shown"
// @Success      200 {object} MarkSeenResponse
// @Router       /level/seen [post]
func (h *LevelHandler) MarkSeen(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req MarkSeenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}
	levelID, err := uuid.Parse(req.LevelID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid level ID format"})
		return
	}

	changed, err := h.levels.AcknowledgeSeen(c.Request.Context(), userID, levelID)
	if err != nil {
		respondError(c, err, "Failed to update level")
		return
	}
	c.JSON(http.StatusOK, MarkSeenResponse{Acknowledged: changed})
}
