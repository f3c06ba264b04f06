package handler

import (
	"context"
	"net/http"

	"todo/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubtaskService interface {
	CreateSubtasks(ctx context.Context, requester, taskID uuid.UUID, titles []string) ([]model.Subtask, error)
	ListSubtasks(ctx context.Context, requester, taskID uuid.UUID) ([]model.Subtask, error)
	RenameSubtask(ctx context.Context, requester, subtaskID uuid.UUID, title string) (*model.Subtask, error)
	ToggleSubtask(ctx context.Context, requester, subtaskID uuid.UUID) (*model.Subtask, error)
	DeleteSubtask(ctx context.Context, requester, subtaskID uuid.UUID) error
}

type SubtaskHandler struct {
	subtasks SubtaskService
}

func NewSubtaskHandler(subtasks SubtaskService) *SubtaskHandler {
	return &SubtaskHandler{subtasks: subtasks}
}

type CreateSubtasksRequest struct {
	Titles []string `json:"titles"`
}

type RenameSubtaskRequest struct {
	Title string `json:"title"`
}

// List godoc
// @Summary      List a task's subtasks
// @Tags         Subtasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Success      200 {array} model.Subtask
// @Router       /tasks/{id}/subtasks [get]
func (h *SubtaskHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	subtasks, err := h.subtasks.ListSubtasks(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err, "Failed to retrieve subtasks")
		return
	}
	if subtasks == nil {
		subtasks = []model.Subtask{}
	}
	c.JSON(http.StatusOK, subtasks)
}

// Create godoc
// @Summary      Add subtasks to a task
// @Tags         Subtasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Param        request body CreateSubtasksRequest true "Subtask titles"
// @Success      201 {array} model.Subtask
// @Failure      422 {object} ValidationErrorResponse
// @Router       /tasks/{id}/subtasks [post]
func (h *SubtaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	var req CreateSubtasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}

	subtasks, err := h.subtasks.CreateSubtasks(c.Request.Context(), userID, taskID, req.Titles)
	if err != nil {
		respondError(c, err, "Failed to add subtasks")
		return
	}
	c.JSON(http.StatusCreated, subtasks)
}

// Rename godoc
// @Summary      Rename a subtask
// @Tags         Subtasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subtask ID"
// @Param        request body RenameSubtaskRequest true "New title"
// @Success      200 {object} model.Subtask
// @Router       /subtasks/{id} [patch]
func (h *SubtaskHandler) Rename(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	subtaskID, ok := parseIDParam(c, "id", "subtask")
	if !ok {
		return
	}

	var req RenameSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}

	subtask, err := h.subtasks.RenameSubtask(c.Request.Context(), userID, subtaskID, req.Title)
	if err != nil {
		respondError(c, err, "Failed to update subtask")
		return
	}
	c.JSON(http.StatusOK, subtask)
}

// Toggle godoc
// @Summary      Flip a subtask's completion
// @Tags         Subtasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subtask ID"
// @Success      200 {object} model.Subtask
// @Router       /subtasks/{id}/toggle [patch]
func (h *SubtaskHandler) Toggle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	subtaskID, ok := parseIDParam(c, "id", "subtask")
	if !ok {
		return
	}

	subtask, err := h.subtasks.ToggleSubtask(c.Request.Context(), userID, subtaskID)
	if err != nil {
		respondError(c, err, "Failed to update subtask")
		return
	}
	c.JSON(http.StatusOK, subtask)
}

// Delete godoc
// @Summary      Delete a subtask
// @Tags         Subtasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Subtask ID"
// @Success      200 {object} MessageResponse
// @Router       /subtasks/{id} [delete]
func (h *SubtaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	subtaskID, ok := parseIDParam(c, "id", "subtask")
	if !ok {
		return
	}

	if err := h.subtasks.DeleteSubtask(c.Request.Context(), userID, subtaskID); err != nil {
		respondError(c, err, "Failed to delete subtask")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Subtask deleted successfully"})
}
