package handler

import (
	"context"
	"net/http"

	"todo/internal/model"
	"todo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskService interface {
	CreateTask(ctx context.Context, owner uuid.UUID, input service.CreateTaskInput) (*model.Task, error)
	GetTask(ctx context.Context, requester, taskID uuid.UUID) (*model.Task, error)
	ListTasks(ctx context.Context, owner uuid.UUID, deleted bool) ([]model.Task, error)
	UpdateTask(ctx context.Context, requester, taskID uuid.UUID, input service.UpdateTaskInput) (*service.UpdateResult, error)
	SoftDeleteTask(ctx context.Context, requester, taskID uuid.UUID) error
	RestoreTask(ctx context.Context, requester, taskID uuid.UUID) (*model.Task, error)
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// TaskResponse wraps a single task with a status message.
type TaskResponse struct {
	Message string      `json:"message,omitempty"`
	Task    *model.Task `json:"task"`
}

// UpdateTaskResponse adds the level reached by the update, if any.
type UpdateTaskResponse struct {
	Message  string       `json:"message"`
	Task     *model.Task  `json:"task"`
	NewLevel *model.Level `json:"new_level,omitempty"`
}

// List godoc
// @Summary      List active tasks
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.Task
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	h.list(c, false)
}

// RecycleBin godoc
// @Summary      List soft-deleted tasks
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.Task
// @Router       /recycle-bin [get]
func (h *TaskHandler) RecycleBin(c *gin.Context) {
	h.list(c, true)
}

func (h *TaskHandler) list(c *gin.Context, deleted bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), userID, deleted)
	if err != nil {
		respondError(c, err, "Failed to retrieve tasks")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// Create godoc
// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body service.CreateTaskInput true "Task data"
// @Success      201 {object} TaskResponse
// @Failure      422 {object} ValidationErrorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req service.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to add task.")
		return
	}
	c.JSON(http.StatusCreated, TaskResponse{Message: "Task added successfully!", Task: task})
}

// GetByID godoc
// @Summary      Get a task with subtasks and attachments
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Success      200 {object} TaskResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err, "Failed to retrieve task")
		return
	}
	c.JSON(http.StatusOK, TaskResponse{Task: task})
}

// Update godoc
// @Summary      Update a task
// @Description  Partial update. Setting completed propagates to subtasks and may reach a new level.
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Param        request body service.UpdateTaskInput true "Fields to change"
// @Success      200 {object} UpdateTaskResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ValidationErrorResponse
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	var req service.UpdateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}

	result, err := h.tasks.UpdateTask(c.Request.Context(), userID, taskID, req)
	if err != nil {
		respondError(c, err, "Failed to update task.")
		return
	}

	resp := UpdateTaskResponse{Message: "Task updated successfully!", Task: result.Task}
	if result.LevelUp != nil {
		resp.Message = "🎉 Congrats! You've reached " + result.LevelUp.Name + "!"
		resp.NewLevel = result.LevelUp
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Move a task to the recycle bin
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	if err := h.tasks.SoftDeleteTask(c.Request.Context(), userID, taskID); err != nil {
		respondError(c, err, "Failed to move task to Recycle Bin.")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Task moved to Recycle Bin!"})
}

// Restore godoc
// @Summary      Restore a task from the recycle bin
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Success      200 {object} TaskResponse
// @Failure      404 {object} ErrorResponse
// @Router       /tasks/{id}/restore [post]
func (h *TaskHandler) Restore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	task, err := h.tasks.RestoreTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err, "Failed to restore task.")
		return
	}
	c.JSON(http.StatusOK, TaskResponse{Message: "Task restored successfully!", Task: task})
}
