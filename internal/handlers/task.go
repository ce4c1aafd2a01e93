package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/projectflow/projectflow-api/internal/dto"
	apierrors "github.com/projectflow/projectflow-api/internal/errors"
	"github.com/projectflow/projectflow-api/internal/middleware"
	"github.com/projectflow/projectflow-api/internal/models"
	"github.com/projectflow/projectflow-api/internal/policy"
	"github.com/projectflow/projectflow-api/internal/realtime"
	"github.com/projectflow/projectflow-api/internal/services"
	"github.com/projectflow/projectflow-api/internal/utils"
)

// TaskHandler coordinates task CRUD and the broadcasts that follow.
type TaskHandler struct {
	tasks       *services.TaskService
	authz       policy.Evaluator
	broadcaster realtime.Broadcaster
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *services.TaskService, authz policy.Evaluator, broadcaster realtime.Broadcaster) *TaskHandler {
	return &TaskHandler{
		tasks:       tasks,
		authz:       authz,
		broadcaster: broadcaster,
	}
}

// ListTasks returns every task with assignees and creator.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authz.Authorize(user, policy.ActionTaskList, policy.Resource{}); err != nil {
		apierrors.Forbidden(c, "")
		return
	}

	tasks, err := h.tasks.ListTasks()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a task and broadcasts task:created.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authz.Authorize(user, policy.ActionTaskCreate, policy.Resource{}); err != nil {
		apierrors.Forbidden(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" validate:"max=200"`
		Description string     `json:"description" validate:"max=2000"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
		AssigneeIDs []string   `json:"assignee_ids"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.tasks.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		AssigneeIDs: req.AssigneeIDs,
		CreatorID:   user.ID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	taskDTO := dto.ToTaskDTO(*task)
	publish(h.broadcaster, realtime.TasksChannel, realtime.EventTaskCreated, taskDTO)

	c.JSON(http.StatusCreated, taskDTO)
}

// UpdateTask updates a task, replaces its assignee set, and broadcasts
// task:updated.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authz.Authorize(user, policy.ActionTaskUpdate, policy.Resource{}); err != nil {
		apierrors.Forbidden(c, "")
		return
	}

	type UpdateTaskRequest struct {
		Title       string     `json:"title" validate:"max=200"`
		Description string     `json:"description" validate:"max=2000"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
		AssigneeIDs []string   `json:"assignee_ids"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.tasks.UpdateTask(c.Param("id"), services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		AssigneeIDs: req.AssigneeIDs,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	taskDTO := dto.ToTaskDTO(*task)
	publish(h.broadcaster, realtime.TasksChannel, realtime.EventTaskUpdated, taskDTO)

	c.JSON(http.StatusOK, taskDTO)
}

// DeleteTask removes a task and its assignments and broadcasts
// task:deleted with the bare id.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authz.Authorize(user, policy.ActionTaskDelete, policy.Resource{}); err != nil {
		apierrors.Forbidden(c, "")
		return
	}

	id := c.Param("id")
	if err := h.tasks.DeleteTask(id); err != nil {
		respondTaskError(c, err)
		return
	}

	publish(h.broadcaster, realtime.TasksChannel, realtime.EventTaskDeleted, id)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
