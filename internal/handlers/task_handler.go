package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusync/task-automation-service/internal/models"
	"github.com/edusync/task-automation-service/internal/services"
	"github.com/edusync/task-automation-service/internal/upstream"
	"github.com/edusync/task-automation-service/internal/utils"
	"github.com/edusync/task-automation-service/internal/validator"
)

type TaskHandler struct {
	BaseHandler
	discoveryService *services.DiscoveryService
	processorService *services.ProcessorService
	validator        *validator.Validator
}

// TaskListResponse is the discovery response shape.
type TaskListResponse struct {
	Success bool              `json:"success"`
	Tasks   []json.RawMessage `json:"tasks"`
	Count   int               `json:"count"`
}

func NewTaskHandler(
	discoveryService *services.DiscoveryService,
	processorService *services.ProcessorService,
	v *validator.Validator,
	logger utils.Logger,
) *TaskHandler {
	return &TaskHandler{
		BaseHandler:      NewBaseHandler(logger),
		discoveryService: discoveryService,
		processorService: processorService,
		validator:        v,
	}
}

// ListTasks returns the student's pending tasks across all resolved targets.
// @Summary List tasks
// @Description Lists pending tasks de-duplicated across publication targets
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body models.TaskListRequest true "Discovery request"
// @Success 200 {object} TaskListResponse
// @Failure 400 {object} ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	h.listTasks(c, "")
}

// ListExpiredTasks is the expired-only shorthand for ListTasks.
// @Summary List expired tasks
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body models.TaskListRequest true "Discovery request"
// @Success 200 {object} TaskListResponse
// @Failure 400 {object} ErrorResponse
// @Router /tasks/expired [post]
func (h *TaskHandler) ListExpiredTasks(c *gin.Context) {
	h.listTasks(c, models.TaskFilterExpired)
}

func (h *TaskHandler) listTasks(c *gin.Context, forcedFilter string) {
	var req models.TaskListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if forcedFilter != "" {
		req.Filter = forcedFilter
	}
	if req.Filter == "" {
		req.Filter = models.TaskFilterPending
	}

	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Discovering tasks", "filter", req.Filter)

	tasks, err := h.discoveryService.DiscoverTasks(c.Request.Context(), req.AuthToken, req.Filter, req.Nick)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if tasks == nil {
		tasks = []json.RawMessage{}
	}

	c.JSON(http.StatusOK, TaskListResponse{
		Success: true,
		Tasks:   tasks,
		Count:   len(tasks),
	})
}

// ProcessTask runs the submission pipeline for one task.
// @Summary Process a single task
// @Description Fetches, synthesizes answers for, and submits one task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body models.ProcessTaskRequest true "Process request"
// @Success 200 {object} models.ProcessResult
// @Failure 400 {object} ErrorResponse
// @Router /task/process [post]
func (h *TaskHandler) ProcessTask(c *gin.Context) {
	var req models.ProcessTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	if req.Task.ID.IsZero() {
		h.RespondWithError(c, http.StatusBadRequest, services.ErrMissingTask.Error(), nil)
		return
	}

	h.LogRequest(c, "Processing task", "task_id", req.Task.ID.String(), "is_draft", req.IsDraft)

	result := h.processorService.ProcessOne(c.Request.Context(), services.ProcessRequest{
		Token:   req.AuthToken,
		TimeMin: req.TimeMin,
		TimeMax: req.TimeMax,
		IsDraft: req.IsDraft,
	}, req.Task)

	c.JSON(http.StatusOK, result)
}

// CompleteTasks runs the submission pipeline for a batch of tasks.
// @Summary Process a batch of tasks
// @Description Submits every listed task concurrently with paced delays
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body models.CompleteRequest true "Batch request"
// @Success 200 {object} models.BatchResult
// @Failure 400 {object} ErrorResponse
// @Router /complete [post]
func (h *TaskHandler) CompleteTasks(c *gin.Context) {
	var req models.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Processing batch", "tasks", len(req.Tasks), "is_draft", req.IsDraft)

	result := h.processorService.ProcessMany(c.Request.Context(), services.ProcessRequest{
		Token:   req.AuthToken,
		TimeMin: req.TimeMin,
		TimeMax: req.TimeMax,
		IsDraft: req.IsDraft,
	}, req.Tasks)

	c.JSON(http.StatusOK, result)
}

func (h *TaskHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var upstreamErr *upstream.UpstreamError
	if errors.As(err, &upstreamErr) {
		status := http.StatusBadGateway
		if upstreamErr.StatusCode == http.StatusUnauthorized || upstreamErr.StatusCode == http.StatusForbidden {
			status = http.StatusUnauthorized
		}
		h.RespondWithError(c, status, "Upstream platform error", err)
		return
	}

	switch {
	case errors.Is(err, services.ErrMissingToken),
		errors.Is(err, services.ErrMissingTask),
		errors.Is(err, services.ErrMissingTasks),
		errors.Is(err, services.ErrBadRequest):
		h.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, services.ErrInvalidStructure):
		h.RespondWithError(c, http.StatusUnprocessableEntity, err.Error(), err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
