package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

// TaskHandler serves the staff task board.
type TaskHandler struct {
	tasks ports.TaskService
	audit ports.AuditRecorder
}

func NewTaskHandler(tasks ports.TaskService, audit ports.AuditRecorder) *TaskHandler {
	return &TaskHandler{tasks: tasks, audit: audit}
}

type createTaskRequest struct {
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description"`
	AssignedTo  string    `json:"assigned_to" validate:"required"`
	Priority    string    `json:"priority"    validate:"omitempty,oneof=low medium high critical"`
	Deadline    time.Time `json:"deadline"`
}

// Create assigns a new task to a staff member.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      200   {object}  domain.Task
// @Failure      422   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	t, err := h.tasks.CreateTask(c.Request().Context(), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		AssignedBy:  userID,
		Priority:    domain.TaskPriority(req.Priority),
		Deadline:    req.Deadline,
	})
	if err != nil {
		return err
	}

	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    userID,
		Action:    "task_created",
		Details:   "task: " + t.Title + ", assigned to: " + t.AssignedTo,
		IPAddress: c.RealIP(),
	})
	return c.JSON(http.StatusOK, t)
}

// List returns the caller's task view: admins see everything, everyone
// else sees only their own assignments.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Task
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListTasks(c.Request().Context(), userID, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// UpdateStatus moves a task through its lifecycle.
//
// @Summary      Update a task status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Task ID"
// @Param        body  body      statusChangeRequest  true  "New status"
// @Success      200   {object}  domain.Task
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /tasks/{id}/status [post]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req statusChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	t, err := h.tasks.UpdateTaskStatus(c.Request().Context(), c.Param("id"), domain.StepStatus(req.Status))
	if err != nil {
		return err
	}

	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    userID,
		Action:    "task_status_changed",
		Details:   "task: " + t.Title + ", status: " + string(t.Status),
		IPAddress: c.RealIP(),
	})
	return c.JSON(http.StatusOK, t)
}
