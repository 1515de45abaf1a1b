package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/onsite-team/taskflow/internal/api/dto"
	"github.com/onsite-team/taskflow/internal/auth"
	"github.com/onsite-team/taskflow/internal/domain"
	"github.com/onsite-team/taskflow/internal/service"
	apperrors "github.com/onsite-team/taskflow/pkg/util"
)

// TasksHandler manages task endpoints.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// ListTasks GET /tasks.
func (h *TasksHandler) ListTasks(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseTaskQuery(c, principal.User.ID)
	tasks, err := h.service.ListTasksWithFilter(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, dto.TaskFromDomain(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTask GET /tasks/:id.
func (h *TasksHandler) GetTask(c *fiber.Ctx) error {
	task, err := h.service.GetTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TaskFromDomain(task)})
}

// CreateTask POST /tasks.
func (h *TasksHandler) CreateTask(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	draft := domain.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	if req.DueDate != nil {
		draft.DueDate = *req.DueDate
	}
	task, err := h.service.CreateTask(c.UserContext(), principal.User, draft)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.TaskFromDomain(task)})
}

// UpdateProgress PATCH /tasks/:id/progress.
func (h *TasksHandler) UpdateProgress(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTaskProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	task, err := h.service.UpdateTaskProgress(c.UserContext(), principal.User, c.Params("id"), req.Status, req.Progress)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TaskFromDomain(task)})
}

func parseTaskQuery(c *fiber.Ctx, callerID string) service.TaskListFilter {
	filter := service.TaskListFilter{}
	if assignee := c.Query("assigned_to"); assignee != "" {
		if assignee == "me" {
			assignee = callerID
		}
		filter.AssignedTo = &assignee
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TaskStatus(strings.TrimSpace(part)))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("due_from")); from != nil {
		filter.DueFrom = from
	}
	if to := parseTime(c.Query("due_to")); to != nil {
		filter.DueTo = to
	}
	if limit := parseInt(c.Query("limit"), 0); limit > 0 {
		filter.Limit = limit
		filter.Offset = parseInt(c.Query("offset"), 0)
	}
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
