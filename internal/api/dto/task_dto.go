package dto

import (
	"time"

	"github.com/onsite-team/taskflow/internal/derive"
	"github.com/onsite-team/taskflow/internal/domain"
)

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskProgressRequest payload.
type UpdateTaskProgressRequest struct {
	Status   domain.TaskStatus `json:"status"`
	Progress int               `json:"progress"`
}

// TaskResponse is the full task shape.
type TaskResponse struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         domain.TaskStatus `json:"status"`
	AssignedTo     string            `json:"assigned_to"`
	AssignedToName string            `json:"assigned_to_name"`
	CreatedBy      string            `json:"created_by"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DueDate        time.Time         `json:"due_date"`
	Progress       int               `json:"progress"`
}

// TeamMemberResponse pairs a member with their task aggregates.
type TeamMemberResponse struct {
	UserResponse
	Stats derive.MemberStats `json:"stats"`
}

// TaskFromDomain maps a domain task to its response shape.
func TaskFromDomain(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		AssignedTo:     task.AssignedTo,
		AssignedToName: task.AssignedToName,
		CreatedBy:      task.CreatedBy,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
		DueDate:        task.DueDate,
		Progress:       task.Progress,
	}
}
