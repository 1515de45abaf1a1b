package events

import (
	"time"

	"github.com/onsite-team/taskflow/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated         EventType = "task_created"
	EventTaskStatusChanged   EventType = "task_status_changed"
	EventTaskProgressUpdated EventType = "task_progress_updated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TaskID    string      `json:"task_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	Title      string    `json:"title"`
	AssignedTo string    `json:"assigned_to"`
	DueDate    time.Time `json:"due_date"`
}

// TaskStatusChangedPayload payload.
type TaskStatusChangedPayload struct {
	OldStatus domain.TaskStatus `json:"old_status"`
	NewStatus domain.TaskStatus `json:"new_status"`
}

// TaskProgressUpdatedPayload payload.
type TaskProgressUpdatedPayload struct {
	OldProgress int `json:"old_progress"`
	NewProgress int `json:"new_progress"`
}
