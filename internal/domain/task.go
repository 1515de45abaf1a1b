package domain

import "time"

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ValidStatus reports whether s is one of the three known statuses.
// Status and progress are independently settable except for the
// completed-coercion rule applied by the task service; the enum itself
// enforces no transition graph.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is the aggregate for tracked work items.
type Task struct {
	ID             string
	Title          string
	Description    string
	Status         TaskStatus
	AssignedTo     string
	AssignedToName string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DueDate        time.Time
	Progress       int
}

// ClampProgress bounds a progress value to [0, 100]. It never errors and
// is idempotent.
func ClampProgress(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// CanEdit reports whether actor may update the task: the assignee and
// admins only. The same predicate drives both the UI affordance and the
// write path; only the write-path check is a security boundary.
func CanEdit(task *Task, actor *User) bool {
	if task == nil || actor == nil {
		return false
	}
	return actor.ID == task.AssignedTo || actor.Role == RoleAdmin
}
