// Package derive computes read-side views over task collections: filters,
// status counters, and per-member aggregates. Everything here is pure; the
// inputs are the transient copies handed out by the repository layer.
package derive

import "github.com/onsite-team/taskflow/internal/domain"

// StatusCounts partitions a task collection by status. Total always equals
// the sum of the three partitions because the status enum is exhaustive.
type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// MemberStats aggregates one member's tasks by status.
type MemberStats struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// FilterByAssignee returns tasks assigned to userID, input order preserved.
func FilterByAssignee(tasks []domain.Task, userID string) []domain.Task {
	filtered := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.AssignedTo == userID {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// FilterByStatus returns tasks in the given status, input order preserved.
func FilterByStatus(tasks []domain.Task, status domain.TaskStatus) []domain.Task {
	filtered := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == status {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// ComputeStatusCounts tallies the collection by status.
func ComputeStatusCounts(tasks []domain.Task) StatusCounts {
	counts := StatusCounts{Total: len(tasks)}
	for _, task := range tasks {
		switch task.Status {
		case domain.TaskStatusPending:
			counts.Pending++
		case domain.TaskStatusInProgress:
			counts.InProgress++
		case domain.TaskStatusCompleted:
			counts.Completed++
		}
	}
	return counts
}

// ComputeMemberStats tallies the subset of tasks assigned to userID.
func ComputeMemberStats(tasks []domain.Task, userID string) MemberStats {
	counts := ComputeStatusCounts(FilterByAssignee(tasks, userID))
	return MemberStats{
		Pending:    counts.Pending,
		InProgress: counts.InProgress,
		Completed:  counts.Completed,
	}
}
