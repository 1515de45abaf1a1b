package service

import (
	"context"
	"testing"

	"github.com/onsite-team/taskflow/internal/derive"
	"github.com/onsite-team/taskflow/internal/domain"
)

func TestStatsServiceWithoutCache(t *testing.T) {
	repo := &fakeTaskRepo{tasks: []domain.Task{
		{ID: "t1", AssignedTo: "2", Status: domain.TaskStatusPending},
		{ID: "t2", AssignedTo: "2", Status: domain.TaskStatusCompleted},
		{ID: "t3", AssignedTo: "3", Status: domain.TaskStatusInProgress},
	}}
	// nil redis: every read computes directly
	svc := NewStatsService(repo, nil, 0, nil)
	ctx := context.Background()

	counts, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	want := derive.StatusCounts{Total: 3, Pending: 1, InProgress: 1, Completed: 1}
	if counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}

	stats, err := svc.Member(ctx, "2")
	if err != nil {
		t.Fatalf("member: %v", err)
	}
	if (stats != derive.MemberStats{Pending: 1, Completed: 1}) {
		t.Errorf("stats = %+v", stats)
	}

	// Invalidate with no cache is a no-op, not a panic
	svc.Invalidate(ctx)
}
