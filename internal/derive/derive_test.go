package derive

import (
	"reflect"
	"testing"

	"github.com/onsite-team/taskflow/internal/domain"
)

func sampleTasks() []domain.Task {
	return []domain.Task{
		{ID: "t1", AssignedTo: "2", Status: domain.TaskStatusPending},
		{ID: "t2", AssignedTo: "2", Status: domain.TaskStatusInProgress},
		{ID: "t3", AssignedTo: "3", Status: domain.TaskStatusCompleted},
		{ID: "t4", AssignedTo: "2", Status: domain.TaskStatusCompleted},
		{ID: "t5", AssignedTo: "3", Status: domain.TaskStatusPending},
	}
}

func TestComputeStatusCountsPartition(t *testing.T) {
	tasks := sampleTasks()
	counts := ComputeStatusCounts(tasks)

	if counts.Total != len(tasks) {
		t.Errorf("total = %d, want %d", counts.Total, len(tasks))
	}
	if sum := counts.Pending + counts.InProgress + counts.Completed; sum != counts.Total {
		t.Errorf("partitions sum to %d, total is %d", sum, counts.Total)
	}
	want := StatusCounts{Total: 5, Pending: 2, InProgress: 1, Completed: 2}
	if counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}

	empty := ComputeStatusCounts(nil)
	if empty != (StatusCounts{}) {
		t.Errorf("empty collection counts = %+v", empty)
	}
}

func TestFilterByAssignee(t *testing.T) {
	tasks := sampleTasks()
	mine := FilterByAssignee(tasks, "2")

	if len(mine) != 3 {
		t.Fatalf("len = %d, want 3", len(mine))
	}
	// input order preserved
	if mine[0].ID != "t1" || mine[1].ID != "t2" || mine[2].ID != "t4" {
		t.Errorf("order not preserved: %v", []string{mine[0].ID, mine[1].ID, mine[2].ID})
	}
	// idempotent
	if again := FilterByAssignee(mine, "2"); !reflect.DeepEqual(again, mine) {
		t.Errorf("filter not idempotent")
	}
	if none := FilterByAssignee(tasks, "99"); len(none) != 0 {
		t.Errorf("expected empty result, got %d", len(none))
	}
}

func TestFilterByStatus(t *testing.T) {
	tasks := sampleTasks()
	done := FilterByStatus(tasks, domain.TaskStatusCompleted)
	if len(done) != 2 || done[0].ID != "t3" || done[1].ID != "t4" {
		t.Errorf("unexpected completed set: %v", done)
	}
}

func TestComputeMemberStats(t *testing.T) {
	tasks := sampleTasks()
	stats := ComputeMemberStats(tasks, "2")
	want := MemberStats{Pending: 1, InProgress: 1, Completed: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	// equivalent to counting the filtered subset
	counts := ComputeStatusCounts(FilterByAssignee(tasks, "2"))
	if stats.Pending != counts.Pending || stats.InProgress != counts.InProgress || stats.Completed != counts.Completed {
		t.Errorf("member stats diverge from filtered counts")
	}
}
