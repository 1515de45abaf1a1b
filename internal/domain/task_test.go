package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/onsite-team/taskflow/pkg/util"
)

func TestClampProgress(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{-50, 0},
		{-1, 0},
		{0, 0},
		{5, 5},
		{40, 40},
		{100, 100},
		{101, 100},
		{1000, 100},
	}
	for _, tc := range cases {
		if got := ClampProgress(tc.in); got != tc.want {
			t.Errorf("ClampProgress(%d) = %d, want %d", tc.in, got, tc.want)
		}
		// idempotent
		if got := ClampProgress(ClampProgress(tc.in)); got != tc.want {
			t.Errorf("ClampProgress twice on %d = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	for _, s := range []TaskStatus{"", "done", "PENDING", "in_progress"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true", s)
		}
	}
}

func TestCanEdit(t *testing.T) {
	task := &Task{ID: "t1", AssignedTo: "2"}
	cases := []struct {
		name  string
		actor *User
		want  bool
	}{
		{"assignee member", &User{ID: "2", Role: RoleMember}, true},
		{"assignee admin", &User{ID: "2", Role: RoleAdmin}, true},
		{"other admin", &User{ID: "1", Role: RoleAdmin}, true},
		{"other member", &User{ID: "3", Role: RoleMember}, false},
	}
	for _, tc := range cases {
		if got := CanEdit(task, tc.actor); got != tc.want {
			t.Errorf("%s: CanEdit = %v, want %v", tc.name, got, tc.want)
		}
	}
	if CanEdit(nil, &User{ID: "2"}) || CanEdit(task, nil) {
		t.Error("CanEdit should be false for nil task or actor")
	}
}

func TestValidateDraftFieldOrder(t *testing.T) {
	known := map[string]*User{"2": {ID: "2", Name: "Jane Smith"}}
	due := time.Now().Add(24 * time.Hour)

	cases := []struct {
		name      string
		draft     TaskDraft
		wantField string
	}{
		{"missing title", TaskDraft{Description: "d", AssignedTo: "2", DueDate: due}, "title"},
		{"missing description", TaskDraft{Title: "t", AssignedTo: "2", DueDate: due}, "description"},
		{"unknown assignee", TaskDraft{Title: "t", Description: "d", AssignedTo: "99", DueDate: due}, "assignedTo"},
		{"missing due date", TaskDraft{Title: "t", Description: "d", AssignedTo: "2"}, "dueDate"},
		// title reported first when several fields are bad
		{"all missing", TaskDraft{}, "title"},
	}
	for _, tc := range cases {
		err := ValidateDraft(tc.draft, known)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) {
			t.Fatalf("%s: expected DomainError, got %T", tc.name, err)
		}
		if domainErr.Code != "VALIDATION_FAILED" {
			t.Errorf("%s: code = %q", tc.name, domainErr.Code)
		}
		if got := domainErr.Details["field"]; got != tc.wantField {
			t.Errorf("%s: field = %v, want %q", tc.name, got, tc.wantField)
		}
	}

	valid := TaskDraft{Title: "t", Description: "d", AssignedTo: "2", DueDate: due}
	if err := ValidateDraft(valid, known); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}
}
