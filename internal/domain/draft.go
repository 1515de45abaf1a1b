package domain

import (
	"time"

	apperrors "github.com/onsite-team/taskflow/pkg/util"
)

// TaskDraft is an unpersisted candidate task supplied by a caller before
// validation.
type TaskDraft struct {
	Title       string
	Description string
	AssignedTo  string
	DueDate     time.Time
}

// ValidateDraft checks a draft against the known user set. It reports the
// first missing or invalid field in the fixed order title, description,
// assignedTo, dueDate.
func ValidateDraft(draft TaskDraft, knownUsers map[string]*User) error {
	if draft.Title == "" {
		return apperrors.NewFieldValidationError("title")
	}
	if draft.Description == "" {
		return apperrors.NewFieldValidationError("description")
	}
	if _, ok := knownUsers[draft.AssignedTo]; !ok {
		return apperrors.NewFieldValidationError("assignedTo")
	}
	if draft.DueDate.IsZero() {
		return apperrors.NewFieldValidationError("dueDate")
	}
	return nil
}
