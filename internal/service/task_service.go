package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/onsite-team/taskflow/internal/domain"
	"github.com/onsite-team/taskflow/internal/events"
	"github.com/onsite-team/taskflow/internal/repository"
	apperrors "github.com/onsite-team/taskflow/pkg/util"
)

// StatsInvalidator drops cached aggregates after a write.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

// TaskService is the repository facade for tasks. It owns every
// authorization check on the write path; UI-level role checks are a
// presentation optimization only. Writes are last-write-wins, no version
// token.
type TaskService struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	stats      StatsInvalidator
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	TaskRepo   repository.TaskRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Stats      StatsInvalidator
}

// TaskListFilter describes task listing filters.
type TaskListFilter struct {
	AssignedTo *string
	Statuses   []domain.TaskStatus
	SearchTerm *string
	DueFrom    *time.Time
	DueTo      *time.Time
	Limit      int
	Offset     int
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		stats:      deps.Stats,
	}
}

// ListTasks returns all tasks.
func (s *TaskService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return tasks, nil
}

// ListTasksWithFilter returns tasks matching the filter.
func (s *TaskService) ListTasksWithFilter(ctx context.Context, filter TaskListFilter) ([]domain.Task, error) {
	tasks, err := s.tasks.ListWithFilter(ctx, repository.TaskFilter{
		AssignedTo: filter.AssignedTo,
		Statuses:   filter.Statuses,
		SearchTerm: filter.SearchTerm,
		DueFrom:    filter.DueFrom,
		DueTo:      filter.DueTo,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return tasks, nil
}

// GetTask fetches a single task by id.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"id": id})
		}
		return nil, apperrors.NewStoreError(err)
	}
	return task, nil
}

// CreateTask validates and persists a new task on behalf of creator.
// Only admins may create tasks. New tasks always start pending with zero
// progress; the assignee's display name is copied at creation and not
// kept in sync with later renames.
func (s *TaskService) CreateTask(ctx context.Context, creator *domain.User, draft domain.TaskDraft) (*domain.Task, error) {
	if creator == nil || creator.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("only admins can create tasks")
	}

	members, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	known := make(map[string]*domain.User, len(members))
	for i := range members {
		known[members[i].ID] = &members[i]
	}

	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	if err := domain.ValidateDraft(draft, known); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:          draft.Title,
		Description:    draft.Description,
		Status:         domain.TaskStatusPending,
		AssignedTo:     draft.AssignedTo,
		AssignedToName: known[draft.AssignedTo].Name,
		CreatedBy:      creator.ID,
		DueDate:        draft.DueDate,
		Progress:       0,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.NewStoreError(err)
	}

	s.invalidateStats(ctx)
	s.publishEvent(ctx, events.Event{
		Type:   events.EventTaskCreated,
		TaskID: task.ID,
		Actor:  actorFor(creator),
		Payload: events.TaskCreatedPayload{
			Title:      task.Title,
			AssignedTo: task.AssignedTo,
			DueDate:    task.DueDate,
		},
	})
	return task, nil
}

// UpdateTaskProgress writes a new status and progress on behalf of actor.
// The assignee and admins may update; everyone else is rejected before
// any write. Progress is clamped to [0, 100]. Setting status to completed
// coerces progress to 100; the reverse direction is deliberately not
// enforced. Any transition between the three statuses is allowed.
func (s *TaskService) UpdateTaskProgress(ctx context.Context, actor *domain.User, id string, status domain.TaskStatus, progress int) (*domain.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanEdit(task, actor) {
		return nil, apperrors.NewForbidden("only the assignee or an admin can update this task")
	}
	if !domain.ValidStatus(status) {
		return nil, apperrors.NewFieldValidationError("status")
	}

	progress = domain.ClampProgress(progress)
	if status == domain.TaskStatusCompleted {
		progress = 100
	}

	oldStatus := task.Status
	oldProgress := task.Progress
	task.Status = status
	task.Progress = progress

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"id": id})
		}
		return nil, apperrors.NewStoreError(err)
	}

	s.invalidateStats(ctx)
	if oldStatus != task.Status {
		s.publishEvent(ctx, events.Event{
			Type:   events.EventTaskStatusChanged,
			TaskID: task.ID,
			Actor:  actorFor(actor),
			Payload: events.TaskStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: task.Status,
			},
		})
	}
	if oldProgress != task.Progress {
		s.publishEvent(ctx, events.Event{
			Type:   events.EventTaskProgressUpdated,
			TaskID: task.ID,
			Actor:  actorFor(actor),
			Payload: events.TaskProgressUpdatedPayload{
				OldProgress: oldProgress,
				NewProgress: task.Progress,
			},
		})
	}
	return task, nil
}

func (s *TaskService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	s.stats.Invalidate(ctx)
}

func (s *TaskService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: user.ID, Role: user.Role}
}
