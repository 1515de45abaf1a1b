package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/onsite-team/taskflow/internal/domain"
	"github.com/onsite-team/taskflow/internal/events"
	"github.com/onsite-team/taskflow/internal/repository"
	apperrors "github.com/onsite-team/taskflow/pkg/util"
)

type fakeTaskRepo struct {
	tasks []domain.Task
	seq   int
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.seq++
	task.ID = "task-" + strconv.Itoa(r.seq)
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	for i := range r.tasks {
		if r.tasks[i].ID == task.ID {
			task.UpdatedAt = time.Now()
			r.tasks[i] = *task
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			task := r.tasks[i]
			return &task, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTaskRepo) List(_ context.Context) ([]domain.Task, error) {
	return append([]domain.Task{}, r.tasks...), nil
}

func (r *fakeTaskRepo) ListWithFilter(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var result []domain.Task
	for _, task := range r.tasks {
		if filter.AssignedTo != nil && task.AssignedTo != *filter.AssignedTo {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if task.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, task)
	}
	return result, nil
}

type fakeUserRepo struct {
	users []domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = "user-" + strconv.Itoa(len(r.users)+1)
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	return append([]domain.User{}, r.users...), nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(context.Context) { f.calls++ }

type testEnv struct {
	Service     *TaskService
	TaskRepo    *fakeTaskRepo
	Invalidator *fakeInvalidator
	Ctx         context.Context

	Admin   *domain.User
	Member  *domain.User
	Member2 *domain.User
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	admin := domain.User{ID: "1", Name: "John Doe", Email: "john@example.com", Role: domain.RoleAdmin}
	member := domain.User{ID: "2", Name: "Jane Smith", Email: "jane@example.com", Role: domain.RoleMember}
	member2 := domain.User{ID: "3", Name: "Mike Johnson", Email: "mike@example.com", Role: domain.RoleMember}

	taskRepo := &fakeTaskRepo{}
	userRepo := &fakeUserRepo{users: []domain.User{admin, member, member2}}
	invalidator := &fakeInvalidator{}
	svc := NewTaskService(TaskDependencies{
		TaskRepo:   taskRepo,
		UserRepo:   userRepo,
		Dispatcher: events.NewInMemoryDispatcher(),
		Stats:      invalidator,
	})
	return testEnv{
		Service:     svc,
		TaskRepo:    taskRepo,
		Invalidator: invalidator,
		Ctx:         context.Background(),
		Admin:       &admin,
		Member:      &member,
		Member2:     &member2,
	}
}

func (env testEnv) createTask(t *testing.T, assignee string) *domain.Task {
	t.Helper()
	task, err := env.Service.CreateTask(env.Ctx, env.Admin, domain.TaskDraft{
		Title:       "Write report",
		Description: "Quarterly numbers",
		AssignedTo:  assignee,
		DueDate:     time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestCreateTaskDefaults(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, "2")

	if task.ID == "" {
		t.Error("expected generated id")
	}
	if task.Status != domain.TaskStatusPending {
		t.Errorf("status = %q, want pending", task.Status)
	}
	if task.Progress != 0 {
		t.Errorf("progress = %d, want 0", task.Progress)
	}
	if task.AssignedTo != "2" || task.AssignedToName != "Jane Smith" {
		t.Errorf("assignee = %q/%q", task.AssignedTo, task.AssignedToName)
	}
	if task.CreatedBy != "1" {
		t.Errorf("createdBy = %q, want 1", task.CreatedBy)
	}
	if env.Invalidator.calls != 1 {
		t.Errorf("stats invalidated %d times, want 1", env.Invalidator.calls)
	}
}

func TestCreateTaskNonAdminRejected(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Service.CreateTask(env.Ctx, env.Member, domain.TaskDraft{
		Title:       "Write report",
		Description: "Quarterly numbers",
		AssignedTo:  "2",
		DueDate:     time.Now().Add(24 * time.Hour),
	})
	if !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if len(env.TaskRepo.tasks) != 0 {
		t.Errorf("store changed: %d tasks persisted", len(env.TaskRepo.tasks))
	}
	if env.Invalidator.calls != 0 {
		t.Errorf("stats invalidated on rejected create")
	}
}

func TestCreateTaskEmptyTitleRejectedBeforePersist(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Service.CreateTask(env.Ctx, env.Admin, domain.TaskDraft{
		Description: "Quarterly numbers",
		AssignedTo:  "2",
		DueDate:     time.Now().Add(24 * time.Hour),
	})
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	if domainErr.Details["field"] != "title" {
		t.Errorf("field = %v, want title", domainErr.Details["field"])
	}
	if len(env.TaskRepo.tasks) != 0 {
		t.Errorf("store changed: %d tasks persisted", len(env.TaskRepo.tasks))
	}
}

func TestUpdateTaskProgressScenario(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, "2")

	// assignee updates status and progress
	updated, err := env.Service.UpdateTaskProgress(env.Ctx, env.Member, task.ID, domain.TaskStatusInProgress, 40)
	if err != nil {
		t.Fatalf("assignee update: %v", err)
	}
	if updated.Status != domain.TaskStatusInProgress || updated.Progress != 40 {
		t.Errorf("got %q/%d, want in-progress/40", updated.Status, updated.Progress)
	}

	// unrelated member is rejected and the stored task is unchanged
	_, err = env.Service.UpdateTaskProgress(env.Ctx, env.Member2, task.ID, domain.TaskStatusCompleted, 100)
	if !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	stored, err := env.Service.GetTask(env.Ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if stored.Status != domain.TaskStatusInProgress || stored.Progress != 40 {
		t.Errorf("stored task changed after rejected update: %q/%d", stored.Status, stored.Progress)
	}

	// admin who is not the assignee may update
	if _, err := env.Service.UpdateTaskProgress(env.Ctx, env.Admin, task.ID, domain.TaskStatusInProgress, 60); err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestUpdateTaskProgressClamps(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, "2")

	updated, err := env.Service.UpdateTaskProgress(env.Ctx, env.Member, task.ID, domain.TaskStatusInProgress, 250)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Progress != 100 {
		t.Errorf("progress = %d, want 100", updated.Progress)
	}

	updated, err = env.Service.UpdateTaskProgress(env.Ctx, env.Member, task.ID, domain.TaskStatusPending, -10)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Progress != 0 {
		t.Errorf("progress = %d, want 0", updated.Progress)
	}
}

func TestUpdateTaskProgressCompletedCoercesProgress(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, "2")

	updated, err := env.Service.UpdateTaskProgress(env.Ctx, env.Member, task.ID, domain.TaskStatusCompleted, 40)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Progress != 100 {
		t.Errorf("completed task progress = %d, want 100", updated.Progress)
	}

	// progress 100 alone does not flip the status
	task2 := env.createTask(t, "2")
	updated, err = env.Service.UpdateTaskProgress(env.Ctx, env.Member, task2.ID, domain.TaskStatusInProgress, 100)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.TaskStatusInProgress {
		t.Errorf("status = %q, want in-progress", updated.Status)
	}
}

func TestUpdateTaskProgressUnknownStatusRejected(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, "2")

	_, err := env.Service.UpdateTaskProgress(env.Ctx, env.Member, task.ID, "archived", 10)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	if domainErr.Details["field"] != "status" {
		t.Errorf("field = %v, want status", domainErr.Details["field"])
	}
}

func TestGetTaskNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Service.GetTask(env.Ctx, "missing")
	if !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	_, err = env.Service.UpdateTaskProgress(env.Ctx, env.Admin, "missing", domain.TaskStatusPending, 0)
	if !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("expected NOT_FOUND on update, got %v", err)
	}
}

func TestListTasksFiltering(t *testing.T) {
	env := newTestEnv(t)
	env.createTask(t, "2")
	env.createTask(t, "3")
	env.createTask(t, "2")

	all, err := env.Service.ListTasks(env.Ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}

	assignee := "2"
	mine, err := env.Service.ListTasksWithFilter(env.Ctx, TaskListFilter{AssignedTo: &assignee})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("len = %d, want 2", len(mine))
	}
	for _, task := range mine {
		if task.AssignedTo != "2" {
			t.Errorf("task %s assigned to %q", task.ID, task.AssignedTo)
		}
	}
}

func TestEventsPublishedOnWrite(t *testing.T) {
	env := newTestEnv(t)

	dispatcher := events.NewInMemoryDispatcher()
	var seen []events.EventType
	record := func(_ context.Context, event events.Event) error {
		seen = append(seen, event.Type)
		return nil
	}
	dispatcher.Subscribe(events.EventTaskCreated, record)
	dispatcher.Subscribe(events.EventTaskStatusChanged, record)
	dispatcher.Subscribe(events.EventTaskProgressUpdated, record)

	svc := NewTaskService(TaskDependencies{
		TaskRepo:   env.TaskRepo,
		UserRepo:   &fakeUserRepo{users: []domain.User{*env.Admin, *env.Member}},
		Dispatcher: dispatcher,
	})

	task, err := svc.CreateTask(env.Ctx, env.Admin, domain.TaskDraft{
		Title:       "Write report",
		Description: "Quarterly numbers",
		AssignedTo:  "2",
		DueDate:     time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateTaskProgress(env.Ctx, env.Member, task.ID, domain.TaskStatusInProgress, 40); err != nil {
		t.Fatalf("update: %v", err)
	}

	want := []events.EventType{events.EventTaskCreated, events.EventTaskStatusChanged, events.EventTaskProgressUpdated}
	if fmt.Sprint(seen) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", seen, want)
	}
}
