package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"todoctl/internal/service"
)

var (
	// ErrEmptyTitle is returned when a task title is blank.
	ErrEmptyTitle = errors.New("title required")

	// ErrTaskNotFound is returned when an ID is not in the local list.
	ErrTaskNotFound = errors.New("task not found")
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDFunc replaces the UUID generator used for new tasks.
func WithIDFunc(fn func() string) StoreOption {
	return func(s *Store) {
		s.newID = fn
	}
}

// Store owns the in-memory task list. Mutations are applied locally first,
// sent to the backend, and then reconciled by reloading the whole list.
type Store struct {
	svc    service.Service
	logger *log.Logger
	newID  func() string

	mu    sync.RWMutex
	tasks []service.Task
}

// NewStore creates an empty Store backed by svc. Call Refresh to load it.
func NewStore(svc service.Service, logger *log.Logger, opts ...StoreOption) *Store {
	s := &Store{
		svc:    svc,
		logger: logger,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh replaces the local list with the backend's.
// On failure the local list is left unchanged.
func (s *Store) Refresh(ctx context.Context) error {
	list, err := s.svc.ListTasks(ctx)
	if err != nil {
		s.logger.Error("error fetching tasks", "err", err)
		return err
	}
	s.mu.Lock()
	s.tasks = list
	s.mu.Unlock()
	s.logger.Debug("tasks loaded", "count", len(list))
	return nil
}

// Tasks returns a copy of the full list.
func (s *Store) Tasks() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// View returns the tasks matching f.
func (s *Store) View(f Filter) []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Apply(f, s.tasks)
}

// Progress computes completion over the full list.
func (s *Store) Progress() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeProgress(s.tasks)
}

// Find returns the task with the given ID.
func (s *Store) Find(id string) (service.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return service.Task{}, false
	}
	return s.tasks[i], true
}

// Add creates a task with a fresh ID and returns it as sent.
func (s *Store) Add(ctx context.Context, title string) (service.Task, error) {
	if strings.TrimSpace(title) == "" {
		return service.Task{}, ErrEmptyTitle
	}
	task := service.Task{ID: s.newID(), Title: title}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	err := s.svc.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error("error uploading new task", "title", title, "err", err)
	}
	return task, s.reconcile(ctx, err)
}

// SetCompleted marks a task done or undone.
func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) error {
	return s.update(ctx, id, service.CompletedPatch(completed), "error updating task status")
}

// Toggle flips a task's completion flag.
func (s *Store) Toggle(ctx context.Context, id string) error {
	task, ok := s.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return s.SetCompleted(ctx, id, !task.Completed)
}

// Rename changes a task's title.
func (s *Store) Rename(ctx context.Context, id, title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return s.update(ctx, id, service.TitlePatch(title), "error updating task title")
}

// Delete removes a task.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.mu.Unlock()

	err := s.svc.DeleteTask(ctx, id)
	if err != nil {
		s.logger.Error("error deleting task", "id", id, "err", err)
	}
	return s.reconcile(ctx, err)
}

func (s *Store) update(ctx context.Context, id string, patch service.TaskPatch, failMsg string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	s.tasks[i] = patch.Apply(s.tasks[i])
	s.mu.Unlock()

	err := s.svc.UpdateTask(ctx, id, patch)
	if err != nil {
		s.logger.Error(failMsg, "id", id, "err", err)
	}
	return s.reconcile(ctx, err)
}

// reconcile reloads the list after a mutation. The mutation error, if any,
// takes precedence over a refetch error.
func (s *Store) reconcile(ctx context.Context, mutationErr error) error {
	refreshErr := s.Refresh(ctx)
	if mutationErr != nil {
		return mutationErr
	}
	return refreshErr
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
