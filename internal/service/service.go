// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the backend has no task with the given ID.
	ErrNotFound = errors.New("not found")

	// ErrAuth marks missing, invalid or rejected credentials.
	ErrAuth = errors.New("auth error")
)

// Service is the remote task collection.
// Every mutation goes through this interface; commands and views never talk
// HTTP or the Google SDK directly.
type Service interface {
	// ListTasks returns the whole collection in backend order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask stores a new task. Backends that assign their own IDs
	// may ignore task.ID.
	CreateTask(ctx context.Context, task Task) error

	// UpdateTask changes the patched fields of the task with the given ID.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) error

	// DeleteTask removes the task with the given ID.
	DeleteTask(ctx context.Context, id string) error
}
