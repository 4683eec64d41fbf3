package scheduler

import (
	"context"

	"github.com/google/uuid"
)

// Storage is the interface that must be implemented by persistence backends.
// Please use the error types provided.
type Storage interface {
	// Task operations
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	PutTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// Habit operations
	GetHabit(ctx context.Context, id uuid.UUID) (*Habit, error)
	ListHabits(ctx context.Context) ([]*Habit, error)
	PutHabit(ctx context.Context, habit *Habit) error
	DeleteHabit(ctx context.Context, id uuid.UUID) error
}
