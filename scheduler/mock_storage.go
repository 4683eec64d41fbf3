package scheduler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStorage implements the Storage interface for testing
type MockStorage struct {
	mock.Mock
}

// GetTask implements the Storage interface
func (m *MockStorage) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Task), args.Error(1)
}

// ListTasks implements the Storage interface
func (m *MockStorage) ListTasks(ctx context.Context) ([]*Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Task), args.Error(1)
}

// PutTask implements the Storage interface
func (m *MockStorage) PutTask(ctx context.Context, task *Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// DeleteTask implements the Storage interface
func (m *MockStorage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// GetHabit implements the Storage interface
func (m *MockStorage) GetHabit(ctx context.Context, id uuid.UUID) (*Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Habit), args.Error(1)
}

// ListHabits implements the Storage interface
func (m *MockStorage) ListHabits(ctx context.Context) ([]*Habit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Habit), args.Error(1)
}

// PutHabit implements the Storage interface
func (m *MockStorage) PutHabit(ctx context.Context, habit *Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

// DeleteHabit implements the Storage interface
func (m *MockStorage) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
