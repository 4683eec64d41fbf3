// memory based implementation for testing purposes
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kvetrik/taskrecur/recurrence"
	"github.com/kvetrik/taskrecur/scheduler"
)

// Store implements scheduler.Storage using in-memory maps
type Store struct {
	mu     sync.RWMutex
	tasks  map[uuid.UUID]*scheduler.Task
	habits map[uuid.UUID]*scheduler.Habit
}

// New creates a new in-memory storage
func New() *Store {
	return &Store{
		tasks:  make(map[uuid.UUID]*scheduler.Task),
		habits: make(map[uuid.UUID]*scheduler.Habit),
	}
}

// Task operations

func (s *Store) GetTask(_ context.Context, id uuid.UUID) (*scheduler.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, &scheduler.Error{
			Type:    scheduler.ErrNotFound,
			Message: "task not found",
		}
	}
	return cloneTask(task), nil
}

func (s *Store) ListTasks(_ context.Context) ([]*scheduler.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*scheduler.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, cloneTask(task))
	}
	return tasks, nil
}

func (s *Store) PutTask(_ context.Context, task *scheduler.Task) error {
	if task == nil || task.ID == uuid.Nil {
		return &scheduler.Error{
			Type:    scheduler.ErrInvalidInput,
			Message: "task must have an id",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = cloneTask(task)
	return nil
}

func (s *Store) DeleteTask(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return &scheduler.Error{
			Type:    scheduler.ErrNotFound,
			Message: "task not found",
		}
	}
	delete(s.tasks, id)
	return nil
}

// Habit operations

func (s *Store) GetHabit(_ context.Context, id uuid.UUID) (*scheduler.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	habit, ok := s.habits[id]
	if !ok {
		return nil, &scheduler.Error{
			Type:    scheduler.ErrNotFound,
			Message: "habit not found",
		}
	}
	return cloneHabit(habit), nil
}

func (s *Store) ListHabits(_ context.Context) ([]*scheduler.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	habits := make([]*scheduler.Habit, 0, len(s.habits))
	for _, habit := range s.habits {
		habits = append(habits, cloneHabit(habit))
	}
	return habits, nil
}

func (s *Store) PutHabit(_ context.Context, habit *scheduler.Habit) error {
	if habit == nil || habit.ID == uuid.Nil {
		return &scheduler.Error{
			Type:    scheduler.ErrInvalidInput,
			Message: "habit must have an id",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.habits[habit.ID] = cloneHabit(habit)
	return nil
}

func (s *Store) DeleteHabit(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.habits[id]; !ok {
		return &scheduler.Error{
			Type:    scheduler.ErrNotFound,
			Message: "habit not found",
		}
	}
	delete(s.habits, id)
	return nil
}

// Records are cloned on the way in and out so callers never share slices
// or pointers with the stored copy.

func cloneTask(task *scheduler.Task) *scheduler.Task {
	copied := *task
	copied.Tags = append([]string(nil), task.Tags...)
	copied.DueDate = cloneTime(task.DueDate)
	copied.CompletedAt = cloneTime(task.CompletedAt)
	copied.Recurrence = cloneRule(task.Recurrence)
	return &copied
}

func cloneHabit(habit *scheduler.Habit) *scheduler.Habit {
	copied := *habit
	copied.Tags = append([]string(nil), habit.Tags...)
	copied.Completions = append([]time.Time(nil), habit.Completions...)
	copied.Recurrence = cloneRule(habit.Recurrence)
	return &copied
}

func cloneRule(rule *recurrence.Rule) *recurrence.Rule {
	if rule == nil {
		return nil
	}
	copied := *rule
	copied.DaysOfWeek = append([]int(nil), rule.DaysOfWeek...)
	copied.EndDate = cloneTime(rule.EndDate)
	if rule.PreferredTime != nil {
		pt := *rule.PreferredTime
		copied.PreferredTime = &pt
	}
	return &copied
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
