// Package scheduler is the consuming side of the recurrence engine: it owns
// task and habit records, respawns recurring tasks on completion, and keeps
// habit streaks up to date. Persistence goes through the Storage interface;
// the package never touches the engine's internals.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kvetrik/taskrecur/recurrence"
)

// Scheduler coordinates storage and the recurrence engine.
type Scheduler struct {
	storage Storage
	engine  *recurrence.Engine
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a scheduler. A nil logger falls back to slog.Default().
func New(storage Storage, engine *recurrence.Engine, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		storage: storage,
		engine:  engine,
		logger:  logger,
		now:     time.Now,
	}
}

// AddTask stores a new task, assigning identity and creation time when
// unset. A task carrying an invalid recurrence rule is rejected; validity
// must be surfaced to the user before a rule is accepted into storage.
func (s *Scheduler) AddTask(ctx context.Context, task *Task) error {
	if task.Title == "" {
		return &Error{Type: ErrInvalidInput, Message: "task title is required"}
	}
	if task.Recurrence != nil && !task.Recurrence.IsValid() {
		return &Error{Type: ErrInvalidInput, Message: "recurrence rule is not valid"}
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = s.now()
	}
	if err := s.storage.PutTask(ctx, task); err != nil {
		return fmt.Errorf("failed to store task: %w", err)
	}
	s.logger.Info("task added", "task", task.ID, "title", task.Title)
	return nil
}

// CompleteTask marks the task completed and, for recurring tasks, spawns the
// follow-up instance due at the next occurrence. The anchor depends on the
// rule's repeat mode: the prior due date for fixed-anchor rules, the
// completion timestamp otherwise. Returns the completed task and the spawned
// one (nil when the chain ends).
//
// A rule's MaxOccurrences budget is permanent: once the respawn chain has
// produced that many instances no further ones are created, even if the
// last instance is completed much later.
func (s *Scheduler) CompleteTask(ctx context.Context, id uuid.UUID, completedAt time.Time) (*Task, *Task, error) {
	task, err := s.storage.GetTask(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load task: %w", err)
	}
	if task.Completed {
		return task, nil, nil
	}

	task.Completed = true
	done := completedAt
	task.CompletedAt = &done
	if err := s.storage.PutTask(ctx, task); err != nil {
		return nil, nil, fmt.Errorf("failed to store completed task: %w", err)
	}

	rule := task.Recurrence
	if rule == nil {
		return task, nil, nil
	}
	if rule.MaxOccurrences > 0 && task.Spawned >= rule.MaxOccurrences {
		s.logger.Info("recurrence budget exhausted", "task", task.ID, "spawned", task.Spawned)
		return task, nil, nil
	}

	anchor := completedAt
	if rule.RepeatMode == recurrence.RepeatFromAnchor && task.DueDate != nil {
		anchor = *task.DueDate
	}

	nextDue, ok := s.engine.NextOccurrence(*rule, anchor).Get()
	if !ok {
		s.logger.Warn("recurrence rule produced no next occurrence", "task", task.ID)
		return task, nil, nil
	}
	if rule.EndDate != nil && nextDue.After(*rule.EndDate) {
		s.logger.Info("recurrence reached end date", "task", task.ID, "end", *rule.EndDate)
		return task, nil, nil
	}

	next := &Task{
		ID:         uuid.New(),
		Title:      task.Title,
		Notes:      task.Notes,
		Priority:   task.Priority,
		Tags:       append([]string(nil), task.Tags...),
		DueDate:    &nextDue,
		Recurrence: rule,
		Spawned:    task.Spawned + 1,
		CreatedAt:  s.now(),
	}
	if err := s.storage.PutTask(ctx, next); err != nil {
		return nil, nil, fmt.Errorf("failed to store spawned task: %w", err)
	}
	s.logger.Info("recurring task spawned", "task", task.ID, "next", next.ID, "due", nextDue)
	return task, next, nil
}

// UpcomingTask previews the next occurrences of a recurring task, bounded by
// limit and by whatever remains of the rule's MaxOccurrences budget after
// the instances already spawned.
func (s *Scheduler) UpcomingTask(ctx context.Context, id uuid.UUID, limit int) ([]time.Time, error) {
	task, err := s.storage.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	rule := task.Recurrence
	if rule == nil {
		return nil, nil
	}
	if rule.MaxOccurrences > 0 {
		remaining := rule.MaxOccurrences - task.Spawned
		if remaining <= 0 {
			return nil, nil
		}
		if limit > remaining {
			limit = remaining
		}
	}

	from := s.now()
	if task.DueDate != nil {
		from = *task.DueDate
	}
	return s.engine.Occurrences(*rule, from, limit), nil
}

// AddHabit stores a new habit, assigning identity, creation time and anchor
// date when unset. Invalid rules are rejected as in AddTask.
func (s *Scheduler) AddHabit(ctx context.Context, habit *Habit) error {
	if habit.Name == "" {
		return &Error{Type: ErrInvalidInput, Message: "habit name is required"}
	}
	if habit.Recurrence != nil && !habit.Recurrence.IsValid() {
		return &Error{Type: ErrInvalidInput, Message: "recurrence rule is not valid"}
	}
	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = s.now()
	}
	if habit.AnchorDate.IsZero() {
		habit.AnchorDate = habit.CreatedAt
	}
	if err := s.storage.PutHabit(ctx, habit); err != nil {
		return fmt.Errorf("failed to store habit: %w", err)
	}
	s.logger.Info("habit added", "habit", habit.ID, "name", habit.Name)
	return nil
}

// CheckInHabit logs a completion for the habit and recomputes its streaks.
// Check-ins are idempotent per civil day: a second check-in on the same day
// is a no-op.
func (s *Scheduler) CheckInHabit(ctx context.Context, id uuid.UUID, at time.Time) (*Habit, error) {
	habit, err := s.storage.GetHabit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load habit: %w", err)
	}

	loc := time.Local
	if habit.Recurrence != nil {
		loc = habit.Recurrence.Location()
	}
	for _, done := range habit.Completions {
		if sameCivilDay(done, at, loc) {
			return habit, nil
		}
	}

	habit.Completions = insertSorted(habit.Completions, at)
	streaks := ComputeStreaks(s.engine, habit.Recurrence, habit.AnchorDate, habit.Completions, s.now())
	habit.Streak = streaks.Current
	habit.LongestStreak = streaks.Longest

	if err := s.storage.PutHabit(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to store habit check-in: %w", err)
	}
	s.logger.Info("habit checked in", "habit", habit.ID, "streak", habit.Streak)
	return habit, nil
}

// UpcomingHabit previews the habit's next scheduled occurrences.
func (s *Scheduler) UpcomingHabit(ctx context.Context, id uuid.UUID, limit int) ([]time.Time, error) {
	habit, err := s.storage.GetHabit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load habit: %w", err)
	}
	if habit.Recurrence == nil {
		return nil, nil
	}
	return s.engine.Occurrences(*habit.Recurrence, s.now(), limit), nil
}

func sameCivilDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func insertSorted(times []time.Time, t time.Time) []time.Time {
	i := len(times)
	for i > 0 && times[i-1].After(t) {
		i--
	}
	times = append(times, time.Time{})
	copy(times[i+1:], times[i:])
	times[i] = t
	return times
}
