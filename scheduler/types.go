package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kvetrik/taskrecur/recurrence"
)

// Error types
type ErrorType string

const (
	ErrNotFound      ErrorType = "not_found"
	ErrAlreadyExists ErrorType = "already_exists"
	ErrInvalidInput  ErrorType = "invalid_input"
)

// Error represents a storage-related error
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Task is a schedulable to-do item. When a recurring task is completed a
// fresh instance is spawned with a new identity and the carried-over
// descriptive fields.
type Task struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Notes    string    `json:"notes,omitempty"`
	Priority int       `json:"priority,omitempty"`
	Tags     []string  `json:"tags,omitempty"`

	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Recurrence is stored verbatim alongside the task; editing replaces
	// the whole value.
	Recurrence *recurrence.Rule `json:"recurrence,omitempty"`

	// Spawned counts instances generated from the original schedule, across
	// the whole respawn chain. It enforces the rule's MaxOccurrences budget
	// permanently: a later completion never resets it.
	Spawned int `json:"spawned,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Habit is a recurring practice tracked by check-ins rather than respawned
// instances. Streaks are derived from the check-in log and the rule's
// scheduled occurrences.
type Habit struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Notes string    `json:"notes,omitempty"`
	Tags  []string  `json:"tags,omitempty"`

	Recurrence *recurrence.Rule `json:"recurrence,omitempty"`

	// AnchorDate is the fixed reference the schedule is computed from.
	AnchorDate time.Time `json:"anchor_date"`

	// Completions holds check-in timestamps in ascending order, at most one
	// per civil day.
	Completions []time.Time `json:"completions,omitempty"`

	Streak        int `json:"streak"`
	LongestStreak int `json:"longest_streak"`

	CreatedAt time.Time `json:"created_at"`
}
