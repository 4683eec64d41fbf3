package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvetrik/taskrecur/recurrence"
	"github.com/kvetrik/taskrecur/scheduler"
)

func TestStore_TaskCRUD(t *testing.T) {
	store := New()
	ctx := context.Background()

	rule := recurrence.NewRule(recurrence.Daily, 2)
	task := &scheduler.Task{
		ID:         uuid.New(),
		Title:      "Feed the cat",
		Tags:       []string{"home"},
		Recurrence: &rule,
		CreatedAt:  time.Now(),
	}

	require.NoError(t, store.PutTask(ctx, task))

	got, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	require.NotNil(t, got.Recurrence)
	assert.Equal(t, recurrence.Daily, got.Recurrence.Frequency)

	// Mutating the returned copy must not touch the stored record.
	got.Title = "changed"
	again, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Feed the cat", again.Title)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	require.NoError(t, store.DeleteTask(ctx, task.ID))
	_, err = store.GetTask(ctx, task.ID)
	assertNotFound(t, err)
}

func TestStore_CopiesDoNotAliasCaller(t *testing.T) {
	store := New()
	ctx := context.Background()

	rule := recurrence.NewRule(recurrence.Weekly, 1)
	rule.DaysOfWeek = []int{2, 4}
	task := &scheduler.Task{
		ID:         uuid.New(),
		Title:      "Take out trash",
		Tags:       []string{"home"},
		Recurrence: &rule,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, store.PutTask(ctx, task))

	// Mutating the caller's slices and rule after Put must not leak into
	// the stored record.
	task.Tags[0] = "mutated"
	task.Recurrence.DaysOfWeek[0] = 7
	task.Recurrence.Interval = 9

	got, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, got.Tags)
	assert.Equal(t, []int{2, 4}, got.Recurrence.DaysOfWeek)
	assert.Equal(t, 1, got.Recurrence.Interval)

	// Same through the returned copy.
	got.Tags[0] = "mutated"
	got.Recurrence.DaysOfWeek[0] = 7
	again, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, again.Tags)
	assert.Equal(t, []int{2, 4}, again.Recurrence.DaysOfWeek)

	habitRule := recurrence.NewRule(recurrence.Daily, 1)
	habit := &scheduler.Habit{
		ID:          uuid.New(),
		Name:        "Stretch",
		Recurrence:  &habitRule,
		AnchorDate:  time.Now(),
		Completions: []time.Time{time.Now()},
		CreatedAt:   time.Now(),
	}
	require.NoError(t, store.PutHabit(ctx, habit))

	habit.Completions[0] = habit.Completions[0].Add(48 * time.Hour)
	habit.Completions = append(habit.Completions, time.Now())

	gotHabit, err := store.GetHabit(ctx, habit.ID)
	require.NoError(t, err)
	assert.Len(t, gotHabit.Completions, 1)
	assert.True(t, gotHabit.Completions[0].Before(habit.Completions[0]))
}

func TestStore_TaskErrors(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.GetTask(ctx, uuid.New())
	assertNotFound(t, err)

	err = store.DeleteTask(ctx, uuid.New())
	assertNotFound(t, err)

	err = store.PutTask(ctx, &scheduler.Task{})
	var schedErr *scheduler.Error
	require.True(t, errors.As(err, &schedErr))
	assert.Equal(t, scheduler.ErrInvalidInput, schedErr.Type)
}

func TestStore_HabitCRUD(t *testing.T) {
	store := New()
	ctx := context.Background()

	habit := &scheduler.Habit{
		ID:         uuid.New(),
		Name:       "Meditate",
		AnchorDate: time.Now(),
		CreatedAt:  time.Now(),
	}

	require.NoError(t, store.PutHabit(ctx, habit))

	got, err := store.GetHabit(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meditate", got.Name)

	habits, err := store.ListHabits(ctx)
	require.NoError(t, err)
	assert.Len(t, habits, 1)

	require.NoError(t, store.DeleteHabit(ctx, habit.ID))
	_, err = store.GetHabit(ctx, habit.ID)
	assertNotFound(t, err)
}

func TestStore_PutOverwrites(t *testing.T) {
	store := New()
	ctx := context.Background()

	task := &scheduler.Task{ID: uuid.New(), Title: "v1", CreatedAt: time.Now()}
	require.NoError(t, store.PutTask(ctx, task))

	task.Title = "v2"
	require.NoError(t, store.PutTask(ctx, task))

	got, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var schedErr *scheduler.Error
	require.True(t, errors.As(err, &schedErr))
	assert.Equal(t, scheduler.ErrNotFound, schedErr.Type)
}
