package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/kvetrik/taskrecur/recurrence"
	"github.com/kvetrik/taskrecur/scheduler"
	"github.com/kvetrik/taskrecur/scheduler/memory"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	engine := recurrence.New()
	defer engine.Close()

	sched := scheduler.New(memory.New(), engine, logger)
	ctx := context.Background()

	// A report due every Monday, Wednesday and Friday at 9 AM.
	rule := recurrence.NewRule(recurrence.Weekly, 1)
	rule.DaysOfWeek = []int{2, 4, 6}
	rule.PreferredTime = &recurrence.TimeOfDay{Hour: 9}
	rule.TimeZone = "Europe/Berlin"
	rule.RepeatMode = recurrence.RepeatFromAnchor

	due := time.Now().Add(24 * time.Hour)
	task := &scheduler.Task{
		Title:      "Write status report",
		Tags:       []string{"work"},
		DueDate:    &due,
		Recurrence: &rule,
	}
	if err := sched.AddTask(ctx, task); err != nil {
		log.Fatalf("add task: %v", err)
	}

	fmt.Printf("Schedule: %s\n", rule.DisplayDescription())

	upcoming, err := sched.UpcomingTask(ctx, task.ID, 5)
	if err != nil {
		log.Fatalf("upcoming: %v", err)
	}
	fmt.Println("Next occurrences:")
	for _, occ := range upcoming {
		fmt.Printf("  %s\n", occ.Format("Mon 2006-01-02 15:04 MST"))
	}

	_, next, err := sched.CompleteTask(ctx, task.ID, time.Now())
	if err != nil {
		log.Fatalf("complete: %v", err)
	}
	if next != nil {
		fmt.Printf("Completed; follow-up due %s\n", next.DueDate.Format(time.RFC1123))
	}

	tasks := []*scheduler.Task{task}
	if next != nil {
		tasks = append(tasks, next)
	}
	ics, err := scheduler.ExportICS(tasks)
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	fmt.Println(ics)
}
