package scheduler

import (
	"time"

	"github.com/kvetrik/taskrecur/recurrence"
)

// streakScanLimit bounds how many scheduled occurrences the streak walk
// considers. A thousand covers just under three years of a daily habit.
const streakScanLimit = 1000

// Streaks summarizes a habit's run of completed scheduled occurrences.
type Streaks struct {
	// Current is the unbroken run ending at the most recent scheduled
	// occurrence. A still-pending occurrence today does not break it.
	Current int
	// Longest is the best run over the whole history.
	Longest int
}

// ComputeStreaks derives streaks from a habit's check-in log. Only scheduled
// occurrences count: a weekly Mon/Wed/Fri habit is not broken by an
// uncompleted Tuesday. A nil rule means the habit is due every day.
func ComputeStreaks(engine *recurrence.Engine, rule *recurrence.Rule, anchor time.Time, completions []time.Time, now time.Time) Streaks {
	if now.Before(anchor) {
		return Streaks{}
	}

	loc := time.Local
	if rule != nil {
		loc = rule.Location()
	}

	scheduled := scheduledDays(engine, rule, anchor, now, loc)
	if len(scheduled) == 0 {
		return Streaks{}
	}

	completed := make(map[int]bool, len(completions))
	for _, c := range completions {
		completed[civilKey(c.In(loc))] = true
	}

	var streaks Streaks
	run := 0
	for _, day := range scheduled {
		if completed[day] {
			run++
			if run > streaks.Longest {
				streaks.Longest = run
			}
		} else {
			run = 0
		}
	}

	// Walk back from the most recent scheduled day; today's occurrence may
	// still be pending.
	last := len(scheduled) - 1
	if scheduled[last] == civilKey(now.In(loc)) && !completed[scheduled[last]] {
		last--
	}
	for i := last; i >= 0 && completed[scheduled[i]]; i-- {
		streaks.Current++
	}
	return streaks
}

// scheduledDays lists the habit's scheduled civil days from anchor through
// now, the anchor day included.
func scheduledDays(engine *recurrence.Engine, rule *recurrence.Rule, anchor, now time.Time, loc *time.Location) []int {
	days := []int{civilKey(anchor.In(loc))}

	if rule == nil {
		for d := anchor.In(loc).AddDate(0, 0, 1); !d.After(now.In(loc)) && len(days) < streakScanLimit; d = d.AddDate(0, 0, 1) {
			days = append(days, civilKey(d))
		}
		return days
	}

	for _, occ := range engine.Occurrences(*rule, anchor, streakScanLimit) {
		if occ.After(now) {
			break
		}
		key := civilKey(occ.In(loc))
		if key != days[len(days)-1] {
			days = append(days, key)
		}
	}
	return days
}

// civilKey packs a civil date into a comparable int (yyyymmdd).
func civilKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
