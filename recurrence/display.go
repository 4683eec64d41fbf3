package recurrence

import (
	"fmt"
	"strings"
)

var shortDayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DisplayDescription renders the rule as a human-readable phrase, e.g.
// "Every 3 days", "Weekly on Mon, Wed" or "Monthly on day 15". Rules that
// repeat from the completion date carry an "after completion" suffix.
func (r Rule) DisplayDescription() string {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	var desc string
	switch r.Frequency {
	case Minutely:
		desc = every(interval, "minute")
	case Hourly:
		desc = every(interval, "hour")
	case Daily:
		if interval == 1 {
			desc = "Daily"
		} else {
			desc = every(interval, "day")
		}
	case Weekly:
		if interval == 1 {
			desc = "Weekly"
		} else {
			desc = every(interval, "week")
		}
		if names := dayNames(r.DaysOfWeek); names != "" {
			desc += " on " + names
		}
	case Monthly:
		if interval == 1 {
			desc = "Monthly"
		} else {
			desc = every(interval, "month")
		}
		if r.DayOfMonth >= 1 && r.DayOfMonth <= 31 {
			desc += fmt.Sprintf(" on day %d", r.DayOfMonth)
		}
	case Yearly:
		if interval == 1 {
			desc = "Yearly"
		} else {
			desc = every(interval, "year")
		}
	case Custom:
		desc = every(interval, "day")
	default:
		desc = "Does not repeat"
	}

	if r.RepeatMode == RepeatFromCompletion {
		desc += " after completion"
	}
	return desc
}

func every(interval int, unit string) string {
	if interval == 1 {
		return "Every " + unit
	}
	return fmt.Sprintf("Every %d %ss", interval, unit)
}

func dayNames(daysOfWeek []int) string {
	var names []string
	for day := 1; day <= 7; day++ {
		for _, d := range daysOfWeek {
			if d == day {
				names = append(names, shortDayNames[day-1])
				break
			}
		}
	}
	return strings.Join(names, ", ")
}
