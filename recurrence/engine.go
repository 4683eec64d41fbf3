package recurrence

import (
	"time"

	"github.com/samber/mo"
)

// Engine computes occurrences of a Rule. All operations are pure functions of
// rule and reference time; the engine holds no state beyond an optional
// result cache, so a single instance is safe for concurrent use.
type Engine struct {
	cache  *Cache
	config EngineConfig
}

// New creates an engine with the default configuration.
func New() *Engine {
	return NewWithConfig(DefaultEngineConfig)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(config EngineConfig) *Engine {
	var cache *Cache
	if config.CacheEnabled {
		cache = NewCache(config.CacheConfig)
	}
	return &Engine{cache: cache, config: config}
}

// Close stops the cache's background cleanup, if caching is enabled.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// NextOccurrence computes the single next occurrence of rule strictly after
// the given reference time, in the rule's timezone. It returns None only for
// structurally degenerate rules (an unrecognized frequency); every other
// degenerate input degrades gracefully instead.
func (e *Engine) NextOccurrence(rule Rule, after time.Time) mo.Option[time.Time] {
	next, ok := step(rule, after.In(rule.Location()))
	if !ok {
		return mo.None[time.Time]()
	}
	return mo.Some(next)
}

// Occurrences computes up to limit successive occurrences starting strictly
// after from. Each occurrence feeds the next computation, so the result is
// strictly increasing with no duplicates. Generation stops early when the
// next date would pass rule.EndDate, or when rule.MaxOccurrences caps the
// count. The MaxOccurrences budget is tied to the rule's conceptual start:
// callers resuming from a later reference must deduct occurrences already
// produced (see the scheduler package).
func (e *Engine) Occurrences(rule Rule, from time.Time, limit int) []time.Time {
	if limit <= 0 {
		return nil
	}
	if rule.MaxOccurrences > 0 && limit > rule.MaxOccurrences {
		limit = rule.MaxOccurrences
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(rule, from, limit); ok {
			return cached
		}
	}

	out := make([]time.Time, 0, limit)
	ref := from.In(rule.Location())
	for len(out) < limit {
		next, ok := step(rule, ref)
		if !ok {
			break
		}
		if rule.EndDate != nil && next.After(*rule.EndDate) {
			break
		}
		out = append(out, next)
		ref = next
	}

	if e.cache != nil {
		e.cache.Set(rule, from, limit, out)
	}
	return out
}

// Matches reports whether date is a valid occurrence of the pattern anchored
// at relativeTo. The check is closed-form arithmetic on calendar-component
// distances, not a forward scan, so it stays O(1) for dates far in the
// future.
func (e *Engine) Matches(rule Rule, date, relativeTo time.Time) bool {
	if !date.After(relativeTo) {
		return false
	}
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}
	loc := rule.Location()
	d := date.In(loc)
	rel := relativeTo.In(loc)

	switch rule.Frequency {
	case Minutely:
		diff := date.Sub(relativeTo)
		if diff%time.Minute != 0 {
			return false
		}
		mins := int(diff / time.Minute)
		return mins > 0 && mins%interval == 0
	case Hourly:
		diff := date.Sub(relativeTo)
		if diff%time.Hour != 0 {
			return false
		}
		hours := int(diff / time.Hour)
		return hours > 0 && hours%interval == 0
	case Daily, Custom:
		days := civilDay(d) - civilDay(rel)
		return days > 0 && days%interval == 0
	case Weekly:
		weeks := (civilDay(weekStart(d)) - civilDay(weekStart(rel))) / 7
		days := weekdaySet(rule.DaysOfWeek)
		if len(days) == 0 {
			return d.Weekday() == rel.Weekday() && weeks > 0 && weeks%interval == 0
		}
		return days[d.Weekday()] && weeks%interval == 0
	case Monthly:
		target := rule.DayOfMonth
		if target < 1 || target > 31 {
			target = rel.Day()
		}
		if last := daysIn(d.Year(), d.Month()); target > last {
			target = last
		}
		months := (d.Year()-rel.Year())*12 + int(d.Month()) - int(rel.Month())
		return d.Day() == target && months > 0 && months%interval == 0
	case Yearly:
		if d.Month() != rel.Month() {
			return false
		}
		day := rel.Day()
		if day == daysIn(rel.Year(), rel.Month()) {
			// Month-end anchors track month-end: Feb 29 collapses to
			// Feb 28 in common years and comes back in leap years.
			day = daysIn(d.Year(), d.Month())
		} else if last := daysIn(d.Year(), d.Month()); day > last {
			day = last
		}
		years := d.Year() - rel.Year()
		return d.Day() == day && years > 0 && years%interval == 0
	default:
		return false
	}
}

// step advances one occurrence from ref, which must already be in the rule's
// location.
func step(rule Rule, ref time.Time) (time.Time, bool) {
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	var next time.Time
	switch rule.Frequency {
	case Minutely:
		next = ref.Add(time.Duration(interval) * time.Minute)
	case Hourly:
		next = ref.Add(time.Duration(interval) * time.Hour)
	case Daily, Custom:
		next = ref.AddDate(0, 0, interval)
	case Weekly:
		next = nextWeekly(rule, ref, interval)
	case Monthly:
		next = nextMonthly(rule, ref, interval)
	case Yearly:
		next = nextYearly(ref, interval)
	default:
		return time.Time{}, false
	}

	next = applyPreferredTime(rule, next)
	// A preferred time earlier in the day than a sub-daily step can land the
	// result at or before the reference; advance day-wise until strictly
	// after.
	for !next.After(ref) {
		next = applyPreferredTime(rule, next.AddDate(0, 0, 1))
	}
	return next, true
}

// nextWeekly finds the next qualifying weekday. Remaining days of the
// reference week qualify as-is; once the week is exhausted the search jumps
// to the week interval weeks later, keeping interval-block alignment (an
// every-2-weeks Monday rule stepped from a Monday lands 14 days out, not 7).
func nextWeekly(rule Rule, ref time.Time, interval int) time.Time {
	days := weekdaySet(rule.DaysOfWeek)
	if len(days) == 0 {
		return ref.AddDate(0, 0, 7*interval)
	}
	for d := ref.AddDate(0, 0, 1); sameWeek(d, ref); d = d.AddDate(0, 0, 1) {
		if days[d.Weekday()] {
			return d
		}
	}
	for d := weekStart(ref).AddDate(0, 0, 7*interval); ; d = d.AddDate(0, 0, 1) {
		if days[d.Weekday()] {
			return d
		}
	}
}

// nextMonthly adds interval months by components. Going through time.Date's
// month normalization rather than AddDate keeps a Jan 31 reference from
// spilling into March when February has no day 31.
func nextMonthly(rule Rule, ref time.Time, interval int) time.Time {
	first := time.Date(ref.Year(), ref.Month()+time.Month(interval), 1,
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
	day := rule.DayOfMonth
	if day < 1 || day > 31 {
		day = ref.Day()
	}
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}

// nextYearly adds interval years, collapsing Feb 29 to Feb 28 when the
// target year is not a leap year. A month-end reference stays month-end,
// so a Feb 29 anchor collapsed to Feb 28 in a common year recovers Feb 29
// once the chain reaches a leap year again.
func nextYearly(ref time.Time, interval int) time.Time {
	year := ref.Year() + interval
	day := ref.Day()
	if day == daysIn(ref.Year(), ref.Month()) {
		day = daysIn(year, ref.Month())
	} else if last := daysIn(year, ref.Month()); day > last {
		day = last
	}
	return time.Date(year, ref.Month(), day,
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}

// applyPreferredTime overrides the time-of-day in the rule's location.
// Rebuilding through time.Date keeps the wall clock stable across DST
// transitions.
func applyPreferredTime(rule Rule, t time.Time) time.Time {
	pt := rule.PreferredTime
	if pt == nil {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), pt.Hour, pt.Minute, 0, 0, t.Location())
}

// weekdaySet filters DaysOfWeek down to in-range values keyed by
// time.Weekday. Out-of-range entries are dropped so a partially corrupted
// rule still schedules on its remaining valid days.
func weekdaySet(daysOfWeek []int) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(daysOfWeek))
	for _, d := range daysOfWeek {
		if d >= 1 && d <= 7 {
			set[time.Weekday(d-1)] = true
		}
	}
	return set
}

// weekStart returns the Sunday opening t's week, same time-of-day.
func weekStart(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

func sameWeek(a, b time.Time) bool {
	ay, am, ad := weekStart(a).Date()
	by, bm, bd := weekStart(b).Date()
	return ay == by && am == bm && ad == bd
}

// civilDay numbers the civil date of t, ignoring time-of-day and zone
// offset, so day distances stay exact across DST transitions.
func civilDay(t time.Time) int {
	return int(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
