package recurrence

import (
	"encoding/json"
	"time"
)

// Frequency is the base unit of repetition for a rule.
type Frequency string

const (
	Minutely Frequency = "minutely"
	Hourly   Frequency = "hourly"
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Monthly  Frequency = "monthly"
	Yearly   Frequency = "yearly"
	// Custom repeats in plain day intervals not tied to a calendar unit.
	Custom Frequency = "custom"
)

// RepeatMode selects the anchor the next occurrence is computed from.
type RepeatMode string

const (
	// RepeatFromAnchor computes the next occurrence from the original
	// schedule date regardless of when the item was completed.
	RepeatFromAnchor RepeatMode = "fixed_anchor"
	// RepeatFromCompletion computes the next occurrence from the most
	// recent completion timestamp.
	RepeatFromCompletion RepeatMode = "completion_date"
)

// TimeOfDay is a wall-clock time applied to computed occurrences.
// It is preserved across DST transitions: "9 AM" stays 9 AM on the wall
// clock even when the zone's UTC offset changes.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Rule describes a repeating schedule. A single value type covers every
// frequency; fields that only apply to one frequency (DaysOfWeek, DayOfMonth)
// are ignored for the others. Two rules with equal fields are operationally
// interchangeable.
//
// Rules are persisted as JSON and must round-trip unchanged; see
// UnmarshalJSON for the decode-time invariants.
type Rule struct {
	Frequency Frequency `json:"frequency"`

	// Interval is the number of frequency units between occurrences.
	// Always at least 1 after construction or decoding.
	Interval int `json:"interval"`

	// DaysOfWeek lists qualifying weekdays for weekly rules, 1=Sunday
	// through 7=Saturday. Empty means plain interval-week stepping.
	DaysOfWeek []int `json:"days_of_week,omitempty"`

	// DayOfMonth is the target day for monthly rules, clamped to the last
	// day of shorter months. Zero means unset (the reference day is used).
	DayOfMonth int `json:"day_of_month,omitempty"`

	// PreferredTime overrides the time-of-day of computed occurrences.
	PreferredTime *TimeOfDay `json:"preferred_time,omitempty"`

	// TimeZone is an IANA zone identifier. Empty or unparseable
	// identifiers fall back to the system zone at read time.
	TimeZone string `json:"time_zone,omitempty"`

	// EndDate stops occurrence generation: no occurrence after this instant.
	EndDate *time.Time `json:"end_date,omitempty"`

	// MaxOccurrences caps the total number of occurrences ever generated
	// from the rule's original anchor. Zero means unlimited.
	MaxOccurrences int `json:"max_occurrences,omitempty"`

	RepeatMode RepeatMode `json:"repeat_mode,omitempty"`
}

// NewRule creates a rule with the given frequency and interval. A
// non-positive interval is silently coerced to 1.
func NewRule(frequency Frequency, interval int) Rule {
	if interval < 1 {
		interval = 1
	}
	return Rule{
		Frequency:  frequency,
		Interval:   interval,
		RepeatMode: RepeatFromAnchor,
	}
}

// UnmarshalJSON decodes a persisted rule, re-applying the construction
// invariants so that corrupted or hand-edited records degrade instead of
// breaking scheduling.
func (r *Rule) UnmarshalJSON(data []byte) error {
	type plain Rule
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Interval < 1 {
		p.Interval = 1
	}
	*r = Rule(p)
	return nil
}

// Location resolves the rule's timezone. Unknown identifiers silently fall
// back to the system zone so a stale persisted rule keeps scheduling on a
// best-effort basis.
func (r Rule) Location() *time.Location {
	if r.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(r.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsValid reports whether the rule's fields are operationally meaningful for
// its frequency. It is advisory: the engine still computes something for an
// invalid rule, but callers are expected to check validity before storing
// one.
func (r Rule) IsValid() bool {
	if r.Interval < 1 {
		return false
	}
	switch r.Frequency {
	case Weekly:
		for _, d := range r.DaysOfWeek {
			if d < 1 || d > 7 {
				return false
			}
		}
		return true
	case Monthly:
		return r.DayOfMonth >= 1 && r.DayOfMonth <= 31
	case Hourly:
		return r.Interval <= 24
	case Minutely:
		return r.Interval <= 1440
	case Daily, Yearly, Custom:
		return true
	default:
		return false
	}
}
