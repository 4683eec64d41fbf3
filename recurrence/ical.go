package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// rruleWeekdays maps our 1=Sunday..7=Saturday encoding onto RFC 5545
// weekdays.
var rruleWeekdays = [...]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// ROption translates the rule into rrule-go options anchored at dtstart.
// Custom rules map onto DAILY since RFC 5545 has no raw-day frequency.
func (r Rule) ROption(dtstart time.Time) (rrule.ROption, error) {
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}
	opt := rrule.ROption{
		Interval: interval,
		Dtstart:  dtstart.In(r.Location()),
	}

	switch r.Frequency {
	case Minutely:
		opt.Freq = rrule.MINUTELY
	case Hourly:
		opt.Freq = rrule.HOURLY
	case Daily, Custom:
		opt.Freq = rrule.DAILY
	case Weekly:
		opt.Freq = rrule.WEEKLY
		for _, d := range r.DaysOfWeek {
			if d >= 1 && d <= 7 {
				opt.Byweekday = append(opt.Byweekday, rruleWeekdays[d-1])
			}
		}
	case Monthly:
		opt.Freq = rrule.MONTHLY
		if r.DayOfMonth >= 1 && r.DayOfMonth <= 31 {
			opt.Bymonthday = []int{r.DayOfMonth}
		}
	case Yearly:
		opt.Freq = rrule.YEARLY
	default:
		return rrule.ROption{}, fmt.Errorf("frequency %q has no RRULE mapping", r.Frequency)
	}

	if r.EndDate != nil {
		opt.Until = r.EndDate.In(r.Location())
	}
	if r.MaxOccurrences > 0 {
		opt.Count = r.MaxOccurrences
	}
	return opt, nil
}

// RRule builds an rrule-go rule anchored at dtstart, for interop with
// iCalendar tooling.
func (r Rule) RRule(dtstart time.Time) (*rrule.RRule, error) {
	opt, err := r.ROption(dtstart)
	if err != nil {
		return nil, err
	}
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build RRULE: %w", err)
	}
	return rule, nil
}

// RRuleString renders the rule as an RFC 5545 RRULE value (without the
// "RRULE:" prefix) anchored at dtstart.
func (r Rule) RRuleString(dtstart time.Time) (string, error) {
	opt, err := r.ROption(dtstart)
	if err != nil {
		return "", err
	}
	// The string form carries no DTSTART; drop it so it does not leak into
	// the serialized options.
	opt.Dtstart = time.Time{}
	return opt.RRuleString(), nil
}

// ParseRRule imports an RFC 5545 RRULE value into a Rule, best-effort:
// recognized parts (FREQ, INTERVAL, BYDAY, BYMONTHDAY, UNTIL, COUNT) are
// mapped, the rest is dropped.
func ParseRRule(value string) (Rule, error) {
	opt, err := rrule.StrToROption(value)
	if err != nil {
		return Rule{}, fmt.Errorf("failed to parse RRULE %q: %w", value, err)
	}

	var rule Rule
	switch opt.Freq {
	case rrule.MINUTELY:
		rule = NewRule(Minutely, opt.Interval)
	case rrule.HOURLY:
		rule = NewRule(Hourly, opt.Interval)
	case rrule.DAILY:
		rule = NewRule(Daily, opt.Interval)
	case rrule.WEEKLY:
		rule = NewRule(Weekly, opt.Interval)
		for _, wd := range opt.Byweekday {
			rule.DaysOfWeek = append(rule.DaysOfWeek, (wd.Day()+1)%7+1)
		}
	case rrule.MONTHLY:
		rule = NewRule(Monthly, opt.Interval)
		if len(opt.Bymonthday) > 0 {
			rule.DayOfMonth = opt.Bymonthday[0]
		}
	case rrule.YEARLY:
		rule = NewRule(Yearly, opt.Interval)
	default:
		return Rule{}, fmt.Errorf("unsupported RRULE frequency in %q", value)
	}

	if !opt.Until.IsZero() {
		until := opt.Until
		rule.EndDate = &until
	}
	if opt.Count > 0 {
		rule.MaxOccurrences = opt.Count
	}
	return rule, nil
}
