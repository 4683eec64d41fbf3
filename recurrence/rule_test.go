package recurrence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRule_ClampsInterval(t *testing.T) {
	assert.Equal(t, 1, NewRule(Daily, 0).Interval)
	assert.Equal(t, 1, NewRule(Daily, -7).Interval)
	assert.Equal(t, 5, NewRule(Daily, 5).Interval)
}

func TestRule_JSONRoundTrip(t *testing.T) {
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	rule := Rule{
		Frequency:      Weekly,
		Interval:       2,
		DaysOfWeek:     []int{2, 4, 6},
		PreferredTime:  &TimeOfDay{Hour: 9, Minute: 30},
		TimeZone:       "Europe/Berlin",
		EndDate:        &end,
		MaxOccurrences: 10,
		RepeatMode:     RepeatFromCompletion,
	}

	data, err := json.Marshal(rule)
	require.NoError(t, err)

	var decoded Rule
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rule.Frequency, decoded.Frequency)
	assert.Equal(t, rule.Interval, decoded.Interval)
	assert.Equal(t, rule.DaysOfWeek, decoded.DaysOfWeek)
	assert.Equal(t, rule.PreferredTime, decoded.PreferredTime)
	assert.Equal(t, rule.TimeZone, decoded.TimeZone)
	assert.Equal(t, rule.MaxOccurrences, decoded.MaxOccurrences)
	assert.Equal(t, rule.RepeatMode, decoded.RepeatMode)
	require.NotNil(t, decoded.EndDate)
	assert.True(t, end.Equal(*decoded.EndDate))
}

func TestRule_UnmarshalClampsInterval(t *testing.T) {
	var rule Rule
	require.NoError(t, json.Unmarshal([]byte(`{"frequency":"daily","interval":0}`), &rule))
	assert.Equal(t, 1, rule.Interval)

	require.NoError(t, json.Unmarshal([]byte(`{"frequency":"daily","interval":-4}`), &rule))
	assert.Equal(t, 1, rule.Interval)
}

func TestRule_LocationFallback(t *testing.T) {
	rule := NewRule(Daily, 1)
	rule.TimeZone = "Not/AZone"
	assert.Equal(t, time.Local, rule.Location())

	rule.TimeZone = ""
	assert.Equal(t, time.Local, rule.Location())

	rule.TimeZone = "Asia/Shanghai"
	assert.Equal(t, "Asia/Shanghai", rule.Location().String())
}

func TestRule_IsValid(t *testing.T) {
	weekly := func(days ...int) Rule {
		r := NewRule(Weekly, 1)
		r.DaysOfWeek = days
		return r
	}
	monthly := func(day int) Rule {
		r := NewRule(Monthly, 1)
		r.DayOfMonth = day
		return r
	}
	withInterval := func(freq Frequency, interval int) Rule {
		r := NewRule(freq, 1)
		r.Interval = interval
		return r
	}

	tests := []struct {
		name     string
		rule     Rule
		expected bool
	}{
		{"daily", NewRule(Daily, 1), true},
		{"custom", NewRule(Custom, 3), true},
		{"yearly", NewRule(Yearly, 1), true},
		{"weekly without days", weekly(), true},
		{"weekly in range", weekly(1, 7), true},
		{"weekly day too small", weekly(0, 3), false},
		{"weekly day too large", weekly(2, 8), false},
		{"monthly in range", monthly(31), true},
		{"monthly unset day", monthly(0), false},
		{"monthly day too large", monthly(32), false},
		{"hourly in range", withInterval(Hourly, 24), true},
		{"hourly out of range", withInterval(Hourly, 25), false},
		{"minutely in range", withInterval(Minutely, 1440), true},
		{"minutely out of range", withInterval(Minutely, 1441), false},
		{"zero interval struct literal", Rule{Frequency: Daily}, false},
		{"unknown frequency", NewRule(Frequency("bogus"), 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.rule.IsValid())
		})
	}
}

func TestRule_InvalidRuleStillComputes(t *testing.T) {
	engine := newTestEngine(t)

	// Hourly interval 48 fails validation but the engine still steps it.
	rule := utcRule(Hourly, 48)
	require.False(t, rule.IsValid())

	ref := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	next, ok := engine.NextOccurrence(rule, ref).Get()
	require.True(t, ok)
	assert.Equal(t, ref.Add(48*time.Hour), next)
}
