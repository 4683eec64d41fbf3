package scheduler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/emersion/go-ical"
)

// ExportCalendar renders tasks as a VCALENDAR of VTODO components.
// Recurring tasks carry their rule as an RFC 5545 RRULE property anchored at
// the task's due date.
func ExportCalendar(tasks []*Task) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//taskrecur//Task Export//EN")

	for _, task := range tasks {
		comp := ical.NewComponent(ical.CompToDo)
		comp.Props.SetText(ical.PropUID, task.ID.String())
		comp.Props.SetDateTime(ical.PropDateTimeStamp, task.CreatedAt)
		comp.Props.SetText(ical.PropSummary, task.Title)
		if task.Notes != "" {
			comp.Props.SetText(ical.PropDescription, task.Notes)
		}
		if len(task.Tags) > 0 {
			comp.Props.SetText(ical.PropCategories, strings.Join(task.Tags, ","))
		}
		if task.DueDate != nil {
			comp.Props.SetDateTime(ical.PropDue, *task.DueDate)
		}
		if task.Completed {
			comp.Props.SetText(ical.PropStatus, "COMPLETED")
		} else {
			comp.Props.SetText(ical.PropStatus, "NEEDS-ACTION")
		}
		if task.Recurrence != nil {
			dtstart := task.CreatedAt
			if task.DueDate != nil {
				dtstart = *task.DueDate
			}
			value, err := task.Recurrence.RRuleString(dtstart)
			if err != nil {
				return nil, fmt.Errorf("failed to render recurrence for task %s: %w", task.ID, err)
			}
			// The RRULE value grammar is not TEXT; SetText would tag it
			// VALUE=TEXT and backslash-escape the ; and , separators.
			prop := ical.NewProp(ical.PropRecurrenceRule)
			prop.Value = value
			comp.Props.Set(prop)
		}
		cal.Children = append(cal.Children, comp)
	}
	return cal, nil
}

// ExportICS renders tasks as an iCalendar document string.
func ExportICS(tasks []*Task) (string, error) {
	cal, err := ExportCalendar(tasks)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.String(), nil
}
