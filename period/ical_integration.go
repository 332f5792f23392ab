package period

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

// ProductID identifies calendars produced by this package
const ProductID = "-//Openbook//libperiod//EN"

// RuleFromComponent extracts the recurrence rule of an iCal component. A
// component without RRULE yields an empty rule.
func RuleFromComponent(comp *ical.Component) (*Rule, error) {
	if comp == nil {
		return New(), nil
	}
	rruleProp := comp.Props.Get(ical.PropRecurrenceRule)
	if rruleProp == nil || rruleProp.Value == "" {
		return New(), nil
	}
	return ParseRRule(rruleProp.Value)
}

// ApplyToComponent writes r as the component's RRULE. An invalid rule
// removes the property.
func ApplyToComponent(comp *ical.Component, r *Rule) {
	value := ""
	if r != nil {
		value = r.RRuleString()
	}
	if value == "" {
		delete(comp.Props, ical.PropRecurrenceRule)
		return
	}
	// Set directly: SetText would escape the commas of BYDAY lists.
	prop := ical.NewProp(ical.PropRecurrenceRule)
	prop.Value = value
	comp.Props.Set(prop)
}

// SeriesEvent returns a single all-day event starting at dtstart that
// recurs according to r.
func SeriesEvent(r *Rule, dtstart time.Time, summary string) *ical.Event {
	event := newAllDayEvent(civil(dtstart), summary)
	if r != nil {
		event.Props.SetText(ical.PropDescription, r.String())
	}
	ApplyToComponent(event.Component, r)
	return event
}

// OccurrencesCalendar builds a calendar holding one all-day event per
// date, as produced by EnumerateBetween for r.
func OccurrencesCalendar(r *Rule, dates []time.Time, summary string) *ical.Calendar {
	cal := newCalendar()
	for _, d := range dates {
		event := newAllDayEvent(civil(d), summary)
		if r != nil {
			event.Props.SetText(ical.PropDescription, r.String())
		}
		cal.Children = append(cal.Children, event.Component)
	}
	return cal
}

// EncodeICS serializes a calendar to iCalendar text
func EncodeICS(cal *ical.Calendar) (string, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.String(), nil
}

// EventsToICS wraps events in a calendar and serializes it
func EventsToICS(events ...*ical.Event) (string, error) {
	cal := newCalendar()
	for _, event := range events {
		cal.Children = append(cal.Children, event.Component)
	}
	return EncodeICS(cal)
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	return cal
}

func newAllDayEvent(date time.Time, summary string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uuid.NewString())
	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	event.Props.SetDate(ical.PropDateTimeStart, date)
	if summary != "" {
		event.Props.SetText(ical.PropSummary, summary)
	}
	return event
}
