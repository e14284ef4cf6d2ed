// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Layouts shared by every calendar backend.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = DateLayout + "T" + TimeLayout
)

// Raw record field names.
const (
	FieldTitle     = "title"
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldIsAllDay  = "isAllDay"
	FieldLocation  = "location"
	FieldURL       = "url"
	FieldNotes     = "notes"
)

// RawRecord is one event as produced by a calendar backend: field name to
// string value. It is consumed once when building an Event.
type RawRecord map[string]string

// Valid reports whether the record carries a title and a start date. Records
// failing this are noise from the backend and are dropped.
func (r RawRecord) Valid() bool {
	return strings.TrimSpace(r[FieldTitle]) != "" && strings.TrimSpace(r[FieldStartDate]) != ""
}

// Event is a normalized calendar event. It is immutable after construction.
type Event struct {
	Title string
	Start time.Time // local zone
	End   time.Time
	// AllDay events have Start pinned to the construction instant.
	AllDay bool
	// ConferenceURL is empty when no conferencing link was found.
	ConferenceURL string
}

// HasConferenceURL reports whether a conference URL was extracted.
func (e Event) HasConferenceURL() bool {
	return e.ConferenceURL != ""
}

// TimeOfDay renders the start time for display: "All-Day", "8:00am" or
// "08:00" when use24Hour is set.
func (e Event) TimeOfDay(use24Hour bool) string {
	switch {
	case e.AllDay:
		return "All-Day"
	case use24Hour:
		return e.Start.Format("15:04")
	default:
		return e.Start.Format("3:04pm")
	}
}

// Identity is a stable key used to collapse duplicate events.
func (e Event) Identity() string {
	return strings.Join([]string{
		e.Title,
		e.Start.Format(time.RFC3339Nano),
		e.End.Format(time.RFC3339Nano),
		e.ConferenceURL,
	}, "\x1f")
}
