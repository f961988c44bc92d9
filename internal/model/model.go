package model

import "time"

// Event is a dated entry before recurrence expansion: a single instant or
// span, optionally repeated by an RRULE.
type Event struct {
	UID string

	Summary     string
	Description string
	Location    string

	AllDay bool

	// Start / End in the event's own timezone.
	Start time.Time
	End   time.Time

	// RRule is the raw RFC 5545 rule ("FREQ=WEEKLY;COUNT=4"), empty for a
	// single event.
	RRule   string
	ExDates []time.Time

	// RecurrenceID marks an override replacing one instance of the
	// recurring event with the same UID.
	RecurrenceID *time.Time
}

// IsOverride reports whether the event replaces one instance of a series.
func (e Event) IsOverride() bool {
	return e.RecurrenceID != nil
}

// Duration is End minus Start, never negative.
func (e Event) Duration() time.Duration {
	if e.End.Before(e.Start) {
		return 0
	}
	return e.End.Sub(e.Start)
}

// Occurrence is a single concrete instance of an event after recurrence
// expansion and timezone normalization.
type Occurrence struct {
	UID string

	// InstanceKey uniquely identifies one occurrence of a recurring event,
	// derived from the local start time.
	InstanceKey string

	Summary     string
	Description string
	Location    string

	AllDay bool

	// Start / End are in the display timezone.
	Start time.Time
	End   time.Time
}
