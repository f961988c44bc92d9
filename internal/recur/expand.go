package recur

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	appLog "datehelper/internal/log"
	"datehelper/internal/model"
	"datehelper/pkg/calendar"
)

const defaultMaxOccurrencesPerEvent = 5000

var ErrWindow = errors.New("recur: window ends before it starts")

// ExpandConfig is the window events are expanded into.
type ExpandConfig struct {
	// DisplayLocation is the zone of the returned occurrences; nil is
	// time.Local.
	DisplayLocation *time.Location

	// RangeStart and RangeEnd bound the window, both inclusive.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps the instances of one series; zero means
	// defaultMaxOccurrencesPerEvent.
	MaxOccurrencesPerEvent int
}

// ExpandResult holds the occurrences in the window and the UIDs whose series
// were cut at the cap.
type ExpandResult struct {
	Occurrences     []model.Occurrence
	TruncatedEvents []string
}

// series is every event sharing one UID: the base events in input order and
// the overrides indexed by the instant they replace.
type series struct {
	uid       string
	base      []model.Event
	overrides map[int64]model.Event
}

func (s *series) override(start time.Time) (model.Event, bool) {
	ev, ok := s.overrides[start.UnixNano()]
	return ev, ok
}

// collect groups events by UID, keeping the order in which UIDs first
// appear as a base event. Overrides without a base event are dropped.
func collect(events []model.Event) []*series {
	byUID := make(map[string]*series)
	var order []*series
	get := func(uid string) *series {
		s, ok := byUID[uid]
		if !ok {
			s = &series{uid: uid, overrides: make(map[int64]model.Event)}
			byUID[uid] = s
		}
		return s
	}
	for _, ev := range events {
		s := get(ev.UID)
		if ev.IsOverride() {
			s.overrides[ev.RecurrenceID.UnixNano()] = ev
			continue
		}
		if len(s.base) == 0 {
			order = append(order, s)
		}
		s.base = append(s.base, ev)
	}
	return order
}

// Expand resolves events into the occurrences that touch the window:
// RRULE series minus their EXDATEs, with RECURRENCE-ID overrides swapped in
// for the instance they replace. All-day instances span their whole local
// day. Occurrences come back in display time, grouped by UID in input
// order.
func Expand(events []model.Event, cfg ExpandConfig) (ExpandResult, error) {
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return ExpandResult{}, fmt.Errorf("%w: %s < %s", ErrWindow, cfg.RangeEnd, cfg.RangeStart)
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	res := ExpandResult{Occurrences: []model.Occurrence{}}
	for _, s := range collect(events) {
		capped := false
		for _, ev := range s.base {
			starts, hit := instanceStarts(ev, cfg)
			capped = capped || hit
			for _, start := range starts {
				res.Occurrences = append(res.Occurrences, instance(s, ev, start, cfg.DisplayLocation))
			}
		}
		if capped {
			res.TruncatedEvents = append(res.TruncatedEvents, s.uid)
			appLog.Info("expand: series cut at cap", "uid", s.uid, "cap", cfg.MaxOccurrencesPerEvent)
		}
	}
	return res, nil
}

// instanceStarts lists the start of every instance of ev inside the window
// and reports whether the cap was hit. A broken RRULE yields nothing.
func instanceStarts(ev model.Event, cfg ExpandConfig) ([]time.Time, bool) {
	if ev.RRule == "" {
		if ev.End.Before(cfg.RangeStart) || cfg.RangeEnd.Before(ev.Start) {
			return nil, false
		}
		return []time.Time{ev.Start}, false
	}

	rule, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		appLog.Error("expand: bad RRULE", err, "uid", ev.UID, "rrule", ev.RRule)
		return nil, false
	}
	loc := ev.Start.Location()
	rule.DTStart(ev.Start)

	set := &rrule.Set{}
	set.RRule(rule)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(loc))
	}

	starts := set.Between(cfg.RangeStart.In(loc), cfg.RangeEnd.In(loc), true)
	if len(starts) > cfg.MaxOccurrencesPerEvent {
		return starts[:cfg.MaxOccurrencesPerEvent], true
	}
	return starts, false
}

// instance builds the occurrence starting at start, taking the override
// for that instant when the series has one.
func instance(s *series, ev model.Event, start time.Time, display *time.Location) model.Occurrence {
	src, end := ev, start.Add(ev.Duration())
	if ev.AllDay {
		start, end = wholeDay(start)
	}
	if o, ok := s.override(start); ok {
		src, start, end = o, o.Start, o.End
	}

	local := start.In(display)
	return model.Occurrence{
		UID:         src.UID,
		InstanceKey: local.Format(time.RFC3339Nano),
		Summary:     src.Summary,
		Description: src.Description,
		Location:    src.Location,
		AllDay:      src.AllDay,
		Start:       local,
		End:         end.In(display),
	}
}

// wholeDay returns the start of t's day and of the next one in t's zone, so
// DST days keep their real length.
func wholeDay(t time.Time) (time.Time, time.Time) {
	cal := calendar.MustNew(calendar.Gregorian, calendar.WithTimeZone(t.Location()))
	start := cal.StartOfDay(t)
	next, err := cal.Add(start, calendar.Day, 1)
	if err != nil {
		return start, start.Add(24 * time.Hour)
	}
	return start, cal.StartOfDay(next)
}
