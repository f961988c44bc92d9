package dates

import (
	"time"

	"datehelper/pkg/calendar"
	"datehelper/pkg/zone"
)

const rawDay = 86400 * time.Second

// Yesterday moves t back one calendar day. If the calendar cannot, it
// subtracts 86400 seconds instead.
func (c Context) Yesterday(t time.Time) time.Time {
	out, err := c.calendar().Add(t, calendar.Day, -1)
	if err != nil {
		return t.Add(-rawDay)
	}
	return out
}

// Tomorrow moves t forward one calendar day. If the calendar cannot, it adds
// 86400 seconds instead.
func (c Context) Tomorrow(t time.Time) time.Time {
	out, err := c.calendar().Add(t, calendar.Day, 1)
	if err != nil {
		return t.Add(rawDay)
	}
	return out
}

func (c Context) StartOfDay(t time.Time) time.Time {
	return c.calendar().StartOfDay(t)
}

// TryEndOfDay returns the last second of t's day: the start of the next
// calendar day minus one second. Days shortened or stretched by DST keep
// their wall-clock end.
func (c Context) TryEndOfDay(t time.Time) (time.Time, error) {
	cal := c.calendar()
	next, err := cal.Add(cal.StartOfDay(t), calendar.Day, 1)
	if err != nil {
		return time.Time{}, err
	}
	return cal.AddDelta(cal.StartOfDay(next), calendar.Delta{Seconds: -1})
}

func (c Context) EndOfDay(t time.Time) time.Time {
	out, err := c.TryEndOfDay(t)
	return orSelf(t, "end-of-day", out, err)
}

// TryStartOfMonth rebuilds a date from the year and month of t's day.
func (c Context) TryStartOfMonth(t time.Time) (time.Time, error) {
	cal := c.calendar()
	comp := cal.Components(cal.StartOfDay(t))
	return cal.Date(calendar.Components{Year: comp.Year, Month: comp.Month, Day: 1})
}

func (c Context) StartOfMonth(t time.Time) time.Time {
	out, err := c.TryStartOfMonth(t)
	return orSelf(t, "start-of-month", out, err)
}

// TryEndOfMonth returns the start of the next month minus one second.
func (c Context) TryEndOfMonth(t time.Time) (time.Time, error) {
	start, err := c.TryStartOfMonth(t)
	if err != nil {
		return time.Time{}, err
	}
	cal := c.calendar()
	next, err := cal.Add(start, calendar.Month, 1)
	if err != nil {
		return time.Time{}, err
	}
	return cal.AddDelta(cal.StartOfDay(next), calendar.Delta{Seconds: -1})
}

func (c Context) EndOfMonth(t time.Time) time.Time {
	out, err := c.TryEndOfMonth(t)
	return orSelf(t, "end-of-month", out, err)
}

// TryShift re-anchors the wall clock of t to loc: the full calendar
// components are recomputed with the seconds field replaced by loc's offset
// from the device zone. Nothing changes when loc has the device's offset.
func (c Context) TryShift(t time.Time, loc *time.Location) (time.Time, error) {
	now := c.now()
	if zone.IsCurrentAt(loc, c.zone(), now) {
		return t, nil
	}
	cal := c.calendar()
	comp := cal.Components(t)
	comp.Second = -zone.OffsetFrom(loc, c.zone(), now)
	comp.Nanosecond = 0
	return cal.Date(comp)
}

func (c Context) Shift(t time.Time, loc *time.Location) time.Time {
	out, err := c.TryShift(t, loc)
	return orSelf(t, "shift", out, err)
}
