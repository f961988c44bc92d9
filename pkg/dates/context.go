// Package dates answers temporal questions about a time.Time (is it today,
// a weekend, in the current month) and derives related instants (start of
// day, end of month, yesterday), always through a calendar.
//
// Every operation is a method of Context, which carries the calendar, the
// device zone and the clock explicitly. The package-level functions of the
// same names use Current(), which re-reads the device settings on each call:
//
//	ctx := dates.New(calendar.MustNew(calendar.ISO8601, calendar.WithTimeZone(time.UTC)))
//	ctx.EndOfMonth(t)          // explicit calendar
//	dates.EndOfMonth(t)        // device calendar
//
// Derivations never fail visibly. When the calendar cannot produce a result
// they return the original date and log the cause at debug level; the Try
// forms return the error instead.
package dates

import (
	"time"

	appLog "datehelper/internal/log"
	"datehelper/pkg/calendar"
)

// Context is the ambient state every operation reads: the calendar used for
// component computations, the device zone and the current instant.
type Context struct {
	Calendar *calendar.Calendar
	Zone     *time.Location
	Now      func() time.Time
}

// Current returns the device context: device calendar, time.Local and the
// system clock.
func Current() Context {
	return Context{
		Calendar: calendar.Current(),
		Zone:     time.Local,
		Now:      time.Now,
	}
}

// New returns a context over cal with the device zone and the system clock.
func New(cal *calendar.Calendar) Context {
	return Context{Calendar: cal, Zone: time.Local, Now: time.Now}
}

// WithClock returns a copy of the context reading "now" from now.
func (c Context) WithClock(now func() time.Time) Context {
	c.Now = now
	return c
}

// WithZone returns a copy of the context treating loc as the device zone.
func (c Context) WithZone(loc *time.Location) Context {
	c.Zone = loc
	return c
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func (c Context) calendar() *calendar.Calendar {
	if c.Calendar == nil {
		return calendar.Current()
	}
	return c.Calendar
}

func (c Context) zone() *time.Location {
	if c.Zone == nil {
		return time.Local
	}
	return c.Zone
}

func (c Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// orSelf collapses a failed computation to the original date.
func orSelf(t time.Time, op string, out time.Time, err error) time.Time {
	if err != nil {
		appLog.Debug("dates: computation failed, keeping original date",
			"op", op,
			"date", t.Format(time.RFC3339Nano),
			"err", err,
		)
		return t
	}
	return out
}
