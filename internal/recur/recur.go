// Package recur generates date series: fixed-interval repetitions, RRULE
// expansion and cron schedules.
package recur

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/teambition/rrule-go"

	"datehelper/pkg/calendar"
	"datehelper/pkg/interval"
)

var (
	ErrInvalidCount    = errors.New("recur: count must be positive")
	ErrInvalidInterval = errors.New("recur: interval must be positive")
	ErrCalendar        = errors.New("recur: only Gregorian calendars are supported")
	ErrNoNext          = errors.New("recur: schedule has no next activation")
)

var frequencies = map[interval.Unit]rrule.Frequency{
	interval.Second: rrule.SECONDLY,
	interval.Minute: rrule.MINUTELY,
	interval.Hour:   rrule.HOURLY,
	interval.Day:    rrule.DAILY,
	interval.Week:   rrule.WEEKLY,
	interval.Month:  rrule.MONTHLY,
	interval.Year:   rrule.YEARLY,
}

// Every returns the first count occurrences of start repeated every iv.
// Dates that do not exist in a period (the 31st in a 30-day month) are
// skipped, as RFC 5545 requires, not clamped.
//
//	recur.Every(jan31, interval.Months(1), 3) // Jan 31, Mar 31, May 31
func Every(start time.Time, iv interval.Interval, count int) ([]time.Time, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if iv.Value <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, iv)
	}
	if iv.Calendar != nil && iv.Calendar.Identifier().IsIslamic() {
		return nil, fmt.Errorf("%w: %s", ErrCalendar, iv.Calendar.Identifier())
	}
	freq, ok := frequencies[iv.Unit]
	if !ok {
		return nil, fmt.Errorf("%w: %d", interval.ErrUnknownUnit, iv.Unit)
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     freq,
		Interval: iv.Value,
		Count:    count,
		Dtstart:  start,
	})
	if err != nil {
		return nil, fmt.Errorf("recur: %w", err)
	}
	return r.All(), nil
}

// Next returns the first activation of a standard five-field cron spec after
// from, evaluated in loc.
//
//	recur.Next("0 9 * * MON-FRI", now, tz)
func Next(spec string, from time.Time, loc *time.Location) (time.Time, error) {
	sched, err := parseSchedule(spec, loc)
	if err != nil {
		return time.Time{}, err
	}
	next := sched.Next(from)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoNext, spec)
	}
	return next, nil
}

// Upcoming returns the next n activations of spec after from.
func Upcoming(spec string, from time.Time, loc *time.Location, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	sched, err := parseSchedule(spec, loc)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, n)
	for t := from; len(out) < n; {
		t = sched.Next(t)
		if t.IsZero() {
			break
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoNext, spec)
	}
	return out, nil
}

func parseSchedule(spec string, loc *time.Location) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if loc != nil && !strings.HasPrefix(spec, "CRON_TZ=") && !strings.HasPrefix(spec, "TZ=") {
		spec = "CRON_TZ=" + loc.String() + " " + spec
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("recur: cron spec %q: %w", spec, err)
	}
	return sched, nil
}

// DaySpan returns the first and last instant of t's day in cal.
func DaySpan(cal *calendar.Calendar, t time.Time) (time.Time, time.Time, error) {
	start := cal.StartOfDay(t)
	next, err := cal.Add(start, calendar.Day, 1)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, cal.StartOfDay(next).Add(-time.Nanosecond), nil
}

// MonthSpan returns the first and last instant of t's month in cal.
func MonthSpan(cal *calendar.Calendar, t time.Time) (time.Time, time.Time, error) {
	comp := cal.Components(t)
	start, err := cal.Date(calendar.Components{Year: comp.Year, Month: comp.Month, Day: 1})
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	next, err := cal.Add(start, calendar.Month, 1)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, cal.StartOfDay(next).Add(-time.Nanosecond), nil
}
