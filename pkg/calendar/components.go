package calendar

import (
	"fmt"
	"math"
	"time"
)

// Unit is a calendar component used for arithmetic and for granularity
// comparisons.
type Unit int

const (
	Nanosecond Unit = iota
	Second
	Minute
	Hour
	Day
	WeekOfYear
	Month
	Year
)

var unitNames = [...]string{"nanosecond", "second", "minute", "hour", "day", "weekOfYear", "month", "year"}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// Components are the calendar fields of an instant in a calendar's zone.
// Weekday is informational and ignored when building a date.
type Components struct {
	Year       int
	Month      int
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	Weekday    time.Weekday
}

// Delta is a set of component amounts added in one step, largest unit first.
type Delta struct {
	Years       int
	Months      int
	Days        int
	Hours       int
	Minutes     int
	Seconds     int
	Nanoseconds int
}

// Components extracts the calendar fields of t.
func (c *Calendar) Components(t time.Time) Components {
	lt := t.In(c.loc)
	y, m, d := c.sys.fromDays(dayNumber(lt))
	return Components{
		Year:       y,
		Month:      m,
		Day:        d,
		Hour:       lt.Hour(),
		Minute:     lt.Minute(),
		Second:     lt.Second(),
		Nanosecond: lt.Nanosecond(),
		Weekday:    lt.Weekday(),
	}
}

// Date builds the instant described by comp in the calendar's zone. Fields
// outside their usual range are normalized (month 13 is the first month of
// the next year, second -60 is the previous minute).
func (c *Calendar) Date(comp Components) (time.Time, error) {
	total := int64(comp.Year)*12 + int64(comp.Month-1)
	y := floorDiv(total, 12)
	m := int(total-y*12) + 1
	if y > maxYear || y < -maxYear {
		return time.Time{}, fmt.Errorf("%w: year %d", ErrOutOfRange, y)
	}
	if comp.Day > maxDays || comp.Day < -maxDays {
		return time.Time{}, fmt.Errorf("%w: day %d", ErrOutOfRange, comp.Day)
	}

	days := c.sys.toDays(int(y), m, 1) + int64(comp.Day) - 1
	gy, gm, gd := gregorian{}.fromDays(days)
	if gy > maxYear || gy < -maxYear {
		return time.Time{}, fmt.Errorf("%w: day %d", ErrOutOfRange, comp.Day)
	}
	t := time.Date(gy, time.Month(gm), gd, comp.Hour, comp.Minute, comp.Second, comp.Nanosecond, c.loc)
	if comp.Hour == 0 && comp.Minute == 0 && comp.Second == 0 && comp.Nanosecond == 0 {
		t = skipMissingMidnight(t, gy, time.Month(gm), gd)
	}
	if yy := t.Year(); yy > maxYear || yy < -maxYear {
		return time.Time{}, fmt.Errorf("%w: year %d", ErrOutOfRange, yy)
	}
	return t, nil
}

// DaysInMonth returns the length of the calendar month containing t.
func (c *Calendar) DaysInMonth(t time.Time) int {
	comp := c.Components(t)
	return c.sys.daysInMonth(comp.Year, comp.Month)
}

// Add adds n units to t. Seconds, minutes and hours are absolute durations;
// days keep the wall clock; months and years clamp the day to the end of
// the target month (Jan 31 + 1 month = Feb 28 or 29).
func (c *Calendar) Add(t time.Time, unit Unit, n int) (time.Time, error) {
	switch unit {
	case Nanosecond:
		return addDuration(t, int64(n), 1)
	case Second:
		return addDuration(t, int64(n), int64(time.Second))
	case Minute:
		return addDuration(t, int64(n), int64(time.Minute))
	case Hour:
		return addDuration(t, int64(n), int64(time.Hour))
	case Day:
		return c.addDays(t, int64(n))
	case WeekOfYear:
		if int64(n) > math.MaxInt64/7 || int64(n) < math.MinInt64/7 {
			return time.Time{}, fmt.Errorf("%w: %d weeks", ErrOutOfRange, n)
		}
		return c.addDays(t, int64(n)*7)
	case Month:
		return c.addMonths(t, int64(n))
	case Year:
		if int64(n) > math.MaxInt64/12 || int64(n) < math.MinInt64/12 {
			return time.Time{}, fmt.Errorf("%w: %d years", ErrOutOfRange, n)
		}
		return c.addMonths(t, int64(n)*12)
	default:
		return time.Time{}, fmt.Errorf("calendar: cannot add unit %s", unit)
	}
}

// AddDelta applies years and months, then days, then the time fields.
func (c *Calendar) AddDelta(t time.Time, d Delta) (time.Time, error) {
	out := t
	var err error
	if months := int64(d.Years)*12 + int64(d.Months); months != 0 {
		if out, err = c.addMonths(out, months); err != nil {
			return time.Time{}, err
		}
	}
	if d.Days != 0 {
		if out, err = c.addDays(out, int64(d.Days)); err != nil {
			return time.Time{}, err
		}
	}
	steps := []struct {
		n    int
		unit int64
	}{
		{d.Hours, int64(time.Hour)},
		{d.Minutes, int64(time.Minute)},
		{d.Seconds, int64(time.Second)},
		{d.Nanoseconds, 1},
	}
	for _, s := range steps {
		if s.n == 0 {
			continue
		}
		if out, err = addDuration(out, int64(s.n), s.unit); err != nil {
			return time.Time{}, err
		}
	}
	return out, nil
}

func (c *Calendar) addDays(t time.Time, n int64) (time.Time, error) {
	if n > maxDays || n < -maxDays {
		return time.Time{}, fmt.Errorf("%w: %d days", ErrOutOfRange, n)
	}
	comp := c.Components(t)
	comp.Day += int(n)
	return c.Date(comp)
}

func (c *Calendar) addMonths(t time.Time, n int64) (time.Time, error) {
	if n > maxYear*24 || n < -maxYear*24 {
		return time.Time{}, fmt.Errorf("%w: %d months", ErrOutOfRange, n)
	}
	comp := c.Components(t)
	total := int64(comp.Year)*12 + int64(comp.Month-1) + n
	y := floorDiv(total, 12)
	if y > maxYear || y < -maxYear {
		return time.Time{}, fmt.Errorf("%w: year %d", ErrOutOfRange, y)
	}
	comp.Year = int(y)
	comp.Month = int(total-y*12) + 1
	if dim := c.sys.daysInMonth(comp.Year, comp.Month); comp.Day > dim {
		comp.Day = dim
	}
	return c.Date(comp)
}

func addDuration(t time.Time, n, unit int64) (time.Time, error) {
	if n > math.MaxInt64/unit || n < math.MinInt64/unit {
		return time.Time{}, fmt.Errorf("%w: duration overflow", ErrOutOfRange)
	}
	out := t.Add(time.Duration(n * unit))
	if y := out.Year(); y > maxYear || y < -maxYear {
		return time.Time{}, fmt.Errorf("%w: year %d", ErrOutOfRange, y)
	}
	return out, nil
}

// StartOfDay returns the first instant of t's day in the calendar's zone.
// When a DST jump skips local midnight that is the end of the jump, e.g.
// 01:00.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return skipMissingMidnight(time.Date(y, m, d, 0, 0, 0, 0, c.loc), y, m, d)
}

// skipMissingMidnight moves t to the next zone transition when time.Date
// resolved a nonexistent midnight of y-m-d into the previous day.
func skipMissingMidnight(t time.Time, y int, m time.Month, d int) time.Time {
	if ty, tm, td := t.Date(); ty == y && tm == m && td == d {
		return t
	}
	_, end := t.ZoneBounds()
	if end.IsZero() {
		return t
	}
	end = end.In(t.Location())
	if ey, em, ed := end.Date(); ey == y && em == m && ed == d {
		return end
	}
	return t
}

// StartOfWeek returns the start of the first day of t's week, honoring the
// calendar's first weekday.
func (c *Calendar) StartOfWeek(t time.Time) time.Time {
	sod := c.StartOfDay(t)
	back := (7 + int(sod.Weekday()) - int(c.firstWeekday)) % 7
	if back == 0 {
		return sod
	}
	out, err := c.addDays(sod, int64(-back))
	if err != nil {
		return sod
	}
	return out
}

// IsEqual reports whether a and b fall in the same unit, e.g. the same
// calendar month. Nanosecond granularity is instant equality.
func (c *Calendar) IsEqual(a, b time.Time, unit Unit) bool {
	switch unit {
	case Year:
		return c.Components(a).Year == c.Components(b).Year
	case Month:
		ca, cb := c.Components(a), c.Components(b)
		return ca.Year == cb.Year && ca.Month == cb.Month
	case WeekOfYear:
		return c.StartOfWeek(a).Equal(c.StartOfWeek(b))
	case Day:
		return c.StartOfDay(a).Equal(c.StartOfDay(b))
	case Hour, Minute, Second:
		la, lb := a.In(c.loc), b.In(c.loc)
		if !c.StartOfDay(a).Equal(c.StartOfDay(b)) || la.Hour() != lb.Hour() {
			return false
		}
		if unit == Hour {
			return true
		}
		if la.Minute() != lb.Minute() {
			return false
		}
		return unit == Minute || la.Second() == lb.Second()
	default:
		return a.Equal(b)
	}
}

// IsDateInToday reports whether t is in the same day as now.
func (c *Calendar) IsDateInToday(t, now time.Time) bool {
	return c.IsEqual(t, now, Day)
}

// IsDateInYesterday reports whether t is in the day before now's day.
func (c *Calendar) IsDateInYesterday(t, now time.Time) bool {
	y, err := c.addDays(now, -1)
	if err != nil {
		return false
	}
	return c.IsEqual(t, y, Day)
}

// IsDateInTomorrow reports whether t is in the day after now's day.
func (c *Calendar) IsDateInTomorrow(t, now time.Time) bool {
	tm, err := c.addDays(now, 1)
	if err != nil {
		return false
	}
	return c.IsEqual(t, tm, Day)
}

// dayNumber counts days from 1970-01-01 to lt's wall-clock date.
func dayNumber(lt time.Time) int64 {
	y, m, d := lt.Date()
	return gregorian{}.toDays(y, int(m), d)
}
