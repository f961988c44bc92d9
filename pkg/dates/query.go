package dates

import (
	"time"

	"datehelper/pkg/calendar"
)

// IsPast reports whether t is strictly before now.
func (c Context) IsPast(t time.Time) bool {
	return t.Before(c.now())
}

// IsFuture reports whether t is strictly after now.
func (c Context) IsFuture(t time.Time) bool {
	return t.After(c.now())
}

func (c Context) IsToday(t time.Time) bool {
	return c.calendar().IsDateInToday(t, c.now())
}

func (c Context) IsYesterday(t time.Time) bool {
	return c.calendar().IsDateInYesterday(t, c.now())
}

func (c Context) IsTomorrow(t time.Time) bool {
	return c.calendar().IsDateInTomorrow(t, c.now())
}

// IsWeekday reports whether t is outside the weekend of the calendar's
// locale region.
func (c Context) IsWeekday(t time.Time) bool {
	return !c.calendar().IsDateInWeekend(t)
}

// IsWeekend uses the weekend rule of the calendar's locale region, e.g.
// Friday and Saturday in Saudi Arabia.
func (c Context) IsWeekend(t time.Time) bool {
	return c.calendar().IsDateInWeekend(t)
}

func (c Context) IsCurrentWeek(t time.Time) bool {
	return c.calendar().IsEqual(t, c.now(), calendar.WeekOfYear)
}

func (c Context) IsCurrentMonth(t time.Time) bool {
	return c.calendar().IsEqual(t, c.now(), calendar.Month)
}

func (c Context) IsCurrentYear(t time.Time) bool {
	return c.calendar().IsEqual(t, c.now(), calendar.Year)
}

// TimeToDecimal returns the wall clock of t as hours, e.g. 18:15 -> 18.25.
func (c Context) TimeToDecimal(t time.Time) float64 {
	comp := c.calendar().Components(t)
	return float64(comp.Hour) + float64(comp.Minute)/60.0
}

// IsJumuah reports whether t falls on a Friday in the calendar's zone.
func (c Context) IsJumuah(t time.Time) bool {
	return c.calendar().Components(t).Weekday == time.Friday
}

// IsBetween reports whether t lies strictly between a and b, in either order.
//
//	IsBetween(now, now.Add(time.Hour), now.Add(-time.Hour)) // true
func IsBetween(t, a, b time.Time) bool {
	return a.Compare(t)*t.Compare(b) > 0
}

// IsBeyondSeconds reports whether more than n whole seconds separate ref and
// t, with t the later one.
//
//	t, _ := format.FromString("2016/03/22 09:40")
//	ref, _ := format.FromString("2016/03/22 09:30")
//	IsBeyondSeconds(t, ref, 300) // true
//	IsBeyondSeconds(t, ref, 600) // false
func IsBeyondSeconds(t, ref time.Time, n int) bool {
	return int(t.Sub(ref)/time.Second) > n
}

func IsBeyondMinutes(t, ref time.Time, minutes float64) bool {
	return t.Sub(ref).Minutes() > minutes
}

func IsBeyondHours(t, ref time.Time, hours float64) bool {
	return t.Sub(ref).Hours() > hours
}

// Days converts a duration to days of 86400 seconds.
func Days(d time.Duration) float64 {
	return d.Seconds() / 86400.0
}

// Weeks converts a duration to weeks of 604800 seconds.
func Weeks(d time.Duration) float64 {
	return d.Seconds() / 604800.0
}
