// Package interval models "N units of calendar granularity", optionally bound
// to a calendar, as the right-hand operand of date arithmetic.
package interval

import (
	"errors"
	"fmt"
	"strings"

	"datehelper/pkg/calendar"
)

// Unit is the granularity tag of an Interval.
type Unit int

const (
	Second Unit = iota
	Minute
	Hour
	Day
	Week
	Month
	Year
)

var unitNames = [...]string{"seconds", "minutes", "hours", "days", "weeks", "months", "years"}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

var ErrUnknownUnit = errors.New("interval: unknown unit")

var unitAliases = map[string]Unit{
	"s": Second, "sec": Second, "second": Second, "seconds": Second,
	"min": Minute, "minute": Minute, "minutes": Minute,
	"h": Hour, "hour": Hour, "hours": Hour,
	"d": Day, "day": Day, "days": Day,
	"w": Week, "week": Week, "weeks": Week,
	"mo": Month, "month": Month, "months": Month,
	"y": Year, "year": Year, "years": Year,
}

// ParseUnit accepts singular, plural and short unit names ("d", "day",
// "days").
func ParseUnit(name string) (Unit, error) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
	}
	return u, nil
}

// Interval is an immutable amount of one calendar unit. A nil Calendar means
// the arithmetic uses the caller's calendar; a non-nil one anchors the
// arithmetic to that calendar.
type Interval struct {
	Unit     Unit
	Value    int
	Calendar *calendar.Calendar
}

func Seconds(n int) Interval { return Interval{Unit: Second, Value: n} }
func Minutes(n int) Interval { return Interval{Unit: Minute, Value: n} }
func Hours(n int) Interval   { return Interval{Unit: Hour, Value: n} }
func Days(n int) Interval    { return Interval{Unit: Day, Value: n} }
func Weeks(n int) Interval   { return Interval{Unit: Week, Value: n} }
func Months(n int) Interval  { return Interval{Unit: Month, Value: n} }
func Years(n int) Interval   { return Interval{Unit: Year, Value: n} }

// New builds an interval of n units.
func New(unit Unit, n int) Interval {
	return Interval{Unit: unit, Value: n}
}

// In returns the calendar-scoped variant of the interval.
func (i Interval) In(cal *calendar.Calendar) Interval {
	i.Calendar = cal
	return i
}

// Scoped reports whether the interval carries its own calendar.
func (i Interval) Scoped() bool {
	return i.Calendar != nil
}

// Negate flips the sign of the magnitude.
func (i Interval) Negate() Interval {
	i.Value = -i.Value
	return i
}

// Component maps the interval to the calendar unit and amount to add.
// Every calendar is assumed to have a seven-day week.
func (i Interval) Component() (calendar.Unit, int) {
	switch i.Unit {
	case Second:
		return calendar.Second, i.Value
	case Minute:
		return calendar.Minute, i.Value
	case Hour:
		return calendar.Hour, i.Value
	case Day:
		return calendar.Day, i.Value
	case Week:
		return calendar.Day, i.Value * 7
	case Month:
		return calendar.Month, i.Value
	case Year:
		return calendar.Year, i.Value
	default:
		return calendar.Nanosecond, 0
	}
}

func (i Interval) String() string {
	if i.Calendar != nil {
		return fmt.Sprintf("%d %s (%s)", i.Value, i.Unit, i.Calendar.Identifier())
	}
	return fmt.Sprintf("%d %s", i.Value, i.Unit)
}
