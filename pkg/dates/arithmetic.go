package dates

import (
	"time"

	"datehelper/pkg/interval"
)

// TryAdd moves t forward by iv. A calendar-scoped interval uses its own
// calendar, any other the context's.
func (c Context) TryAdd(t time.Time, iv interval.Interval) (time.Time, error) {
	return c.apply(t, iv, 1)
}

// TrySubtract moves t backward by iv.
func (c Context) TrySubtract(t time.Time, iv interval.Interval) (time.Time, error) {
	return c.apply(t, iv, -1)
}

// Add is TryAdd falling back to t when the calendar cannot compute a result.
//
//	ctx.Add(t, interval.Weeks(2))                           // 14 calendar days
//	ctx.Add(t, interval.Months(1).In(calendar.Islamic()))   // one Islamic month
func (c Context) Add(t time.Time, iv interval.Interval) time.Time {
	out, err := c.TryAdd(t, iv)
	return orSelf(t, "add "+iv.String(), out, err)
}

// Subtract is TrySubtract falling back to t.
func (c Context) Subtract(t time.Time, iv interval.Interval) time.Time {
	out, err := c.TrySubtract(t, iv)
	return orSelf(t, "subtract "+iv.String(), out, err)
}

func (c Context) apply(t time.Time, iv interval.Interval, sign int) (time.Time, error) {
	unit, value := iv.Component()
	if value == 0 {
		return t, nil
	}
	cal := iv.Calendar
	if cal == nil {
		cal = c.calendar()
	}
	return cal.Add(t, unit, sign*value)
}
