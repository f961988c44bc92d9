package dates

import (
	"time"

	"datehelper/pkg/interval"
)

// Device-context forms. Each call reads the device calendar, zone and clock
// afresh.

func IsPast(t time.Time) bool         { return Current().IsPast(t) }
func IsFuture(t time.Time) bool       { return Current().IsFuture(t) }
func IsToday(t time.Time) bool        { return Current().IsToday(t) }
func IsYesterday(t time.Time) bool    { return Current().IsYesterday(t) }
func IsTomorrow(t time.Time) bool     { return Current().IsTomorrow(t) }
func IsWeekday(t time.Time) bool      { return Current().IsWeekday(t) }
func IsWeekend(t time.Time) bool      { return Current().IsWeekend(t) }
func IsCurrentWeek(t time.Time) bool  { return Current().IsCurrentWeek(t) }
func IsCurrentMonth(t time.Time) bool { return Current().IsCurrentMonth(t) }
func IsCurrentYear(t time.Time) bool  { return Current().IsCurrentYear(t) }
func IsJumuah(t time.Time) bool       { return Current().IsJumuah(t) }

func Yesterday(t time.Time) time.Time    { return Current().Yesterday(t) }
func Tomorrow(t time.Time) time.Time     { return Current().Tomorrow(t) }
func StartOfDay(t time.Time) time.Time   { return Current().StartOfDay(t) }
func EndOfDay(t time.Time) time.Time     { return Current().EndOfDay(t) }
func StartOfMonth(t time.Time) time.Time { return Current().StartOfMonth(t) }
func EndOfMonth(t time.Time) time.Time   { return Current().EndOfMonth(t) }
func TimeToDecimal(t time.Time) float64  { return Current().TimeToDecimal(t) }

func Shift(t time.Time, loc *time.Location) time.Time {
	return Current().Shift(t, loc)
}

// AddInterval adds iv to t in the device calendar (or iv's own calendar).
func AddInterval(t time.Time, iv interval.Interval) time.Time {
	return Current().Add(t, iv)
}

// SubtractInterval subtracts iv from t in the device calendar (or iv's own
// calendar).
func SubtractInterval(t time.Time, iv interval.Interval) time.Time {
	return Current().Subtract(t, iv)
}
