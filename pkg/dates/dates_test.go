package dates

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datehelper/pkg/calendar"
	"datehelper/pkg/format"
	"datehelper/pkg/interval"
	"datehelper/pkg/locale"
)

// wednesday is 2024-01-10 12:00 UTC.
var wednesday = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func testContext(localeID string) Context {
	cal := calendar.MustNew(calendar.Gregorian,
		calendar.WithTimeZone(time.UTC),
		calendar.WithLocale(locale.MustNew(localeID)),
	)
	return New(cal).WithZone(time.UTC).WithClock(FixedClock(wednesday))
}

func TestPastFuture(t *testing.T) {
	ctx := testContext("en_US")
	assert.True(t, ctx.IsPast(wednesday.Add(-time.Second)))
	assert.False(t, ctx.IsPast(wednesday))
	assert.True(t, ctx.IsFuture(wednesday.Add(time.Second)))
	assert.False(t, ctx.IsFuture(wednesday))
}

func TestRelativeDays(t *testing.T) {
	ctx := testContext("en_US")
	assert.True(t, ctx.IsToday(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ctx.IsToday(time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC)))
	assert.False(t, ctx.IsToday(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ctx.IsYesterday(time.Date(2024, 1, 9, 3, 0, 0, 0, time.UTC)))
	assert.True(t, ctx.IsTomorrow(time.Date(2024, 1, 11, 3, 0, 0, 0, time.UTC)))
	assert.False(t, ctx.IsTomorrow(wednesday))
}

func TestWeekendRules(t *testing.T) {
	friday := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)

	us := testContext("en_US")
	assert.True(t, us.IsWeekday(friday))
	assert.True(t, us.IsWeekend(saturday))
	assert.True(t, us.IsWeekend(sunday))

	sa := testContext("ar_SA")
	assert.True(t, sa.IsWeekend(friday))
	assert.True(t, sa.IsWeekend(saturday))
	assert.True(t, sa.IsWeekday(sunday))
}

func TestIsJumuah(t *testing.T) {
	ctx := testContext("en_US")
	assert.True(t, ctx.IsJumuah(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)))
	assert.False(t, ctx.IsJumuah(time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC)))

	// Friday in Tokyo, still Thursday in UTC.
	tokyo := time.FixedZone("JST", 9*3600)
	ctx.Calendar = ctx.Calendar.In(tokyo)
	assert.True(t, ctx.IsJumuah(time.Date(2024, 1, 4, 20, 0, 0, 0, time.UTC)))
}

func TestCurrentPeriods(t *testing.T) {
	ctx := testContext("en_US")

	assert.True(t, ctx.IsCurrentWeek(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ctx.IsCurrentWeek(time.Date(2024, 1, 13, 23, 0, 0, 0, time.UTC)))
	assert.False(t, ctx.IsCurrentWeek(time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)))

	de := testContext("de_DE")
	assert.False(t, de.IsCurrentWeek(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)), "German weeks start on Monday")

	assert.True(t, ctx.IsCurrentMonth(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ctx.IsCurrentMonth(time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ctx.IsCurrentYear(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ctx.IsCurrentYear(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestTimeToDecimal(t *testing.T) {
	ctx := testContext("en_US")
	assert.InDelta(t, 18.25, ctx.TimeToDecimal(time.Date(2018, 11, 30, 18, 15, 59, 0, time.UTC)), 1e-9)
	assert.InDelta(t, 0.0, ctx.TimeToDecimal(time.Date(2018, 11, 30, 0, 0, 0, 0, time.UTC)), 1e-9)
}

func TestIsBetween(t *testing.T) {
	now := wednesday
	assert.True(t, IsBetween(now, now.Add(time.Hour), now.Add(-time.Hour)))
	assert.True(t, IsBetween(now, now.Add(-time.Hour), now.Add(time.Hour)))
	assert.False(t, IsBetween(now, now, now.Add(time.Hour)))
	assert.False(t, IsBetween(now.Add(2*time.Hour), now, now.Add(time.Hour)))
}

func TestIsBeyond(t *testing.T) {
	opt := format.WithTimeZone(time.UTC)
	later := format.MustFromString("2016/03/22 09:40", opt)
	earlier := format.MustFromString("2016/03/22 09:30", opt)

	assert.True(t, IsBeyondSeconds(later, earlier, 300))
	assert.False(t, IsBeyondSeconds(later, earlier, 600))
	assert.False(t, IsBeyondSeconds(earlier, later, 300))
	assert.True(t, IsBeyondMinutes(later, earlier, 9.5))
	assert.False(t, IsBeyondMinutes(later, earlier, 10))
	assert.False(t, IsBeyondHours(later, earlier, 0.5))

	assert.InDelta(t, 1.5, Days(36*time.Hour), 1e-9)
	assert.InDelta(t, 0.5, Weeks(84*time.Hour), 1e-9)
}

func TestDerivedDates(t *testing.T) {
	ctx := testContext("en_US")
	ref := time.Date(2018, 11, 30, 18, 15, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2018, 11, 29, 18, 15, 0, 0, time.UTC), ctx.Yesterday(ref))
	assert.Equal(t, time.Date(2018, 12, 1, 18, 15, 0, 0, time.UTC), ctx.Tomorrow(ref))
	assert.Equal(t, time.Date(2018, 11, 30, 0, 0, 0, 0, time.UTC), ctx.StartOfDay(ref))
	assert.Equal(t, time.Date(2018, 11, 30, 23, 59, 59, 0, time.UTC), ctx.EndOfDay(ref))
	assert.Equal(t, time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC), ctx.StartOfMonth(ref))

	end := ctx.EndOfMonth(time.Date(2018, 11, 5, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2018/11/30", format.String(end, "yyyy/MM/dd", format.WithTimeZone(time.UTC)))
	assert.Equal(t, time.Date(2018, 11, 30, 23, 59, 59, 0, time.UTC), end)

	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), ctx.EndOfMonth(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
}

func TestEndOfDayAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	ctx := testContext("en_US")
	ctx.Calendar = ctx.Calendar.In(ny)

	d := time.Date(2021, 3, 14, 10, 0, 0, 0, ny)
	sod, eod := ctx.StartOfDay(d), ctx.EndOfDay(d)
	assert.Equal(t, time.Date(2021, 3, 14, 0, 0, 0, 0, ny), sod)
	assert.Equal(t, time.Date(2021, 3, 14, 23, 59, 59, 0, ny), eod)
	name, _ := eod.Zone()
	assert.Equal(t, "EDT", name)
	assert.Equal(t, 82799*time.Second, eod.Sub(sod))
}

func TestDerivedDatesSkippedMidnight(t *testing.T) {
	scl, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	ctx := testContext("es_CL")
	ctx.Calendar = ctx.Calendar.In(scl)

	d := time.Date(2022, 9, 11, 23, 30, 0, 0, scl)
	sod, eod := ctx.StartOfDay(d), ctx.EndOfDay(d)
	assert.Equal(t, time.Date(2022, 9, 11, 1, 0, 0, 0, scl), sod)
	assert.Equal(t, time.Date(2022, 9, 11, 23, 59, 59, 0, scl), eod)
	assert.False(t, d.Before(sod))
	assert.False(t, d.After(eod))

	// The day before ends just ahead of the jump.
	eve := ctx.EndOfDay(time.Date(2022, 9, 10, 12, 0, 0, 0, scl))
	assert.True(t, time.Date(2022, 9, 11, 3, 59, 59, 0, time.UTC).Equal(eve), "got %v", eve)
	assert.Equal(t, time.Date(2022, 9, 30, 23, 59, 59, 0, scl), ctx.EndOfMonth(d))
}

func TestShift(t *testing.T) {
	ctx := testContext("en_US")
	ref := time.Date(2024, 1, 10, 10, 0, 30, 500, time.UTC)

	plusOne := time.FixedZone("CET", 3600)
	got, err := ctx.TryShift(ref, plusOne)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 11, 0, 0, 0, time.UTC), got)

	minusTwo := time.FixedZone("X", -2*3600)
	assert.Equal(t, time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC), ctx.Shift(ref, minusTwo))

	// Same offset as the device: unchanged, seconds kept.
	assert.Equal(t, ref, ctx.Shift(ref, time.FixedZone("GMT", 0)))
}

func TestAddSubtract(t *testing.T) {
	ctx := testContext("en_US")
	ref := time.Date(2021, 1, 31, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2021, 2, 28, 8, 0, 0, 0, time.UTC), ctx.Add(ref, interval.Months(1)))
	assert.Equal(t, time.Date(2021, 2, 14, 8, 0, 0, 0, time.UTC), ctx.Add(ref, interval.Weeks(2)))
	assert.Equal(t, time.Date(2021, 1, 31, 7, 30, 0, 0, time.UTC), ctx.Subtract(ref, interval.Minutes(30)))
	assert.Equal(t, time.Date(2020, 1, 31, 8, 0, 0, 0, time.UTC), ctx.Subtract(ref, interval.Years(1)))
	assert.Equal(t, ref, ctx.Add(ref, interval.Days(0)))
}

func TestAddScopedToIslamicCalendar(t *testing.T) {
	ctx := testContext("en_US")
	islamic := calendar.MustNew(calendar.IslamicCivil,
		calendar.WithTimeZone(time.UTC),
		calendar.WithLocale(locale.MustNew("en_US")),
	)
	muharram := time.Date(2018, 9, 12, 0, 0, 0, 0, time.UTC)

	got, err := ctx.TryAdd(muharram, interval.Months(1).In(islamic))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 10, 12, 0, 0, 0, 0, time.UTC), got)

	back, err := ctx.TrySubtract(got, interval.Months(1).In(islamic))
	require.NoError(t, err)
	assert.Equal(t, muharram, back)
}

func TestFailureKeepsOriginal(t *testing.T) {
	ctx := testContext("en_US")
	ref := time.Date(2021, 1, 31, 8, 0, 0, 0, time.UTC)

	_, err := ctx.TryAdd(ref, interval.Years(1<<40))
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)
	assert.Equal(t, ref, ctx.Add(ref, interval.Years(1<<40)))
	assert.Equal(t, ref, ctx.Subtract(ref, interval.Days(1<<40)))
}

func TestZeroContextUsesDevice(t *testing.T) {
	var ctx Context
	now := time.Now()
	assert.True(t, ctx.IsToday(now))
	assert.True(t, IsToday(now))
	assert.True(t, IsPast(now.Add(-time.Minute)))
	assert.True(t, IsFuture(now.Add(time.Hour)))
	assert.Equal(t, StartOfDay(now), Current().StartOfDay(now))
}

func TestDerivationProperties(t *testing.T) {
	ctx := testContext("en_US")
	start := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 500; i++ {
		d := start.Add(time.Duration(i) * 7 * time.Hour).Add(time.Duration(i*131) * time.Second)

		sod, eod := ctx.StartOfDay(d), ctx.EndOfDay(d)
		assert.False(t, d.Before(sod), d)
		assert.False(t, d.After(eod), d)
		assert.Equal(t, 86399*time.Second, eod.Sub(sod), d)

		som, eom := ctx.StartOfMonth(d), ctx.EndOfMonth(d)
		assert.False(t, d.Before(som), d)
		assert.False(t, d.After(eom), d)
		assert.Equal(t, d.Month(), som.Month(), d)
		assert.Equal(t, d.Month(), eom.Month(), d)

		assert.Equal(t, d, ctx.Yesterday(ctx.Tomorrow(d)), d)
		assert.Equal(t, d, ctx.Tomorrow(ctx.Yesterday(d)), d)

		assert.Equal(t, d, ctx.Add(d, interval.Seconds(0)))
		assert.Equal(t, d, ctx.Subtract(d, interval.Seconds(0)))

		a, b := d.Add(-time.Duration(i)*time.Minute), d.Add(time.Duration(i%7)*time.Hour)
		assert.Equal(t, IsBetween(d, a, b), IsBetween(d, b, a))
	}
}

func TestDecimalFromString(t *testing.T) {
	ctx := testContext("en_US")
	d := format.MustFromString("2012/10/23 18:15", format.WithTimeZone(time.UTC))
	assert.InDelta(t, 18.25, ctx.TimeToDecimal(d), 1e-9)

	_, ok := format.Parse("", "yyyy/MM/dd")
	assert.False(t, ok)
}
