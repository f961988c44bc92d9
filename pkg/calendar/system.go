package calendar

import "time"

const (
	secondsPerDay = 86400

	// maxYear bounds every year the engine will construct, in any system.
	maxYear = 100_000
	maxDays = maxYear * 800

	civilEpoch        int64 = -492148 // 1 Muharram 1 AH, Friday epoch, as days since 1970-01-01
	astronomicalEpoch int64 = -492149 // Thursday epoch
)

// system converts between a calendar's (year, month, day) and a day number
// counted from 1970-01-01. Every supported system has twelve months.
type system interface {
	toDays(year, month, day int) int64
	fromDays(days int64) (year, month, day int)
	daysInMonth(year, month int) int
}

type gregorian struct{}

func (gregorian) toDays(year, month, day int) int64 {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

func (gregorian) fromDays(days int64) (int, int, int) {
	y, m, d := time.Unix(days*secondsPerDay, 0).UTC().Date()
	return y, int(m), d
}

func (gregorian) daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// islamic is the arithmetical Islamic calendar: 30-year cycles with leap
// years 2, 5, 7, 10, 13, 16, 18, 21, 24, 26 and 29.
type islamic struct {
	epoch int64
}

func (s islamic) toDays(year, month, day int) int64 {
	y, m := int64(year), int64(month)
	return int64(day) +
		(59*(m-1)+1)/2 +
		(y-1)*354 +
		floorDiv(3+11*y, 30) +
		s.epoch - 1
}

func (s islamic) fromDays(days int64) (int, int, int) {
	y := floorDiv(30*(days-s.epoch)+10646, 10631)
	if days < s.toDays(int(y), 1, 1) {
		y--
	}
	m := 1
	for m < 12 && days >= s.toDays(int(y), m+1, 1) {
		m++
	}
	d := days - s.toDays(int(y), m, 1) + 1
	return int(y), m, int(d)
}

func (s islamic) daysInMonth(year, month int) int {
	if month == 12 && isIslamicLeap(year) {
		return 30
	}
	if month%2 == 1 {
		return 30
	}
	return 29
}

func isIslamicLeap(year int) bool {
	return floorMod(int64(14+11*year), 30) < 11
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
