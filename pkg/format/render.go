package format

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"datehelper/pkg/calendar"
)

// Format renders t with the formatter's pattern.
func (f *Formatter) Format(t time.Time) string {
	lt := t.In(f.loc)
	comp := f.cal.Components(lt)

	var b strings.Builder
	for _, tok := range f.tokens {
		if tok.isLiteral() {
			b.WriteString(tok.literal)
			continue
		}
		f.field(&b, tok, lt, comp)
	}
	return b.String()
}

func (f *Formatter) field(b *strings.Builder, tok token, lt time.Time, comp calendar.Components) {
	w := tok.width
	switch tok.field {
	case 'G':
		b.WriteString(f.names.era(comp.Year > 0, w))
	case 'y':
		y := eraYear(comp.Year)
		if w == 2 {
			pad(b, y%100, 2)
		} else {
			pad(b, y, w)
		}
	case 'Y':
		_, wy := f.cal.WeekOfYear(lt)
		if w == 2 {
			pad(b, eraYear(wy)%100, 2)
		} else {
			pad(b, eraYear(wy), w)
		}
	case 'M', 'L':
		if w <= 2 {
			pad(b, comp.Month, w)
		} else {
			b.WriteString(f.names.month(comp.Month, w))
		}
	case 'd':
		pad(b, comp.Day, w)
	case 'D':
		pad(b, f.cal.DayOfYear(lt), w)
	case 'w':
		wk, _ := f.cal.WeekOfYear(lt)
		pad(b, wk, w)
	case 'E':
		b.WriteString(f.names.weekday(comp.Weekday, w))
	case 'c', 'e':
		if w <= 2 {
			pad(b, f.localWeekday(comp.Weekday), w)
		} else {
			b.WriteString(f.names.weekday(comp.Weekday, w))
		}
	case 'a':
		if comp.Hour < 12 {
			b.WriteString(f.names.am)
		} else {
			b.WriteString(f.names.pm)
		}
	case 'h':
		h := comp.Hour % 12
		if h == 0 {
			h = 12
		}
		pad(b, h, w)
	case 'H':
		pad(b, comp.Hour, w)
	case 'k':
		h := comp.Hour
		if h == 0 {
			h = 24
		}
		pad(b, h, w)
	case 'K':
		pad(b, comp.Hour%12, w)
	case 'm':
		pad(b, comp.Minute, w)
	case 's':
		pad(b, comp.Second, w)
	case 'S':
		b.WriteString(fraction(comp.Nanosecond, w))
	case 'z':
		b.WriteString(zoneName(lt, w))
	case 'Z':
		_, off := lt.Zone()
		switch {
		case w == 4:
			b.WriteString(gmtOffset(off))
		case w == 5:
			b.WriteString(isoOffset(off, true, true))
		default:
			b.WriteString(isoOffset(off, false, false))
		}
	case 'X', 'x':
		_, off := lt.Zone()
		b.WriteString(isoOffsetWidth(off, w, tok.field == 'X'))
	}
}

// eraYear converts a proleptic year (0 is 1 BC) into a year of its era.
func eraYear(y int) int {
	if y <= 0 {
		return 1 - y
	}
	return y
}

// localWeekday numbers the weekday from the calendar's first day, 1-based.
func (f *Formatter) localWeekday(wd time.Weekday) int {
	return (int(wd)-int(f.cal.FirstWeekday())+7)%7 + 1
}

func pad(b *strings.Builder, n, width int) {
	if n < 0 {
		b.WriteByte('-')
		n = -n
	}
	s := strconv.Itoa(n)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

// fraction truncates nanoseconds to width digits, padding with zeros past
// nanosecond precision.
func fraction(ns, width int) string {
	s := strconv.Itoa(ns + 1_000_000_000)[1:]
	if width <= len(s) {
		return s[:width]
	}
	return s + strings.Repeat("0", width-len(s))
}

// zoneName renders the short zone name, or the GMT form when the zone has
// no alphabetic abbreviation. Width 4 is always the GMT form.
func zoneName(lt time.Time, width int) string {
	name, off := lt.Zone()
	if width >= 4 || !isAbbreviation(name) {
		return gmtOffset(off)
	}
	return name
}

func isAbbreviation(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// gmtOffset renders "GMT" or "GMT+05:30".
func gmtOffset(off int) string {
	if off == 0 {
		return "GMT"
	}
	return "GMT" + isoOffset(off, true, false)
}

// isoOffset renders "+0530" or, with colon, "+05:30". With zulu a zero
// offset is "Z".
func isoOffset(off int, colon, zulu bool) string {
	if off == 0 && zulu {
		return "Z"
	}
	var b strings.Builder
	sign := byte('+')
	if off < 0 {
		sign = '-'
		off = -off
	}
	b.WriteByte(sign)
	pad(&b, off/3600, 2)
	if colon {
		b.WriteByte(':')
	}
	pad(&b, off/60%60, 2)
	return b.String()
}

func isoOffsetWidth(off, width int, zulu bool) string {
	if off == 0 && zulu {
		return "Z"
	}
	switch width {
	case 1:
		s := isoOffset(off, false, false)
		if strings.HasSuffix(s, "00") {
			return s[:3]
		}
		return s
	case 3, 5:
		return isoOffset(off, true, false)
	default:
		return isoOffset(off, false, false)
	}
}
