package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"datehelper/pkg/calendar"
)

// parsed collects field values read from the input; -1 means unset.
type parsed struct {
	era, year, weekYear, twoDigitYear int
	month, day, dayOfYear              int
	hour, minute, second, nanosecond   int
	hourField                          byte
	pm                                 int
	offset                             *int
}

func newParsed() parsed {
	return parsed{
		era: -1, year: -1, weekYear: -1, twoDigitYear: -1,
		month: -1, day: -1, dayOfYear: -1,
		hour: -1, minute: -1, second: -1, nanosecond: -1,
		pm: -1,
	}
}

// Parse reads s with the formatter's pattern. The whole input must match.
// Missing date fields default to 1970-01-01 in the formatter's calendar and
// missing time fields to zero.
func (f *Formatter) Parse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrEmpty
	}
	p := newParsed()
	rest := s
	for i, tok := range f.tokens {
		if tok.isLiteral() {
			if !strings.HasPrefix(rest, tok.literal) {
				return time.Time{}, fmt.Errorf("%w: expected %q at %q", ErrMismatch, tok.literal, rest)
			}
			rest = rest[len(tok.literal):]
			continue
		}
		width, err := f.fieldWidth(i, rest)
		if err != nil {
			return time.Time{}, err
		}
		rest, err = f.parseField(rest, tok, width, &p)
		if err != nil {
			return time.Time{}, err
		}
	}
	if rest != "" {
		return time.Time{}, fmt.Errorf("%w: trailing %q", ErrMismatch, rest)
	}
	return f.resolve(p)
}

// fieldWidth returns the exact digit count of numeric token i, or 0 when
// the field is free to read up to ten digits. In a run of abutting numeric
// fields every field but the first reads its pattern width and the first
// takes the digits left over, so "yMMdd" reads "20240110".
func (f *Formatter) fieldWidth(i int, s string) (int, error) {
	tok := f.tokens[i]
	if !tok.numeric() {
		return 0, nil
	}
	if i > 0 && f.tokens[i-1].numeric() {
		return tok.width, nil
	}
	fixed := 0
	for _, next := range f.tokens[i+1:] {
		if !next.numeric() {
			break
		}
		fixed += next.width
	}
	if fixed == 0 {
		return 0, nil
	}
	digits := 0
	for digits < len(s) && isDigit(s[digits]) {
		digits++
	}
	if digits-fixed < 1 {
		return 0, fmt.Errorf("%w: %d digits for abutting fields at %q", ErrMismatch, digits, s)
	}
	return digits - fixed, nil
}

func (f *Formatter) parseField(s string, tok token, width int, p *parsed) (string, error) {
	if tok.numeric() {
		limit := 10
		if width > 0 {
			limit = width
		}
		n, digits, rest, err := readNumber(s, limit)
		if err != nil {
			return s, fmt.Errorf("%w: field %q: %v", ErrMismatch, string(tok.field), err)
		}
		if width > 0 && digits != width {
			return s, fmt.Errorf("%w: field %q needs %d digits", ErrMismatch, string(tok.field), width)
		}
		switch tok.field {
		case 'y':
			if tok.width == 2 && digits == 2 {
				p.twoDigitYear = n
			} else {
				p.year = n
			}
		case 'Y':
			p.weekYear = n
		case 'M', 'L':
			p.month = n
		case 'd':
			p.day = n
		case 'D':
			p.dayOfYear = n
		case 'h', 'H', 'k', 'K':
			p.hour = n
			p.hourField = tok.field
		case 'm':
			p.minute = n
		case 's':
			p.second = n
		case 'S':
			p.nanosecond = scaleFraction(n, digits)
		case 'w', 'c', 'e':
			// Week numbers and numeric weekdays do not pin a date alone.
		}
		return rest, nil
	}

	switch tok.field {
	case 'G':
		n := f.names
		idx, rest, ok := matchName(s,
			[]string{n.eras.abbr[0], n.eras.wide[0], n.eras.narrow[0]},
			[]string{n.eras.abbr[1], n.eras.wide[1], n.eras.narrow[1]})
		if !ok {
			return s, fmt.Errorf("%w: era at %q", ErrMismatch, s)
		}
		p.era = idx
		return rest, nil
	case 'M', 'L':
		groups := make([][]string, 12)
		for m := 1; m <= 12; m++ {
			groups[m-1] = []string{f.names.months[m], f.names.monthsShort[m]}
		}
		idx, rest, ok := matchName(s, groups...)
		if !ok {
			return s, fmt.Errorf("%w: month name at %q", ErrMismatch, s)
		}
		p.month = idx + 1
		return rest, nil
	case 'E', 'c', 'e':
		groups := make([][]string, 7)
		for wd := 0; wd < 7; wd++ {
			groups[wd] = []string{f.names.weekdays[wd], f.names.weekdayAbbr[wd]}
		}
		if _, rest, ok := matchName(s, groups...); ok {
			return rest, nil
		}
		return s, fmt.Errorf("%w: weekday name at %q", ErrMismatch, s)
	case 'a':
		idx, rest, ok := matchName(s, []string{f.names.am}, []string{f.names.pm})
		if !ok {
			return s, fmt.Errorf("%w: day period at %q", ErrMismatch, s)
		}
		p.pm = idx
		return rest, nil
	case 'z', 'Z', 'X', 'x':
		off, rest, err := f.parseZone(s)
		if err != nil {
			return s, err
		}
		p.offset = &off
		return rest, nil
	}
	return s, fmt.Errorf("%w: unsupported field %q", ErrMismatch, string(tok.field))
}

func (f *Formatter) resolve(p parsed) (time.Time, error) {
	epoch := f.cal.In(time.UTC).Components(time.Unix(0, 0))
	comp := calendar.Components{Year: epoch.Year, Month: epoch.Month, Day: epoch.Day}

	switch {
	case p.year >= 0:
		comp.Year = p.year
	case p.twoDigitYear >= 0:
		comp.Year = f.pivotYear(p.twoDigitYear)
	case p.weekYear >= 0:
		comp.Year = p.weekYear
	}
	if p.era == 0 {
		comp.Year = 1 - comp.Year
	}

	if p.dayOfYear >= 0 && p.month < 0 && p.day < 0 {
		last := 0
		for m := 1; m <= 12; m++ {
			last += f.cal.MonthLength(comp.Year, m)
		}
		if p.dayOfYear < 1 || p.dayOfYear > last {
			return time.Time{}, fmt.Errorf("%w: day of year %d", ErrFieldRange, p.dayOfYear)
		}
		comp.Month, comp.Day = 1, p.dayOfYear
	} else {
		if p.month >= 0 {
			comp.Month = p.month
			comp.Day = 1
		}
		if p.day >= 0 {
			comp.Day = p.day
		}
		if comp.Month < 1 || comp.Month > 12 {
			return time.Time{}, fmt.Errorf("%w: month %d", ErrFieldRange, comp.Month)
		}
		if n := f.cal.MonthLength(comp.Year, comp.Month); comp.Day < 1 || comp.Day > n {
			return time.Time{}, fmt.Errorf("%w: day %d", ErrFieldRange, comp.Day)
		}
	}

	hour, err := resolveHour(p)
	if err != nil {
		return time.Time{}, err
	}
	comp.Hour = hour
	if p.minute > 59 {
		return time.Time{}, fmt.Errorf("%w: minute %d", ErrFieldRange, p.minute)
	}
	if p.second > 59 {
		return time.Time{}, fmt.Errorf("%w: second %d", ErrFieldRange, p.second)
	}
	comp.Minute = max(p.minute, 0)
	comp.Second = max(p.second, 0)
	comp.Nanosecond = max(p.nanosecond, 0)

	cal := f.cal
	if p.offset != nil {
		cal = cal.In(time.FixedZone("", *p.offset))
	}
	t, err := cal.Date(comp)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrFieldRange, err)
	}
	return t.In(f.loc), nil
}

func resolveHour(p parsed) (int, error) {
	if p.hour < 0 {
		if p.pm == 1 {
			return 12, nil
		}
		return 0, nil
	}
	h := p.hour
	switch p.hourField {
	case 'H':
		if h > 23 {
			return 0, fmt.Errorf("%w: hour %d", ErrFieldRange, h)
		}
	case 'k':
		if h < 1 || h > 24 {
			return 0, fmt.Errorf("%w: hour %d", ErrFieldRange, h)
		}
		h %= 24
	case 'h':
		if h < 1 || h > 12 {
			return 0, fmt.Errorf("%w: hour %d", ErrFieldRange, h)
		}
		h %= 12
		if p.pm == 1 {
			h += 12
		}
	case 'K':
		if h > 11 {
			return 0, fmt.Errorf("%w: hour %d", ErrFieldRange, h)
		}
		if p.pm == 1 {
			h += 12
		}
	}
	return h, nil
}

// pivotYear places a two-digit year within 80 years before and 20 years
// after the current calendar year.
func (f *Formatter) pivotYear(yy int) int {
	ref := f.cal.Components(f.now()).Year
	y := ref - floorMod(ref, 100) + yy
	switch {
	case y > ref+20:
		y -= 100
	case y <= ref-80:
		y += 100
	}
	return y
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func readNumber(s string, limit int) (n, digits int, rest string, err error) {
	for digits < len(s) && digits < limit && s[digits] >= '0' && s[digits] <= '9' {
		n = n*10 + int(s[digits]-'0')
		digits++
	}
	if digits == 0 {
		return 0, 0, s, fmt.Errorf("no digits at %q", s)
	}
	return n, digits, s[digits:], nil
}

func scaleFraction(n, digits int) int {
	for ; digits < 9; digits++ {
		n *= 10
	}
	for ; digits > 9; digits-- {
		n /= 10
	}
	return n
}

// matchName finds the longest case-insensitive prefix of s among the
// candidate groups and returns the index of the matching group.
func matchName(s string, groups ...[]string) (int, string, bool) {
	best, bestLen := -1, 0
	for i, group := range groups {
		for _, cand := range group {
			if cand == "" || len(cand) <= bestLen || len(cand) > len(s) {
				continue
			}
			if strings.EqualFold(s[:len(cand)], cand) {
				best, bestLen = i, len(cand)
			}
		}
	}
	if best < 0 {
		return 0, s, false
	}
	return best, s[bestLen:], true
}

// parseZone reads "Z", "GMT", "UTC", "GMT+5", "GMT+05:30", "+0530", "+05:30",
// "+05" or the abbreviation of the formatter's zone.
func (f *Formatter) parseZone(s string) (int, string, error) {
	switch {
	case strings.HasPrefix(s, "Z"):
		return 0, s[1:], nil
	case strings.HasPrefix(s, "GMT"), strings.HasPrefix(s, "UTC"):
		rest := s[3:]
		if rest == "" || (rest[0] != '+' && rest[0] != '-') {
			return 0, rest, nil
		}
		return parseOffset(rest)
	case strings.HasPrefix(s, "+"), strings.HasPrefix(s, "-"):
		return parseOffset(s)
	}

	end := 0
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if !isAbbreviation(string(r)) {
			break
		}
		end += size
	}
	abbr := s[:end]
	if abbr != "" {
		year := f.now().In(f.loc).Year()
		for _, at := range []time.Time{
			time.Date(year, 1, 1, 0, 0, 0, 0, f.loc),
			time.Date(year, 7, 1, 0, 0, 0, 0, f.loc),
		} {
			if name, off := at.Zone(); name == abbr {
				return off, s[end:], nil
			}
		}
	}
	return 0, s, fmt.Errorf("%w: zone at %q", ErrMismatch, s)
}

func parseOffset(s string) (int, string, error) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	h, hd, rest, err := readNumber(s[1:], 2)
	if err != nil {
		return 0, s, fmt.Errorf("%w: zone offset at %q", ErrMismatch, s)
	}
	m := 0
	if strings.HasPrefix(rest, ":") {
		var md int
		m, md, rest, err = readNumber(rest[1:], 2)
		if err != nil || md != 2 {
			return 0, s, fmt.Errorf("%w: zone offset at %q", ErrMismatch, s)
		}
	} else if hd == 2 && len(rest) >= 2 && isDigit(rest[0]) && isDigit(rest[1]) {
		m, _, rest, _ = readNumber(rest, 2)
	}
	if h > 23 || m > 59 {
		return 0, s, fmt.Errorf("%w: zone offset %q", ErrFieldRange, s)
	}
	return sign * (h*3600 + m*60), rest, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
