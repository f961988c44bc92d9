package format

import (
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/locales"
	"golang.org/x/text/language"

	appLog "datehelper/internal/log"
	"datehelper/pkg/calendar"
	"datehelper/pkg/locale"
)

// cldr is the data of one CLDR locale. Patterns are Gregorian; islamic
// swaps in Hijri month and era names.
type cldr struct {
	styles  stylePatterns
	names   names
	islamic names
}

var cldrMatcher = sync.OnceValue(func() language.Matcher {
	tags := make([]language.Tag, len(cldrLocales))
	for i, l := range cldrLocales {
		tags[i] = language.MustParse(l.tag)
	}
	return language.NewMatcher(tags)
})

var cldrCache sync.Map // index into cldrLocales -> *cldr

// cldrFor returns the data of the CLDR locale closest to l.
func cldrFor(l locale.Locale) *cldr {
	_, idx, conf := cldrMatcher().Match(l.Tag())
	if conf == language.No {
		idx = 0
	}
	if v, ok := cldrCache.Load(idx); ok {
		return v.(*cldr)
	}
	d := buildCLDR(cldrLocales[idx].tag, cldrLocales[idx].newTranslator())
	v, _ := cldrCache.LoadOrStore(idx, d)
	return v.(*cldr)
}

// The library renders fixed CLDR layouts, so patterns are recovered by
// rendering sample instants whose fields all print differently.
var (
	sampleZone = time.FixedZone("QZX", 0)
	// Sunday; in 12-hour locales late and early differ only by the period.
	sampleLate  = time.Date(1987, time.November, 22, 13, 44, 55, 0, sampleZone)
	sampleEarly = time.Date(1987, time.November, 22, 1, 44, 55, 0, sampleZone)
	// Single-digit fields reveal zero padding.
	samplePad = time.Date(2003, time.February, 5, 1, 4, 5, 0, sampleZone)

	sampleCalendar = calendar.MustNew(calendar.Gregorian,
		calendar.WithTimeZone(sampleZone), calendar.WithLocale(locale.POSIX))
)

func buildCLDR(tag string, tr locales.Translator) *cldr {
	am, pm := periods(tr)
	d := &cldr{names: cldrNames(tr, am, pm)}
	d.islamic = d.names
	d.islamic.months = islamicMonths
	d.islamic.monthsShort = islamicMonthsShort
	for m := 1; m <= 12; m++ {
		d.islamic.monthsNarrow[m] = prefix(islamicMonths[m], 1)
	}
	d.islamic.eras = islamicEras

	dates := [5]func(time.Time) string{nil, tr.FmtDateShort, tr.FmtDateMedium, tr.FmtDateLong, tr.FmtDateFull}
	times := [5]func(time.Time) string{nil, tr.FmtTimeShort, tr.FmtTimeMedium, tr.FmtTimeLong, tr.FmtTimeFull}
	zoneWidth := [5]int{0, 1, 1, 1, 4}

	d.styles.joinNear, d.styles.joinFar = " ", " "
	base, _ := language.MustParse(tag).Base()
	if j, ok := joins[base.String()]; ok {
		d.styles.joinNear, d.styles.joinFar = j[0], j[1]
	}

	for s := Short; s <= Full; s++ {
		p, ok := derivePattern(dates[s], dateSampleFields(tr), 0, &d.names)
		if !ok {
			appLog.Debug("format: no date pattern from CLDR", "locale", tag, "style", s)
			p = defaultStyles.date[s]
		}
		d.styles.date[s] = p

		p, ok = derivePattern(times[s], timeSampleFields(am, pm), zoneWidth[s], &d.names)
		if !ok {
			appLog.Debug("format: no time pattern from CLDR", "locale", tag, "style", s)
			p = defaultStyles.time[s]
		}
		d.styles.time[s] = p
	}
	return d
}

// periods extracts the AM and PM markers by diffing a morning and an
// afternoon rendering. Both are empty for 24-hour locales.
func periods(tr locales.Translator) (string, string) {
	a, p := []rune(tr.FmtTimeShort(sampleEarly)), []rune(tr.FmtTimeShort(sampleLate))
	i := 0
	for i < len(a) && i < len(p) && a[i] == p[i] {
		i++
	}
	ea, ep := len(a), len(p)
	for ea > i && ep > i && a[ea-1] == p[ep-1] {
		ea--
		ep--
	}
	// Widen to the whole marker: "AM"/"PM" share the M, 午前/午後 the 午.
	for i > 0 && !unicode.IsDigit(a[i-1]) && !unicode.IsSpace(a[i-1]) {
		i--
	}
	for ea < len(a) && !unicode.IsDigit(a[ea]) {
		ea++
		ep++
	}
	am := strings.TrimSpace(string(a[i:ea]))
	pm := strings.TrimSpace(string(p[i:ep]))
	if am == "" || pm == "" || strings.ContainsFunc(am+pm, unicode.IsDigit) {
		return "", ""
	}
	return am, pm
}

func cldrNames(tr locales.Translator, am, pm string) names {
	n := names{am: "AM", pm: "PM", eras: gregorianEras}
	if am != "" {
		n.am, n.pm = am, pm
	}
	for m := time.January; m <= time.December; m++ {
		wide := tr.MonthWide(m)
		n.months[m] = wide
		n.monthsShort[m] = orElse(tr.MonthAbbreviated(m), wide)
		n.monthsNarrow[m] = orElse(tr.MonthNarrow(m), prefix(wide, 1))
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		wide := tr.WeekdayWide(wd)
		n.weekdays[wd] = wide
		n.weekdayAbbr[wd] = orElse(tr.WeekdayAbbreviated(wd), wide)
		n.weekdayShort[wd] = orElse(tr.WeekdayShort(wd), prefix(wide, 2))
		n.weekdayNarrow[wd] = orElse(tr.WeekdayNarrow(wd), prefix(wide, 1))
	}
	return n
}

func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// sampleField maps text seen in a sample rendering to a pattern field. A zero
// field is literal text.
type sampleField struct {
	text  string
	field byte
	width int
}

func dateSampleFields(tr locales.Translator) []sampleField {
	return []sampleField{
		{tr.WeekdayWide(time.Sunday), 'E', 4},
		{tr.WeekdayAbbreviated(time.Sunday), 'E', 3},
		{tr.MonthWide(time.November), 'M', 4},
		{tr.MonthAbbreviated(time.November), 'M', 3},
		{"1987", 'y', 1},
		{"87", 'y', 2},
		{"11", 'M', 2},
		{"22", 'd', 2},
	}
}

func timeSampleFields(am, pm string) []sampleField {
	fields := []sampleField{
		{"QZX", 'z', 1},
		{"13", 'H', 2},
		{"1", 'h', 1},
		{"01", 'h', 2},
		{"44", 'm', 2},
		{"55", 's', 2},
	}
	if pm != "" {
		fields = append(fields, sampleField{pm, 'a', 1})
	}
	return fields
}

// derivePattern recovers the pattern behind render. Field widths that the
// late sample cannot tell apart are settled by the padding sample.
func derivePattern(render func(time.Time) string, fields []sampleField, zoneWidth int, n *names) (string, bool) {
	toks, ok := tokenizeSample(render(sampleLate), fields)
	if !ok {
		return "", false
	}
	var flexible []int
	for i, t := range toks {
		if t.width == 2 && strings.IndexByte("MdHh", t.field) >= 0 {
			flexible = append(flexible, i)
		}
	}

	wantLate, wantPad := render(sampleLate), render(samplePad)
	for mask := 0; mask < 1<<len(flexible); mask++ {
		for bit, i := range flexible {
			toks[i].width = 2 - (mask>>bit)&1
		}
		check := &Formatter{tokens: compile(patternOf(toks, 1)), cal: sampleCalendar, loc: sampleZone, names: n, now: time.Now}
		if check.Format(sampleLate) == wantLate && check.Format(samplePad) == wantPad {
			return patternOf(toks, zoneWidth), true
		}
	}
	return "", false
}

// tokenizeSample splits a sample rendering into fields and literal runs.
// Every digit run must be a known field.
func tokenizeSample(s string, fields []sampleField) ([]sampleField, bool) {
	var toks []sampleField
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			toks = append(toks, sampleField{text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(s); {
		if isDigit(s[i]) {
			j := i
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			f, ok := findSampleField(fields, s[i:j], true)
			if !ok {
				return nil, false
			}
			flush()
			toks = append(toks, f)
			i = j
			continue
		}
		if f, ok := findSampleField(fields, s[i:], false); ok {
			flush()
			toks = append(toks, f)
			i += len(f.text)
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		lit.WriteRune(r)
		i += size
	}
	flush()
	return toks, true
}

// findSampleField matches a digit run exactly, or the longest name that
// prefixes s.
func findSampleField(fields []sampleField, s string, digits bool) (sampleField, bool) {
	var best sampleField
	found := false
	for _, f := range fields {
		if f.text == "" || isDigit(f.text[0]) != digits {
			continue
		}
		if digits {
			if f.text == s {
				return f, true
			}
			continue
		}
		if strings.HasPrefix(s, f.text) && len(f.text) > len(best.text) {
			best, found = f, true
		}
	}
	return best, found
}

func patternOf(toks []sampleField, zoneWidth int) string {
	var b strings.Builder
	for _, t := range toks {
		if t.field == 0 {
			b.WriteString(quoteLiteral(t.text))
			continue
		}
		w := t.width
		if t.field == 'z' {
			w = zoneWidth
		}
		b.WriteString(strings.Repeat(string(t.field), w))
	}
	return b.String()
}

// quoteLiteral protects ASCII letters and quotes in literal text.
func quoteLiteral(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool {
		return r == '\'' || (r < utf8.RuneSelf && unicode.IsLetter(r))
	}) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
