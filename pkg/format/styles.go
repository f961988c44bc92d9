package format

import "datehelper/pkg/locale"

// Style is a predefined, locale-dependent date or time layout.
type Style int

const (
	None Style = iota
	Short
	Medium
	Long
	Full
)

func (s Style) String() string {
	switch s {
	case Short:
		return "short"
	case Medium:
		return "medium"
	case Long:
		return "long"
	case Full:
		return "full"
	default:
		return "none"
	}
}

// ParseStyle maps "short", "medium", "long" and "full" to a Style; anything
// else is None.
func ParseStyle(s string) Style {
	switch s {
	case "short":
		return Short
	case "medium":
		return Medium
	case "long":
		return Long
	case "full":
		return Full
	default:
		return None
	}
}

// stylePatterns are indexed by Style: [None, Short, Medium, Long, Full].
type stylePatterns struct {
	date     [5]string
	time     [5]string
	joinNear string // short and medium dates
	joinFar  string // long and full dates
}

// defaultStyles stand in for any style the locale data cannot supply.
var defaultStyles = stylePatterns{
	date:     [5]string{"", "M/d/yy", "MMM d, y", "MMMM d, y", "EEEE, MMMM d, y"},
	time:     [5]string{"", "h:mm a", "h:mm:ss a", "h:mm:ss a z", "h:mm:ss a zzzz"},
	joinNear: ", ",
	joinFar:  " 'at' ",
}

// joins glue a date to a time, for short and medium dates then long and
// full ones. CLDR's dateTime patterns are not in the locale data, so
// languages missing here join with a space.
var joins = map[string][2]string{
	"en": {", ", " 'at' "},
	"de": {", ", " 'um' "},
	"es": {", ", ", "},
	"fr": {" ", " 'à' "},
	"it": {", ", " 'alle ore' "},
	"nl": {" ", " 'om' "},
	"pt": {" ", " 'às' "},
	"ru": {", ", " 'в' "},
	"ja": {" ", " "},
	"zh": {" ", " "},
	"ko": {" ", " "},
}

func stylesFor(l locale.Locale) stylePatterns {
	return cldrFor(l).styles
}

// stylePattern builds the pattern for a date/time style pair. Islamic
// calendars show the era after the date.
func stylePattern(l locale.Locale, dateStyle, timeStyle Style, islamic bool) string {
	s := stylesFor(l)
	datePart := s.date[clampStyle(dateStyle)]
	timePart := s.time[clampStyle(timeStyle)]
	if islamic && datePart != "" {
		datePart += " G"
	}
	switch {
	case datePart == "":
		return timePart
	case timePart == "":
		return datePart
	case dateStyle >= Long:
		return datePart + s.joinFar + timePart
	default:
		return datePart + s.joinNear + timePart
	}
}

func clampStyle(s Style) Style {
	if s < None || s > Full {
		return None
	}
	return s
}
