package ics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"datehelper/pkg/calendar"
	"datehelper/pkg/format"
	"datehelper/pkg/locale"
)

const (
	dateLayout = "yyyyMMdd"
	timeLayout = "yyyyMMdd'T'HHmmss"
)

var (
	utcValue  = format.NewISO8601("yyyyMMdd'T'HHmmss'Z'")
	gregorian = calendar.MustNew(calendar.Gregorian, calendar.WithLocale(locale.POSIX))
)

// ParseValue parses an iCalendar DATE ("20250101"), floating DATE-TIME
// ("20250101T090000") or UTC DATE-TIME ("20250101T090000Z"). Floating and
// date values are read in loc. The bool reports a DATE value.
func ParseValue(v string, loc *time.Location) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false, errors.New("empty time value")
	}
	if loc == nil {
		loc = time.Local
	}

	var (
		t      time.Time
		err    error
		allDay bool
	)
	switch {
	case strings.HasSuffix(v, "Z"):
		t, err = utcValue.Parse(v)
		t = t.UTC()
	case strings.Contains(v, "T"):
		t, err = localFormatter(timeLayout, loc).Parse(v)
	default:
		t, err = localFormatter(dateLayout, loc).Parse(v)
		allDay = true
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("ics: value %q: %w", v, err)
	}
	return t, allDay, nil
}

// FormatValue renders t as a UTC DATE-TIME, or as a DATE in t's zone when
// allDay is set.
func FormatValue(t time.Time, allDay bool) string {
	if allDay {
		return localFormatter(dateLayout, t.Location()).Format(t)
	}
	return utcValue.Format(t)
}

func localFormatter(pattern string, loc *time.Location) *format.Formatter {
	return format.New(pattern,
		format.WithTimeZone(loc),
		format.WithCalendar(gregorian),
		format.WithLocale(locale.POSIX),
	)
}
