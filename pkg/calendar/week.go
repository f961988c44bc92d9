package calendar

import (
	"slices"
	"time"
)

// Week data by region, after CLDR's weekData supplement. Regions not listed
// start on Monday and rest on Saturday and Sunday.
var (
	sundayFirst = setOf(
		"AG", "AS", "BD", "BR", "BS", "BT", "BW", "BZ", "CA", "CO", "DM", "DO",
		"ET", "GT", "GU", "HK", "HN", "ID", "IL", "IN", "JM", "JP", "KE", "KH",
		"KR", "LA", "MH", "MM", "MO", "MT", "MX", "MZ", "NI", "NP", "PA", "PE",
		"PH", "PK", "PR", "PT", "PY", "SA", "SG", "SV", "TH", "TT", "TW", "UM",
		"US", "VE", "VI", "WS", "YE", "ZA", "ZW",
	)
	saturdayFirst = setOf(
		"AE", "AF", "BH", "DJ", "DZ", "EG", "IQ", "IR", "JO", "KW", "LY", "OM",
		"QA", "SD", "SY",
	)
	fridayFirst = setOf("MV")

	fridaySaturdayWeekend = setOf(
		"BH", "DZ", "EG", "IL", "IQ", "JO", "KW", "LY", "OM", "QA", "SA", "SD",
		"SY", "YE",
	)
)

func setOf(regions ...string) map[string]bool {
	m := make(map[string]bool, len(regions))
	for _, r := range regions {
		m[r] = true
	}
	return m
}

func firstWeekdayFor(region string) time.Weekday {
	switch {
	case sundayFirst[region]:
		return time.Sunday
	case saturdayFirst[region]:
		return time.Saturday
	case fridayFirst[region]:
		return time.Friday
	default:
		return time.Monday
	}
}

func weekendFor(region string) []time.Weekday {
	switch {
	case fridaySaturdayWeekend[region]:
		return []time.Weekday{time.Friday, time.Saturday}
	case region == "AF":
		return []time.Weekday{time.Thursday, time.Friday}
	case region == "IR":
		return []time.Weekday{time.Friday}
	case region == "IN" || region == "UG":
		return []time.Weekday{time.Sunday}
	default:
		return []time.Weekday{time.Saturday, time.Sunday}
	}
}

// WeekendDays returns the weekend days of the calendar's locale region.
func (c *Calendar) WeekendDays() []time.Weekday {
	return weekendFor(c.locale.Region())
}

// IsDateInWeekend reports whether t falls on a weekend day of the calendar's
// locale region.
func (c *Calendar) IsDateInWeekend(t time.Time) bool {
	return slices.Contains(c.WeekendDays(), t.In(c.loc).Weekday())
}

// MonthLength returns the number of days in a month of the calendar. Month
// values outside 1...12 roll into neighbouring years.
func (c *Calendar) MonthLength(year, month int) int {
	total := int64(year)*12 + int64(month-1)
	y := floorDiv(total, 12)
	return c.sys.daysInMonth(int(y), int(total-y*12)+1)
}

// DayOfYear returns the 1-based ordinal of t's day in its calendar year.
func (c *Calendar) DayOfYear(t time.Time) int {
	n := dayNumber(t.In(c.loc))
	y, _, _ := c.sys.fromDays(n)
	return int(n-c.sys.toDays(y, 1, 1)) + 1
}

// WeekOfYear returns the week number of t and the year the week belongs to.
// Week 1 is the first week with at least MinimumDaysInFirstWeek days of the
// year, so early January can belong to the last week of the previous year.
func (c *Calendar) WeekOfYear(t time.Time) (week, year int) {
	n := dayNumber(t.In(c.loc))
	y, _, _ := c.sys.fromDays(n)
	for _, cand := range []int{y + 1, y, y - 1} {
		if start := c.firstWeekStart(cand); n >= start {
			return int((n-start)/7) + 1, cand
		}
	}
	return 1, y
}

func (c *Calendar) firstWeekStart(year int) int64 {
	jan1 := c.sys.toDays(year, 1, 1)
	back := (7 + int64(weekdayOf(jan1)) - int64(c.firstWeekday)) % 7
	start := jan1 - back
	if 7-back < int64(c.minDays) {
		start += 7
	}
	return start
}

func weekdayOf(days int64) time.Weekday {
	return time.Weekday(floorMod(days+4, 7))
}
