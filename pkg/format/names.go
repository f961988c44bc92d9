package format

import (
	"time"

	"datehelper/pkg/locale"
)

// names holds the localized text fields of one calendar/locale pair.
// Month slices are indexed from 1.
type names struct {
	months        [13]string
	monthsShort   [13]string
	monthsNarrow  [13]string
	weekdays      [7]string
	weekdayAbbr   [7]string
	weekdayShort  [7]string
	weekdayNarrow [7]string
	am, pm        string
	eras          eraNames
}

type eraNames struct {
	abbr, wide, narrow [2]string // [before epoch, after epoch]
}

var (
	gregorianEras = eraNames{
		abbr:   [2]string{"BC", "AD"},
		wide:   [2]string{"Before Christ", "Anno Domini"},
		narrow: [2]string{"B", "A"},
	}
	islamicEras = eraNames{
		abbr:   [2]string{"BH", "AH"},
		wide:   [2]string{"Before Hijra", "Anno Hegirae"},
		narrow: [2]string{"BH", "AH"},
	}

	islamicMonths = [13]string{"",
		"Muharram", "Safar", "Rabiʻ I", "Rabiʻ II", "Jumada I", "Jumada II",
		"Rajab", "Shaʻban", "Ramadan", "Shawwal", "Dhuʻl-Qiʻdah", "Dhuʻl-Hijjah",
	}
	islamicMonthsShort = [13]string{"",
		"Muh.", "Saf.", "Rab. I", "Rab. II", "Jum. I", "Jum. II",
		"Raj.", "Sha.", "Ram.", "Shaw.", "Dhuʻl-Q.", "Dhuʻl-H.",
	}
)

// namesFor returns the names of the CLDR locale closest to l.
func namesFor(islamic bool, l locale.Locale) *names {
	d := cldrFor(l)
	if islamic {
		return &d.islamic
	}
	return &d.names
}

func (n *names) month(m, width int) string {
	if m < 1 || m > 12 {
		return ""
	}
	switch width {
	case 3:
		return n.monthsShort[m]
	case 5:
		return n.monthsNarrow[m]
	default:
		return n.months[m]
	}
}

func (n *names) weekday(wd time.Weekday, width int) string {
	switch {
	case width <= 3:
		return n.weekdayAbbr[wd]
	case width == 5:
		return n.weekdayNarrow[wd]
	case width == 6:
		return n.weekdayShort[wd]
	default:
		return n.weekdays[wd]
	}
}

func (n *names) era(afterEpoch bool, width int) string {
	i := 0
	if afterEpoch {
		i = 1
	}
	switch {
	case width == 4:
		return n.eras.wide[i]
	case width == 5:
		return n.eras.narrow[i]
	default:
		return n.eras.abbr[i]
	}
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
