package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	appLog "datehelper/internal/log"
)

// DefaultPattern is the layout used by FromString.
const DefaultPattern = "yyyy/MM/dd HH:mm"

// Parse converts s with a one-shot formatter. Empty or unparseable input
// reports false and never a partial date.
func Parse(s, pattern string, opts ...Option) (time.Time, bool) {
	t, err := New(pattern, opts...).Parse(s)
	if err != nil {
		appLog.Debug("format: parse failed", "input", s, "pattern", pattern, "err", err)
		return time.Time{}, false
	}
	return t, true
}

// FromString parses s with DefaultPattern.
//
//	t, ok := format.FromString("2016/03/22 09:40")
func FromString(s string, opts ...Option) (time.Time, bool) {
	return Parse(s, DefaultPattern, opts...)
}

// MustFromString is FromString panicking on failure, for fixed inputs.
func MustFromString(s string, opts ...Option) time.Time {
	t, ok := FromString(s, opts...)
	if !ok {
		panic("format: cannot parse " + s)
	}
	return t
}

// String renders t with an explicit pattern.
func String(t time.Time, pattern string, opts ...Option) string {
	return New(pattern, opts...).Format(t)
}

// Styled renders t with a locale's date and time styles.
func Styled(t time.Time, dateStyle, timeStyle Style, opts ...Option) string {
	return NewStyled(dateStyle, timeStyle, opts...).Format(t)
}

// ShortString renders the date part of t as yyyy-MM-dd.
func ShortString(t time.Time, opts ...Option) string {
	return String(t, "yyyy-MM-dd", opts...)
}

// Timer renders the time from "from" to t as HH:MM:SS. The prefix is
// prepended only when t is before from, i.e. for a countdown. Digits follow
// the default numbering system of the locale's language, so "ar" and
// "ar_SA" both get Arabic-Indic digits.
//
//	format.Timer(t0.Add(5*time.Minute), t0, "+") // "00:05:00"
//	format.Timer(t0, t0.Add(5*time.Minute), "+") // "+00:05:00"
func Timer(t, from time.Time, prefix string, opts ...Option) string {
	seconds := int(t.Sub(from) / time.Second)
	if seconds >= 0 {
		prefix = ""
	}
	hr := abs(seconds / 3600)
	mins := abs(seconds / 60 % 60)
	sec := abs(seconds % 60)

	p := message.NewPrinter(numberingTag(resolve(opts).locale.Tag()))
	return p.Sprintf("%s%v:%v:%v", prefix, twoDigits(hr), twoDigits(mins), twoDigits(sec))
}

// numberingTag drops the region so every variant of a language prints the
// same digits.
func numberingTag(tag language.Tag) language.Tag {
	if base, conf := tag.Base(); conf == language.Exact {
		return language.Make(base.String())
	}
	return tag
}

func twoDigits(n int) number.Formatter {
	return number.Decimal(n, number.MinIntegerDigits(2), number.NoSeparator())
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
