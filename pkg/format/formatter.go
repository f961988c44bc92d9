// Package format converts between time.Time and text using Unicode date
// patterns ("yyyy/MM/dd HH:mm", "EEEE, MMMM d, y") or predefined styles.
//
// Fields are computed in the formatter's calendar, so an Islamic formatter
// renders Islamic years and month names. Month and weekday names follow the
// formatter's locale.
package format

import (
	"errors"
	"time"

	"datehelper/pkg/calendar"
	"datehelper/pkg/locale"
	"datehelper/pkg/zone"
)

var (
	ErrEmpty      = errors.New("format: empty input")
	ErrMismatch   = errors.New("format: input does not match pattern")
	ErrFieldRange = errors.New("format: field out of range")
)

// Formatter renders and parses one pattern. It is immutable and safe for
// concurrent use.
type Formatter struct {
	pattern string
	tokens  []token
	cal     *calendar.Calendar
	loc     *time.Location
	locale  locale.Locale
	names   *names
	now     func() time.Time
}

type options struct {
	loc       *time.Location
	cal       *calendar.Calendar
	locale    locale.Locale
	localeSet bool
	now       func() time.Time
}

// Option overrides a formatter default.
type Option func(*options)

// WithTimeZone sets the zone fields are computed in. The default is
// time.Local, also when a calendar with its own zone is given.
func WithTimeZone(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithCalendar sets the calendar system. The default is the device calendar.
func WithCalendar(cal *calendar.Calendar) Option {
	return func(o *options) {
		if cal != nil {
			o.cal = cal
		}
	}
}

// WithLocale sets the language of month, weekday and day period names.
func WithLocale(l locale.Locale) Option {
	return func(o *options) {
		o.locale = l
		o.localeSet = true
	}
}

// WithClock sets the clock used to resolve two-digit years.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func resolve(opts []Option) options {
	o := options{loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cal == nil {
		o.cal = calendar.Current()
	}
	if !o.localeSet {
		o.locale = locale.Current()
	}
	return o
}

// New returns a formatter for a Unicode date pattern. Letters that are not
// pattern fields are copied literally.
func New(pattern string, opts ...Option) *Formatter {
	o := resolve(opts)
	return build(pattern, o)
}

// NewStyled returns a formatter for a locale's predefined date and time
// styles. None omits that half.
func NewStyled(dateStyle, timeStyle Style, opts ...Option) *Formatter {
	o := resolve(opts)
	pattern := stylePattern(o.locale, dateStyle, timeStyle, o.cal.Identifier().IsIslamic())
	return build(pattern, o)
}

// NewISO8601 returns a formatter with fixed, device-independent settings:
// the ISO-8601 calendar, the POSIX locale and GMT.
func NewISO8601(pattern string) *Formatter {
	return New(pattern,
		WithCalendar(calendar.MustNew(calendar.ISO8601, calendar.WithLocale(locale.POSIX))),
		WithLocale(locale.POSIX),
		WithTimeZone(zone.POSIX),
	)
}

func build(pattern string, o options) *Formatter {
	return &Formatter{
		pattern: pattern,
		tokens:  compile(pattern),
		cal:     o.cal.In(o.loc),
		loc:     o.loc,
		locale:  o.locale,
		names:   namesFor(o.cal.Identifier().IsIslamic(), o.locale),
		now:     o.now,
	}
}

func (f *Formatter) Pattern() string {
	return f.pattern
}

func (f *Formatter) Location() *time.Location {
	return f.loc
}

func (f *Formatter) Calendar() *calendar.Calendar {
	return f.cal
}

func (f *Formatter) Locale() locale.Locale {
	return f.locale
}
