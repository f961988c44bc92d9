// Package calendar is the calendar engine behind the date helpers: it maps
// instants to calendar fields in a time zone and back, adds calendar units,
// compares dates at a granularity and classifies weekends.
//
// Gregorian and ISO 8601 calendars delegate to the time package. The
// Islamic arithmetical calendars use the tabular 30-year cycle.
package calendar

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"datehelper/pkg/locale"
)

// Identifier names a calendar system.
type Identifier string

const (
	Gregorian Identifier = "gregorian"
	ISO8601   Identifier = "iso8601"
	// IslamicCivil is the tabular Islamic calendar with the Friday
	// (civil) epoch, 16 July 622.
	IslamicCivil Identifier = "islamic-civil"
	// IslamicTabular is the tabular Islamic calendar with the Thursday
	// (astronomical) epoch, 15 July 622.
	IslamicTabular Identifier = "islamic-tbla"
)

// Identifiers lists every supported calendar system.
var Identifiers = []Identifier{Gregorian, ISO8601, IslamicCivil, IslamicTabular}

// IsIslamic reports whether the identifier names one of the Islamic calendars.
func (id Identifier) IsIslamic() bool {
	return id == IslamicCivil || id == IslamicTabular
}

var (
	ErrUnknownIdentifier = errors.New("calendar: unknown identifier")
	ErrOutOfRange        = errors.New("calendar: date out of range")
)

// Calendar is an immutable calendar reference: a calendar system bound to a
// time zone and a locale.
type Calendar struct {
	id           Identifier
	sys          system
	loc          *time.Location
	locale       locale.Locale
	firstWeekday time.Weekday
	minDays      int

	firstWeekdaySet bool
	localeSet       bool
}

// Option overrides a default of New.
type Option func(*Calendar)

// WithTimeZone sets the calendar's zone. A nil location keeps the default.
func WithTimeZone(loc *time.Location) Option {
	return func(c *Calendar) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithLocale sets the calendar's locale, which drives the first weekday and
// the weekend rule.
func WithLocale(l locale.Locale) Option {
	return func(c *Calendar) {
		c.locale = l
		c.localeSet = true
	}
}

// WithFirstWeekday overrides the locale's first day of the week.
func WithFirstWeekday(wd time.Weekday) Option {
	return func(c *Calendar) {
		c.firstWeekday = wd
		c.firstWeekdaySet = true
	}
}

// New builds a calendar. Without options the zone is time.Local and the
// locale is the device locale.
func New(id Identifier, opts ...Option) (*Calendar, error) {
	c := &Calendar{id: id, loc: time.Local}
	switch id {
	case Gregorian, ISO8601:
		c.sys = gregorian{}
	case IslamicCivil:
		c.sys = islamic{epoch: civilEpoch}
	case IslamicTabular:
		c.sys = islamic{epoch: astronomicalEpoch}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIdentifier, id)
	}

	for _, opt := range opts {
		opt(c)
	}
	if !c.localeSet {
		c.locale = locale.Current()
	}

	c.minDays = 1
	if id == ISO8601 {
		c.minDays = 4
		if !c.firstWeekdaySet {
			c.firstWeekday = time.Monday
		}
	} else if !c.firstWeekdaySet {
		c.firstWeekday = firstWeekdayFor(c.locale.Region())
	}
	return c, nil
}

// MustNew is like New but panics on an unknown identifier.
func MustNew(id Identifier, opts ...Option) *Calendar {
	c, err := New(id, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Current returns the device calendar: Gregorian in time.Local with the
// device locale. It is rebuilt on every call so setting changes are seen.
func Current() *Calendar {
	return MustNew(Gregorian)
}

var islamicOnce = sync.OnceValue(func() *Calendar {
	return MustNew(IslamicCivil)
})

// Islamic returns the process-wide Islamic calendar, created on first use.
func Islamic() *Calendar {
	return islamicOnce()
}

func (c *Calendar) Identifier() Identifier {
	return c.id
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

func (c *Calendar) Locale() locale.Locale {
	return c.locale
}

func (c *Calendar) FirstWeekday() time.Weekday {
	return c.firstWeekday
}

func (c *Calendar) MinimumDaysInFirstWeek() int {
	return c.minDays
}

// In returns a copy of the calendar bound to loc.
func (c *Calendar) In(loc *time.Location) *Calendar {
	if loc == nil || loc == c.loc {
		return c
	}
	cp := *c
	cp.loc = loc
	return &cp
}

func (c *Calendar) String() string {
	return fmt.Sprintf("%s(%s, %s)", c.id, c.loc, c.locale)
}
