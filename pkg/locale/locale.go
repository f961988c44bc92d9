// Package locale wraps a BCP 47 language tag with the small set of facts the
// date helpers need: the language code, its display name, its writing
// direction and the region used for week rules.
package locale

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Direction is the character direction of a language.
type Direction int

const (
	Unknown Direction = iota
	LeftToRight
	RightToLeft
	TopToBottom
	BottomToTop
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "left-to-right"
	case RightToLeft:
		return "right-to-left"
	case TopToBottom:
		return "top-to-bottom"
	case BottomToTop:
		return "bottom-to-top"
	default:
		return "unknown"
	}
}

var ErrInvalid = errors.New("locale: invalid identifier")

// Locale is an immutable locale handle. The zero value has no language code.
type Locale struct {
	id  string
	tag language.Tag
}

// POSIX is the locale used for normalizing fixed-format strings.
var POSIX = Locale{id: "en_US_POSIX", tag: language.AmericanEnglish}

// New parses identifiers such as "fr_FR", "ar-SA", "en_US.UTF-8" or
// "en_US_POSIX".
func New(id string) (Locale, error) {
	norm := normalize(id)
	if norm == "" {
		return Locale{}, fmt.Errorf("%w: %q", ErrInvalid, id)
	}
	if strings.EqualFold(norm, "en-US-POSIX") || norm == "C" || norm == "POSIX" {
		return POSIX, nil
	}
	tag, err := language.Parse(norm)
	if err != nil {
		return Locale{}, fmt.Errorf("%w: %q: %v", ErrInvalid, id, err)
	}
	return Locale{id: strings.ReplaceAll(norm, "-", "_"), tag: tag}, nil
}

// MustNew is like New but panics on an invalid identifier.
func MustNew(id string) Locale {
	l, err := New(id)
	if err != nil {
		panic(err)
	}
	return l
}

// FromTag wraps an already parsed language tag.
func FromTag(tag language.Tag) Locale {
	return Locale{id: strings.ReplaceAll(tag.String(), "-", "_"), tag: tag}
}

// Current returns the device locale from LC_ALL, LC_TIME or LANG, read on
// every call. It falls back to en_US when none is set or parseable.
func Current() Locale {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		if l, err := New(v); err == nil {
			return l
		}
	}
	return FromTag(language.AmericanEnglish)
}

func normalize(id string) string {
	id = strings.TrimSpace(id)
	// drop encoding and modifier: en_US.UTF-8@euro
	if i := strings.IndexAny(id, ".@"); i >= 0 {
		id = id[:i]
	}
	return strings.ReplaceAll(id, "_", "-")
}

func (l Locale) Identifier() string {
	return l.id
}

func (l Locale) Tag() language.Tag {
	return l.tag
}

func (l Locale) String() string {
	return l.id
}

// LanguageCode returns the explicitly specified language subtag. Inferred
// languages (e.g. for "und") do not count.
func (l Locale) LanguageCode() (string, bool) {
	base, conf := l.tag.Base()
	if conf != language.Exact {
		return "", false
	}
	return base.String(), true
}

// LanguageName returns the name of the locale's language written in that
// language, e.g. "français" for fr_FR.
func (l Locale) LanguageName() (string, bool) {
	code, ok := l.LanguageCode()
	if !ok {
		return "", false
	}
	name := display.Self.Name(language.Make(code))
	if name == "" {
		return "", false
	}
	return name, true
}

// CharacterDirection derives the writing direction from the script of the
// locale's language.
func (l Locale) CharacterDirection() Direction {
	if _, ok := l.LanguageCode(); !ok {
		return Unknown
	}
	script, _ := l.tag.Script()
	switch {
	case rtlScripts[script.String()]:
		return RightToLeft
	case ttbScripts[script.String()]:
		return TopToBottom
	default:
		return LeftToRight
	}
}

// Region returns the locale's region, inferring the most likely one when
// none is given ("en" -> US).
func (l Locale) Region() string {
	region, conf := l.tag.Region()
	if conf == language.No {
		return ""
	}
	return region.String()
}

var rtlScripts = map[string]bool{
	"Arab": true,
	"Hebr": true,
	"Thaa": true,
	"Syrc": true,
	"Nkoo": true,
	"Adlm": true,
	"Mand": true,
	"Samr": true,
	"Rohg": true,
}

var ttbScripts = map[string]bool{
	"Mong": true,
}
