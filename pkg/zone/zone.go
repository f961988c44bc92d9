// Package zone answers small questions about *time.Location values relative
// to the device zone.
package zone

import (
	"fmt"
	"strings"
	"time"
)

// POSIX is the zone used for normalizing fixed-format strings.
var POSIX = time.FixedZone("GMT", 0)

// Load resolves an IANA name. "GMT", "UTC", "Z" and "Local" are accepted as
// well, and an empty name means the device zone.
func Load(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "Local":
		return time.Local, nil
	case "GMT":
		return POSIX, nil
	case "UTC", "Z":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("zone: load %q: %w", name, err)
	}
	return loc, nil
}

// Offset returns loc's UTC offset in seconds at the given instant.
func Offset(loc *time.Location, at time.Time) int {
	_, off := at.In(loc).Zone()
	return off
}

// OffsetFrom returns the device offset minus loc's offset, in seconds, at the
// given instant. Positive means the device is ahead of loc.
func OffsetFrom(loc, device *time.Location, at time.Time) int {
	return Offset(device, at) - Offset(loc, at)
}

// IsCurrentAt reports whether loc has the same UTC offset as device at the
// given instant. Two distinct zones sharing an offset compare equal.
func IsCurrentAt(loc, device *time.Location, at time.Time) bool {
	return Offset(loc, at) == Offset(device, at)
}

// IsCurrent is IsCurrentAt against time.Local, now.
func IsCurrent(loc *time.Location) bool {
	return IsCurrentAt(loc, time.Local, time.Now())
}

// OffsetFromCurrent is OffsetFrom against time.Local, now.
//
//	loc, _ := zone.Load("Europe/Paris")
//	zone.OffsetFromCurrent(loc) // -3600 on a UTC device in winter
func OffsetFromCurrent(loc *time.Location) int {
	return OffsetFrom(loc, time.Local, time.Now())
}
