package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"datehelper/internal/model"
)

// DefaultProdID identifies the generator in exported calendars.
const DefaultProdID = "-//datehelper//datehelper//EN"

// Export serializes occurrences as a VCALENDAR with one VEVENT each. UIDs
// are made unique per instance so recurring occurrences do not collapse.
// stamp becomes every event's DTSTAMP.
func Export(occs []model.Occurrence, prodID string, stamp time.Time) string {
	if prodID == "" {
		prodID = DefaultProdID
	}
	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetMethod(ical.MethodPublish)

	for _, occ := range occs {
		ev := cal.AddEvent(instanceUID(occ))
		ev.SetDtStampTime(stamp.UTC())
		if occ.AllDay {
			ev.SetAllDayStartAt(occ.Start)
			ev.SetAllDayEndAt(occ.End)
		} else {
			ev.SetStartAt(occ.Start)
			ev.SetEndAt(occ.End)
		}
		if occ.Summary != "" {
			ev.SetSummary(occ.Summary)
		}
		if occ.Description != "" {
			ev.SetDescription(occ.Description)
		}
		if occ.Location != "" {
			ev.SetLocation(occ.Location)
		}
	}
	return cal.Serialize()
}

func instanceUID(occ model.Occurrence) string {
	uid := occ.UID
	if uid == "" {
		uid = "occurrence"
	}
	return uid + "-" + FormatValue(occ.Start, false)
}
