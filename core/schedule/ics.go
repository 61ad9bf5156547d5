package schedule

import (
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// BuildCalendar exports every scheduled session of a document as a VCALENDAR.
// Orphan sessions are deleted upstream and are left out; cancelled sessions
// are exported with a cancelled status so subscribers see the change.
func BuildCalendar(doc *Document, pagePath string) (*ics.Calendar, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//courseplan//course-schedule//EN")

	now := time.Now().UTC()
	for _, typ := range []string{TypePlenary, TypeGroup} {
		groups, err := BuildGroups(doc.ForType(typ), typ)
		if err != nil {
			return nil, err
		}
		for _, grp := range groups {
			for _, entry := range grp.Sessions {
				s := entry.Session
				if s.VrtxOrphan {
					continue
				}
				ev := cal.AddEvent(SessionID(grp.TeachingMethod, grp.ActivityID, s))
				ev.SetDtStampTime(now)
				ev.SetStartAt(entry.Times.Start.Instant())
				ev.SetEndAt(entry.Times.End.Instant())
				ev.SetSummary(grp.Caption() + ": " + s.DisplayTitle())
				if loc := plainPlace(s); loc != "" {
					ev.SetLocation(loc)
				}
				if pagePath != "" {
					ev.SetURL(pagePath)
				}
				if s.Cancelled() {
					ev.SetStatus(ics.ObjectStatusCancelled)
				}
			}
		}
	}
	return cal, nil
}

// plainPlace is the text-only room listing for calendar consumers.
func plainPlace(s *Session) string {
	parts := make([]string, 0, len(s.Rooms))
	for _, r := range s.Rooms {
		building := firstNonEmpty(r.BuildingAcronym, r.BuildingName, r.BuildingID)
		room := firstNonEmpty(r.RoomName, r.RoomID)
		switch {
		case building != "" && room != "":
			parts = append(parts, building+" "+room)
		case building != "":
			parts = append(parts, building)
		case room != "":
			parts = append(parts, room)
		}
	}
	return strings.Join(parts, ", ")
}
