package schedule

import (
	"fmt"
	"regexp"
	"time"

	"github.com/pkg/errors"

	"github.com/campusweb/courseplan/core/locale"
)

// Session timestamps always carry an explicit numeric UTC offset and
// millisecond precision; anything else is rejected outright (the CMS is a
// trusted internal service, so bad data fails fast).
var dateTimeRegex = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})\.(\d{3})([+-])(\d{2}):(\d{2})$`)

// DateTime holds the structured fields of one parsed session timestamp.
type DateTime struct {
	Year  int
	Month int
	Date  int
	HH    int
	MM    int
	SS    int

	TzHH   int
	TzMM   int
	TzPlus bool
}

// SessionTimes is the normalized start/end pair, computed once per session
// and memoized during grouping/sorting.
type SessionTimes struct {
	Start DateTime
	End   DateTime
}

// ParseDateTime parses a single ISO-8601-with-offset string.
func ParseDateTime(s string) (DateTime, error) {
	m := dateTimeRegex.FindStringSubmatch(s)
	if m == nil {
		return DateTime{}, errors.Errorf("schedule: malformed timestamp %q", s)
	}
	return DateTime{
		Year:   atoi(m[1]),
		Month:  atoi(m[2]),
		Date:   atoi(m[3]),
		HH:     atoi(m[4]),
		MM:     atoi(m[5]),
		SS:     atoi(m[6]),
		TzHH:   atoi(m[9]),
		TzMM:   atoi(m[10]),
		TzPlus: m[8] == "+",
	}, nil
}

// GetDateTime parses a session's start and end timestamps.
func GetDateTime(dtStart, dtEnd string) (SessionTimes, error) {
	start, err := ParseDateTime(dtStart)
	if err != nil {
		return SessionTimes{}, err
	}
	end, err := ParseDateTime(dtEnd)
	if err != nil {
		return SessionTimes{}, err
	}
	return SessionTimes{Start: start, End: end}, nil
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// offsetMinutes is the declared UTC offset in minutes east.
func (dt DateTime) offsetMinutes() int {
	m := dt.TzHH*60 + dt.TzMM
	if !dt.TzPlus {
		return -m
	}
	return m
}

// Instant is the exact point in time the timestamp denotes.
func (dt DateTime) Instant() time.Time {
	zone := time.FixedZone("", dt.offsetMinutes()*60)
	return time.Date(dt.Year, time.Month(dt.Month), dt.Date, dt.HH, dt.MM, dt.SS, 0, zone)
}

// Reconciled converts the instant into the display location and, when the
// display offset differs from the declared one, shifts it back by the signed
// minute difference so the wall-clock fields match the CMS server's clock.
// A one-minute error here can roll the date across midnight, so the shift is
// exact to the minute.
func (dt DateTime) Reconciled(loc *time.Location) time.Time {
	local := dt.Instant().In(loc)
	_, clientSec := local.Zone()
	diff := dt.offsetMinutes() - clientSec/60
	if diff != 0 {
		local = local.Add(time.Duration(diff) * time.Minute)
	}
	return local
}

// DateFormatted renders the start date as "18.08.14".
func (st SessionTimes) DateFormatted() string {
	return fmt.Sprintf("%02d.%02d.%02d", st.Start.Date, st.Start.Month, st.Start.Year%100)
}

// TimeFormatted renders the time range as "12:15–14:00" (en-dash).
func (st SessionTimes) TimeFormatted() string {
	return fmt.Sprintf("%02d:%02d–%02d:%02d", st.Start.HH, st.Start.MM, st.End.HH, st.End.MM)
}

// DayFormatted renders the day-of-week name of the session's end time in the
// CMS server's wall clock, via the locale table's d0..d6 keys (Sunday = 0).
func (st SessionTimes) DayFormatted(loc *time.Location, tbl locale.Table) string {
	day := st.End.Reconciled(loc).Weekday()
	return tbl.Days[fmt.Sprintf("d%d", int(day))]
}

// MonthFormatted renders the start month's name via the m01..m12 keys.
func (st SessionTimes) MonthFormatted(tbl locale.Table) string {
	return tbl.Months[fmt.Sprintf("m%02d", st.Start.Month)]
}

// SortKey is the fixed-width "YYYYMMDDHHmmHHmm" composite (start date+time,
// end time). Plain string comparison is a valid datetime comparison here
// because every field is zero-padded.
func (st SessionTimes) SortKey() string {
	return fmt.Sprintf("%04d%02d%02d%02d%02d%02d%02d",
		st.Start.Year, st.Start.Month, st.Start.Date, st.Start.HH, st.Start.MM,
		st.End.HH, st.End.MM)
}

// EndedBy reports whether the session's end instant is at or before now.
func (st SessionTimes) EndedBy(now time.Time) bool {
	return !st.End.Instant().After(now)
}
