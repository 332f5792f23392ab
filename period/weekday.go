package period

import "time"

// Weekday is the internal day-of-week numbering, Monday=1 through Sunday=7.
// It is deliberately distinct from time.Weekday, which starts on Sunday=0.
type Weekday uint

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// weekdayInfo is one row of the weekday table.
type weekdayInfo struct {
	native       time.Weekday
	strID        string // RFC 5545 BYDAY token
	abbreviation string
	label        string
}

// weekdayTable maps internal ids to their native weekday and names. It is
// indexed by Weekday-1 and is the only place where weekday numbering lives.
var weekdayTable = [7]weekdayInfo{
	{time.Monday, "MO", "Mon", "Monday"},
	{time.Tuesday, "TU", "Tue", "Tuesday"},
	{time.Wednesday, "WE", "Wed", "Wednesday"},
	{time.Thursday, "TH", "Thu", "Thursday"},
	{time.Friday, "FR", "Fri", "Friday"},
	{time.Saturday, "SA", "Sat", "Saturday"},
	{time.Sunday, "SU", "Sun", "Sunday"},
}

// Valid reports whether w is within 1..7.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// Native converts w to the time package's weekday. Invalid values map to
// Monday.
func (w Weekday) Native() time.Weekday {
	if !w.Valid() {
		return time.Monday
	}
	return weekdayTable[w-1].native
}

func (w Weekday) String() string {
	if !w.Valid() {
		return ""
	}
	return weekdayTable[w-1].label
}

// WeekdayOf converts a native weekday to the internal numbering.
func WeekdayOf(d time.Weekday) Weekday {
	for i, info := range weekdayTable {
		if info.native == d {
			return Weekday(i + 1)
		}
	}
	return 0
}

// weekdayFromStrID resolves an RFC 5545 day token (MO..SU).
func weekdayFromStrID(s string) (Weekday, bool) {
	for i, info := range weekdayTable {
		if info.strID == s {
			return Weekday(i + 1), true
		}
	}
	return 0, false
}
