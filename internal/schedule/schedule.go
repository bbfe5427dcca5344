package schedule

import "time"

// Day is a day of the week, numbered the platform way: 0 = Sunday.
type Day int

const (
	Sunday Day = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayFromInt converts a 0-6 index to a Day. Anything outside that range
// falls through to Saturday.
func DayFromInt(i int) Day {
	if i >= int(Sunday) && i < int(Saturday) {
		return Day(i)
	}
	return Saturday
}

// DayFromWeekday converts the standard library weekday, which shares the
// 0 = Sunday convention.
func DayFromWeekday(w time.Weekday) Day {
	return DayFromInt(int(w))
}

func (d Day) String() string {
	if d < Sunday || d > Saturday {
		return "Saturday"
	}
	return dayNames[d]
}

// Hours is the open/close window for a single day.
type Hours struct {
	Start Time `json:"start"`
	End   Time `json:"end"`
}

// String renders the window for display. A window whose formatted start and
// end coincide reads as open around the clock; the comparison is on the
// formatted labels, not the raw values, so 0:00-24:00 qualifies.
func (h Hours) String() string {
	start, end := h.Start.String(), h.End.String()
	if start == end {
		return "Open 24 hours"
	}
	return start + "–" + end
}

// WeeklySchedule maps each day to an optional open window. A nil entry
// means closed that day.
type WeeklySchedule struct {
	Sunday    *Hours `json:"sunday,omitempty"`
	Monday    *Hours `json:"monday,omitempty"`
	Tuesday   *Hours `json:"tuesday,omitempty"`
	Wednesday *Hours `json:"wednesday,omitempty"`
	Thursday  *Hours `json:"thursday,omitempty"`
	Friday    *Hours `json:"friday,omitempty"`
	Saturday  *Hours `json:"saturday,omitempty"`
}

// On returns the window for the given day, or nil when closed.
func (ws WeeklySchedule) On(day Day) *Hours {
	switch day {
	case Sunday:
		return ws.Sunday
	case Monday:
		return ws.Monday
	case Tuesday:
		return ws.Tuesday
	case Wednesday:
		return ws.Wednesday
	case Thursday:
		return ws.Thursday
	case Friday:
		return ws.Friday
	default:
		return ws.Saturday
	}
}

// DefaultTravelBuffer is the number of minutes added to the query time
// before the viability check, covering travel and decision lag.
const DefaultTravelBuffer = 10

// Restaurant is one catalog entry: a display name and its weekly hours.
// Entries are immutable once loaded.
type Restaurant struct {
	Name  string         `json:"name"`
	Hours WeeklySchedule `json:"hours"`
}

// HoursOn returns the restaurant's window on the given day, nil if closed.
func (r Restaurant) HoursOn(day Day) *Hours {
	return r.Hours.On(day)
}

// IsOpen reports whether the restaurant opens at all on the given day.
func (r Restaurant) IsOpen(day Day) bool {
	return r.HoursOn(day) != nil
}

// IsViable reports whether the restaurant is worth suggesting at the given
// day and time, with buffer minutes of travel lag added to the query time.
// The check is a strict open interval on both ends: a place closing exactly
// at arrival time is not viable.
func (r Restaurant) IsViable(day Day, t Time, buffer int) bool {
	h := r.HoursOn(day)
	if h == nil {
		return false
	}
	arrival := t.AddMinutes(buffer)
	return h.Start.Before(arrival) && h.End.After(arrival)
}
