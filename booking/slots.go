package booking

import (
	"fmt"
	"strings"
	"time"
)

// TimeSlot is one two-hour booking window. Slots come from a fixed daily
// schedule and are compared by exact string equality, never time arithmetic.
type TimeSlot struct {
	Start string
	End   string
}

func (s TimeSlot) String() string {
	return s.Start + "-" + s.End
}

// ValidSlots is the portal's fixed daily schedule.
// Weekday:  09:00-11:00  11:00-13:00  13:00-15:00  15:00-17:00  17:00-19:00  19:00-21:00
// Weekend:  09:00-11:00  11:00-13:00  13:00-15:00  15:00-17:00
var ValidSlots = []TimeSlot{
	{"09:00", "11:00"},
	{"11:00", "13:00"},
	{"13:00", "15:00"},
	{"15:00", "17:00"},
	{"17:00", "19:00"}, // weekday only
	{"19:00", "21:00"}, // weekday only
}

// Default preference lists, tried in order; first available wins.
var (
	DefaultWeekdayTimes = []TimeSlot{{"19:00", "21:00"}, {"17:00", "19:00"}, {"15:00", "17:00"}}
	DefaultWeekendTimes = []TimeSlot{{"15:00", "17:00"}, {"13:00", "15:00"}, {"11:00", "13:00"}}
)

// ParseSlots parses a comma-separated "HH:MM-HH:MM" list into slots,
// preserving order. Every entry must be one of the portal's fixed windows.
func ParseSlots(s string) ([]TimeSlot, error) {
	var slots []TimeSlot
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		pieces := strings.SplitN(part, "-", 2)
		if len(pieces) != 2 {
			return nil, fmt.Errorf("invalid time slot %q (expected HH:MM-HH:MM)", part)
		}

		slot := TimeSlot{Start: strings.TrimSpace(pieces[0]), End: strings.TrimSpace(pieces[1])}
		if !isValidSlot(slot) {
			return nil, fmt.Errorf("unknown time slot %q (valid slots: %s)", part, validSlotList())
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func isValidSlot(slot TimeSlot) bool {
	for _, v := range ValidSlots {
		if v == slot {
			return true
		}
	}
	return false
}

func validSlotList() string {
	names := make([]string, len(ValidSlots))
	for i, s := range ValidSlots {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Preference is an ordered slot preference for a booking run.
// The zero value defers to the day-type defaults; Any disables time
// filtering entirely.
type Preference struct {
	Any   bool
	Slots []TimeSlot
}

// Resolve returns the slots to try for date, in order, and whether the
// search should run unfiltered. An explicit list always wins; otherwise the
// weekend defaults apply on Saturday and Sunday and the weekday defaults on
// every other day.
func (p Preference) Resolve(date time.Time) (slots []TimeSlot, any bool) {
	if p.Any {
		return nil, true
	}
	if len(p.Slots) > 0 {
		return p.Slots, false
	}
	if IsWeekend(date) {
		return DefaultWeekendTimes, false
	}
	return DefaultWeekdayTimes, false
}

// ResolveDate picks the booking date: an explicit YYYY-MM-DD if given,
// otherwise two days from now.
func ResolveDate(explicit string, now time.Time) (time.Time, error) {
	if explicit == "" {
		return now.AddDate(0, 0, 2), nil
	}
	date, err := time.Parse("2006-01-02", explicit)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", explicit)
	}
	return date, nil
}
