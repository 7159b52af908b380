package portal

import (
	"fmt"
	"strings"
)

// Credentials are the portal login credentials, supplied once at startup.
type Credentials struct {
	Username string
	Password string
}

// RoomCategory identifies one of the library's bookable room groups.
type RoomCategory string

const (
	RoomSilent  RoomCategory = "silent"
	RoomStudy   RoomCategory = "study"
	RoomGroup   RoomCategory = "group"
	RoomSuccess RoomCategory = "success"
)

// tableIDs maps each category to the portal-side table element id.
var tableIDs = map[RoomCategory]string{
	RoomSilent:  "silent_study_room_table",     // N201-N214  cap 2  L2
	RoomStudy:   "study_room_table",            // S221-S234  cap 2  L2
	RoomGroup:   "group_discussion_room_table", // E231-E236, W241-W246  cap 4  L2
	RoomSuccess: "student_success_room_table",  // Room 1-3   cap 4/10  L3
}

// ParseRoomCategory validates a user-supplied category name.
func ParseRoomCategory(s string) (RoomCategory, error) {
	c := RoomCategory(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tableIDs[c]; !ok {
		return "", fmt.Errorf("unknown room category %q (must be one of: %s)", s, strings.Join(CategoryNames(), ", "))
	}
	return c, nil
}

// TableID returns the portal table element id for the category.
func (c RoomCategory) TableID() string {
	return tableIDs[c]
}

// CategoryNames lists the valid category names in a fixed order.
func CategoryNames() []string {
	return []string{string(RoomSilent), string(RoomStudy), string(RoomGroup), string(RoomSuccess)}
}

// Room is a snapshot of one bookable slot button. It is only guaranteed
// accurate at the instant it was read; the portal may give the room away
// between read and submit.
type Room struct {
	ID    string
	Name  string
	Start string
	End   string
	Date  string
}

// Slot renders the room's time window as "HH:MM-HH:MM".
func (r Room) Slot() string {
	return r.Start + "-" + r.End
}
