package inventory

import (
	"errors"
	"time"
)

// ErrRoomNotFound reports a lookup for a room number that does not exist,
// as opposed to a failure reaching the store.
var ErrRoomNotFound = errors.New("room not found")

const (
	RoomStatusAvailable = "available"
	RoomStatusOccupied  = "occupied"
)

const (
	AllotmentStatusBooked     = "booked"
	AllotmentStatusCheckedIn  = "checked_in"
	AllotmentStatusCheckedOut = "checked_out"
	AllotmentStatusCancelled  = "cancelled"
)

type Hotel struct {
	ID            string
	CustomHotelID string
	Name          string
	Address       Address
	ContactInfo   ContactInfo
	Status        string
	Categories    []RoomCategory
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Address struct {
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
}

type ContactInfo struct {
	Phone string
	Email string
}

type RoomCategory struct {
	ID        string
	HotelID   string
	Name      string
	Occupancy int32
	RoomCount int32
}

// Capacity returns the guest capacity of one room of this category.
// Unconfigured categories hold one guest.
func (c *RoomCategory) Capacity() int {
	if c == nil || c.Occupancy <= 0 {
		return 1
	}
	return int(c.Occupancy)
}

type Room struct {
	ID         string
	HotelID    string
	CategoryID string
	RoomNumber string
	Status     string
	Category   *RoomCategory
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Allotment struct {
	ID           string
	RoomID       string
	HotelID      string
	GuestName    string
	Occupancy    int32
	Status       string
	CheckInDate  time.Time
	CheckOutDate time.Time
}

// IsActive reports whether the allotment holds guests against capacity.
// Checked-out and cancelled allotments never contribute to load.
func (a *Allotment) IsActive() bool {
	return a.Status == AllotmentStatusBooked || a.Status == AllotmentStatusCheckedIn
}

// Guests returns the guest count of the allotment, treating missing or zero
// occupancy on legacy records as one guest so load is never undercounted.
func (a *Allotment) Guests() int {
	if a.Occupancy <= 0 {
		return 1
	}
	return int(a.Occupancy)
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the allotment's half-open stay interval
// [CheckInDate, CheckOutDate) intersects the window. An allotment checking
// out exactly when the window starts does not overlap, nor does one checking
// in exactly when the window ends.
func (a *Allotment) Overlaps(w Window) bool {
	return a.CheckInDate.Before(w.End) && a.CheckOutDate.After(w.Start)
}

// DayWindow returns the half-open window covering the whole local calendar
// day of t: [00:00, 00:00 of the next day).
func DayWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// Correction records one reconciler decision for a room.
type Correction struct {
	RoomID         string    `json:"roomId"`
	RoomNumber     string    `json:"roomNumber"`
	HotelID        string    `json:"hotelId"`
	Changed        bool      `json:"changed"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Load           int       `json:"load"`
	Capacity       int       `json:"capacity"`
	CorrectedAt    time.Time `json:"correctedAt"`
}

// HotelOccupancy is one row of the per-hotel inventory report. OccupiedRooms
// counts distinct overlapping active allotments against the configured room
// total; it is a coarser logistics metric than per-room status and is kept
// separate on purpose.
type HotelOccupancy struct {
	HotelID        string `json:"hotelId"`
	CustomHotelID  string `json:"customHotelId"`
	HotelName      string `json:"hotelName"`
	TotalRooms     int    `json:"totalRooms"`
	OccupiedRooms  int    `json:"occupiedRooms"`
	AvailableRooms int    `json:"availableRooms"`
}
