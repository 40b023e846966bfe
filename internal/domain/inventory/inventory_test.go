package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAllotmentOverlapsHalfOpen(t *testing.T) {
	stay := &Allotment{
		CheckInDate:  date(2024, time.January, 1),
		CheckOutDate: date(2024, time.January, 3),
	}

	assert.True(t, stay.Overlaps(Window{Start: date(2024, time.January, 2), End: date(2024, time.January, 4)}))

	// Checkout day is excluded: a Jan 1 - Jan 3 stay is gone by Jan 3.
	assert.False(t, stay.Overlaps(Window{Start: date(2024, time.January, 3), End: date(2024, time.January, 5)}))

	// Check-in exactly at window end is excluded too.
	assert.False(t, stay.Overlaps(Window{Start: date(2023, time.December, 30), End: date(2024, time.January, 1)}))

	// Fully containing window.
	assert.True(t, stay.Overlaps(Window{Start: date(2023, time.December, 31), End: date(2024, time.January, 10)}))

	// Window fully inside the stay.
	assert.True(t, stay.Overlaps(Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 2)}))
}

func TestDayWindow(t *testing.T) {
	at := time.Date(2024, time.March, 15, 14, 30, 45, 123, time.UTC)
	w := DayWindow(at)

	require.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), w.Start)
	require.Equal(t, time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC), w.End)

	// A stay checking in exactly at next midnight is not part of this day.
	next := &Allotment{CheckInDate: w.End, CheckOutDate: w.End.AddDate(0, 0, 2)}
	assert.False(t, next.Overlaps(w))
}

func TestAllotmentIsActive(t *testing.T) {
	assert.True(t, (&Allotment{Status: AllotmentStatusBooked}).IsActive())
	assert.True(t, (&Allotment{Status: AllotmentStatusCheckedIn}).IsActive())
	assert.False(t, (&Allotment{Status: AllotmentStatusCheckedOut}).IsActive())
	assert.False(t, (&Allotment{Status: AllotmentStatusCancelled}).IsActive())
}

func TestAllotmentGuestsDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, (&Allotment{}).Guests())
	assert.Equal(t, 1, (&Allotment{Occupancy: -2}).Guests())
	assert.Equal(t, 3, (&Allotment{Occupancy: 3}).Guests())
}

func TestCategoryCapacityDefaultsToOne(t *testing.T) {
	var missing *RoomCategory
	assert.Equal(t, 1, missing.Capacity())
	assert.Equal(t, 1, (&RoomCategory{}).Capacity())
	assert.Equal(t, 2, (&RoomCategory{Occupancy: 2}).Capacity())
}
