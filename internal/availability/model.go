package availability

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/hotel-booking-backend/internal/room"
)

const (
	// DateLayout is the canonical date format exchanged with the hotel API.
	DateLayout = "2006-01-02"

	MaxRoomsPerBooking = 3
	MaxGuestsPerRoom   = 8
)

var (
	ErrDatesMissing     = apperror.New(http.StatusBadRequest, "please select dates")
	ErrCheckOutMissing  = apperror.New(http.StatusBadRequest, "please select both check-in and check-out dates")
	ErrCheckInPast      = apperror.New(http.StatusBadRequest, "check-in date cannot be in the past")
	ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "check-out date cannot be before check-in date")
	ErrNoRooms          = apperror.New(http.StatusBadRequest, "please add at least one room")
	ErrTooManyRooms     = apperror.New(http.StatusBadRequest, "a booking can include at most 3 rooms")
	ErrInvalidGuests    = apperror.New(http.StatusBadRequest, "each room must have between 1 and 8 guests")
	ErrSlotMismatch     = apperror.New(http.StatusBadGateway, "hotel service returned an unexpected result")
)

// DateRange is a check-in/check-out pair. A zero time means the date has not
// been selected yet.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Complete reports whether both ends of the range are selected.
func (r DateRange) Complete() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// WishedRoom is one room the visitor intends to reserve.
type WishedRoom struct {
	NumberOfGuests int
}

// Requirements is the snapshot of the search inputs taken when a search
// succeeds. Later edits to the search form do not affect it.
type Requirements struct {
	DateRange DateRange
	Guests    []WishedRoom
}

// SlotGroup holds, per requested room slot, the rooms the hotel API reported
// as available. A slot may have no candidates.
type SlotGroup [][]room.Room

// Find returns the candidate with roomID in the given slot.
func (g SlotGroup) Find(slot int, roomID string) (room.Room, bool) {
	if slot < 0 || slot >= len(g) {
		return room.Room{}, false
	}
	for _, r := range g[slot] {
		if r.ID == roomID {
			return r, true
		}
	}
	return room.Room{}, false
}

// Empty reports whether no slot has any candidate.
func (g SlotGroup) Empty() bool {
	for _, rooms := range g {
		if len(rooms) > 0 {
			return false
		}
	}
	return true
}

// DateOnly drops the time of day, keeping the calendar date of t as seen in
// t's own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TodayIn returns a clock yielding the current calendar date in loc.
func TodayIn(loc *time.Location) func() time.Time {
	return func() time.Time {
		return DateOnly(time.Now().In(loc))
	}
}
