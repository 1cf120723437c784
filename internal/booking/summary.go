package booking

import (
	"fmt"
	"time"

	"github.com/nekogravitycat/hotel-booking-backend/internal/availability"
	"github.com/nekogravitycat/hotel-booking-backend/internal/room"
	"github.com/nekogravitycat/hotel-booking-backend/internal/selection"
)

// Line is the priced choice for one slot.
type Line struct {
	Index          int
	Room           room.Room
	NumberOfGuests int
	Price          int64
}

type Summary struct {
	BookingDays   int
	Lines         []Line
	TotalPrice    int64
	DepositAmount int64
}

// BookingDays returns the number of nights between the two dates, ignoring
// the time of day and the order of the arguments.
func BookingDays(checkIn, checkOut time.Time) int {
	days := int(availability.DateOnly(checkOut).Sub(availability.DateOnly(checkIn)).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

// Deposit is ceil(total/10000)*1000: a tenth of the total rounded up to the
// next multiple of 1000.
func Deposit(total int64) int64 {
	if total <= 0 {
		return 0
	}
	return (total + 9999) / 10000 * 1000
}

// Summarize prices the chosen rooms against the search they were chosen from.
// Lines follow the order of chosen.
func Summarize(req availability.Requirements, slots availability.SlotGroup, chosen []selection.ChosenRoom) (Summary, error) {
	s := Summary{
		BookingDays: BookingDays(req.DateRange.From, req.DateRange.To),
		Lines:       make([]Line, 0, len(chosen)),
	}

	for _, c := range chosen {
		r, ok := slots.Find(c.Index, c.RoomID)
		if !ok {
			return Summary{}, fmt.Errorf("slot %d room %q: %w", c.Index, c.RoomID, ErrChosenRoomMissing)
		}

		guests := 0
		if c.Index < len(req.Guests) {
			guests = req.Guests[c.Index].NumberOfGuests
		}

		price := r.RoomClass.BasePrice * int64(s.BookingDays)
		s.Lines = append(s.Lines, Line{
			Index:          c.Index,
			Room:           r,
			NumberOfGuests: guests,
			Price:          price,
		})
		s.TotalPrice += price
	}

	s.DepositAmount = Deposit(s.TotalPrice)
	return s, nil
}
