package availability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/hotel-booking-backend/internal/room"
)

// Searcher is the hotel API availability endpoint.
type Searcher interface {
	SearchAvailableRooms(ctx context.Context, q Query) (SlotGroup, error)
}

// Store keeps the result of the latest successful search together with the
// requirements it was run for.
// Store is not safe for concurrent use; the owning workflow session guards it.
type Store struct {
	searcher Searcher
	today    func() time.Time

	requirements *Requirements
	slots        SlotGroup
}

// NewStore creates a Store. today must return the current date with the time
// of day zeroed (see TodayIn).
func NewStore(searcher Searcher, today func() time.Time) *Store {
	return &Store{
		searcher: searcher,
		today:    today,
	}
}

// Validate checks the search inputs in the order they are reported to the
// visitor and returns the first failure.
func (s *Store) Validate(dr DateRange, guests []WishedRoom) error {
	// 1. Both dates selected
	if dr.From.IsZero() {
		return ErrDatesMissing
	}
	if dr.To.IsZero() {
		return ErrCheckOutMissing
	}

	// 2. Check-in not before today
	today := s.today()
	from := DateOnly(dr.From)
	if from.Before(today) {
		return apperror.Wrap(ErrCheckInPast, http.StatusBadRequest,
			fmt.Sprintf("check-in date must be today (%s) or later", today.Format(DateLayout)))
	}
	if DateOnly(dr.To).Before(from) {
		return ErrInvalidDateRange
	}

	// 3. Wished rooms within business limits
	if len(guests) == 0 {
		return ErrNoRooms
	}
	if len(guests) > MaxRoomsPerBooking {
		return ErrTooManyRooms
	}
	for _, g := range guests {
		if g.NumberOfGuests < 1 || g.NumberOfGuests > MaxGuestsPerRoom {
			return ErrInvalidGuests
		}
	}
	return nil
}

// Fetch validates the inputs and runs the search. It does not change the
// stored results; callers apply a successful result with Apply.
func (s *Store) Fetch(ctx context.Context, dr DateRange, guests []WishedRoom) (Requirements, SlotGroup, error) {
	if err := s.Validate(dr, guests); err != nil {
		return Requirements{}, nil, err
	}

	q, err := BuildQuery(dr, guests)
	if err != nil {
		return Requirements{}, nil, err
	}

	slots, err := s.searcher.SearchAvailableRooms(ctx, q)
	if err != nil {
		return Requirements{}, nil, err
	}
	if len(slots) != len(guests) {
		return Requirements{}, nil, fmt.Errorf("got %d slots for %d rooms: %w", len(slots), len(guests), ErrSlotMismatch)
	}

	req := Requirements{
		DateRange: DateRange{From: DateOnly(dr.From), To: DateOnly(dr.To)},
		Guests:    append([]WishedRoom(nil), guests...),
	}
	return req, slots, nil
}

// Apply replaces the stored results and requirements together.
func (s *Store) Apply(req Requirements, slots SlotGroup) {
	s.requirements = &req
	s.slots = slots
}

// Requirements returns the snapshot of the last successful search.
func (s *Store) Requirements() (Requirements, bool) {
	if s.requirements == nil {
		return Requirements{}, false
	}
	return *s.requirements, true
}

func (s *Store) Slots() SlotGroup {
	return s.slots
}

// Candidate looks up roomID among the rooms offered for slot.
func (s *Store) Candidate(slot int, roomID string) (room.Room, bool) {
	return s.slots.Find(slot, roomID)
}
