package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/hotel-booking-backend/internal/auth"
	"github.com/nekogravitycat/hotel-booking-backend/internal/availability"
	"github.com/nekogravitycat/hotel-booking-backend/internal/booking"
	"github.com/nekogravitycat/hotel-booking-backend/internal/notify"
	"github.com/nekogravitycat/hotel-booking-backend/internal/selection"
)

// State is the position of a session in the search/submit cycle.
type State int

const (
	StateIdle State = iota
	StateSearching
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

const (
	msgSearchDone     = "rooms found, please choose one room for each slot."
	msgNoRooms        = "no rooms available for the selected dates."
	msgBookingCreated = "booking created."
)

// Session is one visitor's booking workflow: the latest search, the rooms
// chosen from it and the notifications produced along the way.
// At most one search or submission runs at a time. The mutex is never held
// while the hotel API is being called.
type Session struct {
	ID string

	mu        sync.Mutex
	state     State
	ownerID   string
	closed    bool
	lastSeen  time.Time
	bookingID string

	store     *availability.Store
	selection *selection.Manager
	inbox     *notify.Inbox
	bookings  booking.Service
	logger    *zap.Logger
	now       func() time.Time
}

// View is a consistent snapshot of a session. Summary is nil until a search
// has succeeded.
type View struct {
	ID            string
	State         State
	OwnerID       string
	Requirements  *availability.Requirements
	Slots         availability.SlotGroup
	ActiveSlot    int
	Chosen        []selection.ChosenRoom
	Summary       *booking.Summary
	LastBookingID string
}

// authorize binds an unowned session to the first logged-in caller and
// rejects everyone else once it is owned. Caller must hold s.mu.
func (s *Session) authorize(p auth.Principal) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.ownerID == "" {
		if p.IsLogged {
			s.ownerID = p.UserID
			s.logger.Debug("session claimed", zap.String("session_id", s.ID), zap.String("user_id", p.UserID))
		}
	} else if p.UserID != s.ownerID {
		return ErrForbidden
	}
	s.lastSeen = s.now()
	return nil
}

// Search validates the requirements and asks the hotel API for candidates.
// A successful result replaces the previous one and clears the selection.
// On failure the previous result is kept.
func (s *Session) Search(ctx context.Context, p auth.Principal, dr availability.DateRange, guests []availability.WishedRoom) (View, error) {
	s.mu.Lock()
	if err := s.authorize(p); err != nil {
		s.mu.Unlock()
		return View{}, err
	}
	if s.state != StateIdle {
		s.mu.Unlock()
		return View{}, ErrInFlight
	}
	s.state = StateSearching
	s.mu.Unlock()

	req, slots, err := s.store.Fetch(ctx, dr, guests)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle

	if s.closed {
		s.logger.Debug("discarding search result of closed session", zap.String("session_id", s.ID))
		return View{}, ErrSessionClosed
	}
	if err != nil {
		s.inbox.Notify(ctx, notify.SeverityError, notify.MessageFor(err))
		return View{}, err
	}

	s.store.Apply(req, slots)
	s.selection.Reset(len(slots))

	if slots.Empty() {
		s.inbox.Notify(ctx, notify.SeverityInfo, msgNoRooms)
	} else {
		s.inbox.Notify(ctx, notify.SeveritySuccess, msgSearchDone)
	}
	return s.view(), nil
}

// SelectRoom chooses roomID for slot. Only guest accounts may select; other
// callers get an informational notice and nothing changes.
func (s *Session) SelectRoom(ctx context.Context, p auth.Principal, slot int, roomID string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardSelection(ctx, p); err != nil {
		return View{}, err
	}

	if _, ok := s.store.Candidate(slot, roomID); !ok {
		if slot < 0 || slot >= s.selection.Slots() {
			return View{}, s.fail(ctx, selection.ErrSlotOutOfRange)
		}
		return View{}, s.fail(ctx, ErrRoomNotOffered)
	}
	if err := s.selection.Select(slot, roomID); err != nil {
		return View{}, s.fail(ctx, err)
	}
	return s.view(), nil
}

// RemoveRoom drops the choice of roomID for slot. Removing a room that is
// not chosen leaves the selection as it is.
func (s *Session) RemoveRoom(ctx context.Context, p auth.Principal, slot int, roomID string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardSelection(ctx, p); err != nil {
		return View{}, err
	}
	s.selection.Remove(slot, roomID)
	return s.view(), nil
}

// SetActiveSlot switches the slot whose candidates the visitor is browsing.
func (s *Session) SetActiveSlot(ctx context.Context, p auth.Principal, slot int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(p); err != nil {
		return View{}, err
	}
	if err := s.selection.SetActive(slot); err != nil {
		return View{}, s.fail(ctx, err)
	}
	return s.view(), nil
}

// Submit books the chosen rooms. The selection is cleared once the hotel API
// has accepted the booking.
func (s *Session) Submit(ctx context.Context, p auth.Principal, contact booking.Contact) (*booking.Receipt, error) {
	s.mu.Lock()
	if err := s.authorize(p); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrInFlight
	}

	req := booking.SubmitRequest{
		UserID:  p.UserID,
		Contact: contact,
		Slots:   s.store.Slots(),
		Chosen:  s.selection.Chosen(),
	}
	if r, ok := s.store.Requirements(); ok {
		req.Requirements = &r
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	receipt, err := s.bookings.Submit(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle

	if err != nil {
		if !s.closed {
			s.inbox.Notify(ctx, notify.SeverityError, notify.MessageFor(err))
		}
		return nil, err
	}

	// The hotel API holds the booking now, so it is reported even when the
	// session was closed meanwhile.
	if !s.closed {
		s.bookingID = receipt.BookingID
		s.selection.Reset(len(s.store.Slots()))
		s.inbox.Notify(ctx, notify.SeveritySuccess, msgBookingCreated)
	}
	return receipt, nil
}

// View returns the current snapshot of the session.
func (s *Session) View(p auth.Principal) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(p); err != nil {
		return View{}, err
	}
	return s.view(), nil
}

// Notifications returns and clears the pending notifications.
func (s *Session) Notifications(p auth.Principal) ([]notify.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(p); err != nil {
		return nil, err
	}
	return s.inbox.Drain(), nil
}

// Close marks the session closed. Results of calls still in flight are
// discarded when they return.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Session) checkOwner(p auth.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorize(p)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// guardSelection authorizes the caller for selection changes. Caller must
// hold s.mu.
func (s *Session) guardSelection(ctx context.Context, p auth.Principal) error {
	if err := s.authorize(p); err != nil {
		return err
	}
	if !p.IsLogged {
		s.inbox.Notify(ctx, notify.SeverityInfo, ErrLoginRequired.Message)
		return ErrLoginRequired
	}
	if !p.IsGuest() {
		s.inbox.Notify(ctx, notify.SeverityInfo, ErrGuestOnly.Message)
		return ErrGuestOnly
	}
	return nil
}

// fail reports err to the visitor and returns it. Caller must hold s.mu.
func (s *Session) fail(ctx context.Context, err error) error {
	s.inbox.Notify(ctx, notify.SeverityError, notify.MessageFor(err))
	return err
}

// view builds a snapshot. Caller must hold s.mu.
func (s *Session) view() View {
	v := View{
		ID:            s.ID,
		State:         s.state,
		OwnerID:       s.ownerID,
		Slots:         s.store.Slots(),
		ActiveSlot:    s.selection.Active(),
		Chosen:        s.selection.Sorted(),
		LastBookingID: s.bookingID,
	}

	req, ok := s.store.Requirements()
	if !ok {
		return v
	}
	v.Requirements = &req

	summary, err := booking.Summarize(req, v.Slots, v.Chosen)
	if err != nil {
		// Choices are checked against the slots when made.
		s.logger.Error("failed to summarize selection", zap.String("session_id", s.ID), zap.Error(err))
		return v
	}
	v.Summary = &summary
	return v
}

// IsIgnored reports whether err means the request was dropped because
// another one was running.
func IsIgnored(err error) bool {
	return errors.Is(err, ErrInFlight)
}
