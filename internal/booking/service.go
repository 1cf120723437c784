package booking

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/hotel-booking-backend/internal/availability"
	"github.com/nekogravitycat/hotel-booking-backend/internal/selection"
)

// Submitter is the hotel API booking endpoint. It returns the id of the
// created booking.
type Submitter interface {
	SubmitBooking(ctx context.Context, s Submission) (string, error)
}

type SubmitRequest struct {
	UserID       string
	Contact      Contact
	Requirements *availability.Requirements
	Slots        availability.SlotGroup
	Chosen       []selection.ChosenRoom
}

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Receipt, error)
	GetByID(ctx context.Context, bookingID string) (*Receipt, error)
	List(ctx context.Context, filter Filter) ([]*Receipt, int, error)
}

type service struct {
	repo      Repository
	submitter Submitter
	logger    *zap.Logger
}

func NewService(repo Repository, submitter Submitter, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		submitter: submitter,
		logger:    logger,
	}
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Receipt, error) {
	// 1. Validate contact details and selection
	if err := ValidateContact(req.Contact); err != nil {
		return nil, err
	}
	if err := ValidateSelection(req.Requirements, req.Chosen); err != nil {
		return nil, err
	}

	chosen := slices.Clone(req.Chosen)
	slices.SortFunc(chosen, func(a, b selection.ChosenRoom) int { return a.Index - b.Index })

	// 2. Price the selection
	summary, err := Summarize(*req.Requirements, req.Slots, chosen)
	if err != nil {
		return nil, err
	}

	// 3. Build and send the submission
	sub := BuildSubmission(*req.Requirements, req.Contact, summary)
	bookingID, err := s.submitter.SubmitBooking(ctx, sub)
	if err != nil {
		return nil, err
	}

	// 4. Record the receipt. The hotel API already holds the booking, so a
	// failure here is logged and the booking id is still returned.
	receipt := newReceipt(bookingID, req.UserID, *req.Requirements, sub, summary)
	if err := s.repo.Create(ctx, receipt); err != nil {
		s.logger.Error("failed to record booking receipt",
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
	}

	s.logger.Info("booking submitted",
		zap.String("booking_id", bookingID),
		zap.Int("rooms", len(sub.BookingRooms)),
		zap.Int64("total_price", summary.TotalPrice),
	)
	return receipt, nil
}

func (s *service) GetByID(ctx context.Context, bookingID string) (*Receipt, error) {
	return s.repo.GetByID(ctx, bookingID)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Receipt, int, error) {
	return s.repo.List(ctx, filter)
}

// BuildSubmission turns a priced selection into the hotel API request. Rooms
// keep the order of the summary lines.
func BuildSubmission(req availability.Requirements, contact Contact, summary Summary) Submission {
	rooms := make([]BookingRoom, len(summary.Lines))
	for i, l := range summary.Lines {
		rooms[i] = BookingRoom{
			RoomID:         l.Room.ID,
			NumberOfGuests: l.NumberOfGuests,
		}
	}

	return Submission{
		CheckInTime:  req.DateRange.From.Format(availability.DateLayout),
		CheckOutTime: req.DateRange.To.Format(availability.DateLayout),
		Email:        strings.TrimSpace(contact.Email),
		PhoneNumber:  strings.TrimSpace(contact.PhoneNumber),
		BookingRooms: rooms,
	}
}

func newReceipt(bookingID, userID string, req availability.Requirements, sub Submission, summary Summary) *Receipt {
	rooms := make([]ReceiptRoom, len(summary.Lines))
	for i, l := range summary.Lines {
		rooms[i] = ReceiptRoom{
			RoomID:         l.Room.ID,
			RoomNumber:     l.Room.RoomNumber,
			ClassName:      l.Room.RoomClass.ClassName,
			NumberOfGuests: l.NumberOfGuests,
			DailyPrice:     l.Room.RoomClass.BasePrice,
			Price:          l.Price,
		}
	}

	return &Receipt{
		BookingID:     bookingID,
		UserID:        userID,
		Email:         sub.Email,
		PhoneNumber:   sub.PhoneNumber,
		CheckIn:       req.DateRange.From,
		CheckOut:      req.DateRange.To,
		BookingDays:   summary.BookingDays,
		TotalPrice:    summary.TotalPrice,
		DepositAmount: summary.DepositAmount,
		Rooms:         rooms,
		CreatedAt:     time.Now().UTC(),
	}
}
