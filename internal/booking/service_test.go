package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/hotel-booking-backend/internal/availability"
	"github.com/nekogravitycat/hotel-booking-backend/internal/selection"
)

type fakeSubmitter struct {
	calls []Submission
	id    string
	err   error
}

func (f *fakeSubmitter) SubmitBooking(ctx context.Context, s Submission) (string, error) {
	f.calls = append(f.calls, s)
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}

type fakeRepository struct {
	receipts map[string]*Receipt
	err      error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{receipts: map[string]*Receipt{}}
}

func (f *fakeRepository) Create(ctx context.Context, r *Receipt) error {
	if f.err != nil {
		return f.err
	}
	f.receipts[r.BookingID] = r
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, bookingID string) (*Receipt, error) {
	r, ok := f.receipts[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (f *fakeRepository) List(ctx context.Context, filter Filter) ([]*Receipt, int, error) {
	var out []*Receipt
	for _, r := range f.receipts {
		if r.UserID == filter.UserID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func validRequest() SubmitRequest {
	return SubmitRequest{
		UserID:  "user-1",
		Contact: Contact{Email: "a@b.co", PhoneNumber: "0912345678"},
		Requirements: &availability.Requirements{
			DateRange: availability.DateRange{From: date(2026, 11, 1), To: date(2026, 11, 3)},
			Guests:    []availability.WishedRoom{{NumberOfGuests: 2}, {NumberOfGuests: 1}},
		},
		Slots: availability.SlotGroup{
			{testRoom("a", 100000)},
			{testRoom("b", 80000), testRoom("c", 90000)},
		},
		Chosen: []selection.ChosenRoom{
			{Index: 1, RoomID: "c"},
			{Index: 0, RoomID: "a"},
		},
	}
}

func TestServiceSubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*SubmitRequest)
		want   error
	}{
		{"Email missing", func(r *SubmitRequest) { r.Contact.Email = "  " }, ErrEmailRequired},
		{"Email invalid", func(r *SubmitRequest) { r.Contact.Email = "bad-email" }, ErrInvalidEmail},
		{"Email checked before phone", func(r *SubmitRequest) {
			r.Contact.Email = "bad-email"
			r.Contact.PhoneNumber = ""
		}, ErrInvalidEmail},
		{"Phone missing", func(r *SubmitRequest) { r.Contact.PhoneNumber = "" }, ErrPhoneRequired},
		{"Phone invalid", func(r *SubmitRequest) { r.Contact.PhoneNumber = "12-34" }, ErrInvalidPhone},
		{"No search yet", func(r *SubmitRequest) {
			r.Requirements = nil
			r.Slots = nil
			r.Chosen = nil
		}, ErrNoSearch},
		{"Not enough rooms", func(r *SubmitRequest) { r.Chosen = r.Chosen[:1] }, ErrNotEnoughRooms},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{id: "bk-1"}
			svc := NewService(newFakeRepository(), sub, zap.NewNop())

			req := validRequest()
			tt.modify(&req)

			_, err := svc.Submit(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, sub.calls, "invalid submissions must not reach the hotel API")
		})
	}
}

func TestServiceSubmit(t *testing.T) {
	t.Run("Sends rooms in slot order", func(t *testing.T) {
		sub := &fakeSubmitter{id: "bk-1"}
		repo := newFakeRepository()
		svc := NewService(repo, sub, zap.NewNop())

		receipt, err := svc.Submit(context.Background(), validRequest())
		require.NoError(t, err)
		require.Len(t, sub.calls, 1)

		got := sub.calls[0]
		assert.Equal(t, "2026-11-01", got.CheckInTime)
		assert.Equal(t, "2026-11-03", got.CheckOutTime)
		assert.Equal(t, "a@b.co", got.Email)
		assert.Equal(t, "0912345678", got.PhoneNumber)
		assert.Equal(t, []BookingRoom{
			{RoomID: "a", NumberOfGuests: 2},
			{RoomID: "c", NumberOfGuests: 1},
		}, got.BookingRooms)

		assert.Equal(t, "bk-1", receipt.BookingID)
		assert.Equal(t, 2, receipt.BookingDays)
		assert.EqualValues(t, 380000, receipt.TotalPrice)
		assert.EqualValues(t, 38000, receipt.DepositAmount)
		assert.Contains(t, repo.receipts, "bk-1")
	})

	t.Run("Contact is trimmed", func(t *testing.T) {
		sub := &fakeSubmitter{id: "bk-2"}
		svc := NewService(newFakeRepository(), sub, zap.NewNop())

		req := validRequest()
		req.Contact = Contact{Email: " a@b.co ", PhoneNumber: " (091) 234-5678 "}

		_, err := svc.Submit(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "a@b.co", sub.calls[0].Email)
		assert.Equal(t, "(091) 234-5678", sub.calls[0].PhoneNumber)
	})

	t.Run("Hotel API error is returned", func(t *testing.T) {
		sub := &fakeSubmitter{err: ErrRoomUnavailable}
		repo := newFakeRepository()
		svc := NewService(repo, sub, zap.NewNop())

		_, err := svc.Submit(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrRoomUnavailable)
		assert.Empty(t, repo.receipts)
	})

	t.Run("Receipt failure does not fail the booking", func(t *testing.T) {
		sub := &fakeSubmitter{id: "bk-3"}
		repo := newFakeRepository()
		repo.err = errors.New("db down")
		svc := NewService(repo, sub, zap.NewNop())

		receipt, err := svc.Submit(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, "bk-3", receipt.BookingID)
	})
}

func TestServiceReceipts(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeSubmitter{id: "bk-9"}, zap.NewNop())

	_, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), "bk-9")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)

	_, err = svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	list, total, err := svc.List(context.Background(), Filter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)
}
