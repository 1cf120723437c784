package http

import (
	"time"

	"github.com/nekogravitycat/hotel-booking-backend/internal/availability"
	"github.com/nekogravitycat/hotel-booking-backend/internal/booking"
	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing the caller's bookings.
type ListBookingsRequest struct {
	request.ListParams
	CheckInFrom string `form:"check_in_from" binding:"omitempty,datetime=2006-01-02"`
	SortBy      string `form:"sort_by" binding:"omitempty,oneof=created_at check_in total_price"`
	SortOrder   string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// CheckInFromDate parses CheckInFrom, nil when unset.
func (r *ListBookingsRequest) CheckInFromDate() *time.Time {
	if r.CheckInFrom == "" {
		return nil
	}
	t, err := time.Parse(availability.DateLayout, r.CheckInFrom)
	if err != nil {
		return nil
	}
	return &t
}

type BookingIDRequest struct {
	ID string `uri:"id" binding:"required,max=128"`
}

type ReceiptRoomResponse struct {
	RoomID         string `json:"room_id"`
	RoomNumber     string `json:"room_number"`
	ClassName      string `json:"class_name"`
	NumberOfGuests int    `json:"number_of_guests"`
	DailyPrice     int64  `json:"daily_price"`
	Price          int64  `json:"price"`
}

type BookingResponse struct {
	BookingID     string                `json:"booking_id"`
	Email         string                `json:"email"`
	PhoneNumber   string                `json:"phone_number"`
	CheckIn       string                `json:"check_in"`
	CheckOut      string                `json:"check_out"`
	BookingDays   int                   `json:"booking_days"`
	TotalPrice    int64                 `json:"total_price"`
	DepositAmount int64                 `json:"deposit_amount"`
	Rooms         []ReceiptRoomResponse `json:"rooms"`
	CreatedAt     time.Time             `json:"created_at"`
}

func NewBookingResponse(r *booking.Receipt) BookingResponse {
	rooms := make([]ReceiptRoomResponse, len(r.Rooms))
	for i, rm := range r.Rooms {
		rooms[i] = ReceiptRoomResponse(rm)
	}

	return BookingResponse{
		BookingID:     r.BookingID,
		Email:         r.Email,
		PhoneNumber:   r.PhoneNumber,
		CheckIn:       r.CheckIn.Format(availability.DateLayout),
		CheckOut:      r.CheckOut.Format(availability.DateLayout),
		BookingDays:   r.BookingDays,
		TotalPrice:    r.TotalPrice,
		DepositAmount: r.DepositAmount,
		Rooms:         rooms,
		CreatedAt:     r.CreatedAt,
	}
}
