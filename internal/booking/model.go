package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrEmailRequired     = apperror.New(http.StatusBadRequest, "please provide an email.")
	ErrInvalidEmail      = apperror.New(http.StatusBadRequest, "invalid email.")
	ErrPhoneRequired     = apperror.New(http.StatusBadRequest, "please provide a phone number.")
	ErrInvalidPhone      = apperror.New(http.StatusBadRequest, "invalid phone number.")
	ErrNoSearch          = apperror.New(http.StatusBadRequest, "please search for available rooms first.")
	ErrNotEnoughRooms    = apperror.New(http.StatusBadRequest, "please select enough rooms.")
	ErrRoomUnavailable   = apperror.New(http.StatusConflict, "one or more selected rooms are no longer available, please search again.")
	ErrReceiptExists     = apperror.New(http.StatusConflict, "booking already recorded")
	ErrChosenRoomMissing = apperror.New(http.StatusInternalServerError, "chosen room is not among the search results")
)

// Submission is the booking request sent to the hotel API.
type Submission struct {
	CheckInTime  string        `json:"checkInTime"`
	CheckOutTime string        `json:"checkOutTime"`
	Email        string        `json:"email"`
	PhoneNumber  string        `json:"phoneNumber"`
	BookingRooms []BookingRoom `json:"bookingRooms"`
}

type BookingRoom struct {
	RoomID         string `json:"roomId"`
	NumberOfGuests int    `json:"numberOfGuests"`
}

// Receipt is the local record of a booking accepted by the hotel API.
type Receipt struct {
	BookingID     string
	UserID        string
	Email         string
	PhoneNumber   string
	CheckIn       time.Time
	CheckOut      time.Time
	BookingDays   int
	TotalPrice    int64
	DepositAmount int64
	Rooms         []ReceiptRoom
	CreatedAt     time.Time
}

type ReceiptRoom struct {
	RoomID         string `json:"room_id"`
	RoomNumber     string `json:"room_number"`
	ClassName      string `json:"class_name"`
	NumberOfGuests int    `json:"number_of_guests"`
	DailyPrice     int64  `json:"daily_price"`
	Price          int64  `json:"price"`
}

type Filter struct {
	UserID    string
	CheckIn   *time.Time // Receipts checking in on or after this date
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
