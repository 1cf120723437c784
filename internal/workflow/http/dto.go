package http

import (
	"time"

	"github.com/nekogravitycat/hotel-booking-backend/internal/availability"
	"github.com/nekogravitycat/hotel-booking-backend/internal/booking"
	"github.com/nekogravitycat/hotel-booking-backend/internal/notify"
	"github.com/nekogravitycat/hotel-booking-backend/internal/room"
	"github.com/nekogravitycat/hotel-booking-backend/internal/selection"
	"github.com/nekogravitycat/hotel-booking-backend/internal/workflow"
)

// === Requests ===

type SlotRequest struct {
	ID   string `uri:"id" binding:"required,uuid"`
	Slot int    `uri:"slot" binding:"min=0"`
}

type RoomURIRequest struct {
	SlotRequest
	RoomID string `uri:"room_id" binding:"required,max=128"`
}

type WishedRoomRequest struct {
	NumberOfGuests int `json:"number_of_guests"`
}

// SearchRequest carries the search form. Empty dates and out-of-range guest
// counts are reported by the search itself with a corrective message.
type SearchRequest struct {
	CheckIn  string              `json:"check_in" binding:"omitempty,datetime=2006-01-02"`
	CheckOut string              `json:"check_out" binding:"omitempty,datetime=2006-01-02"`
	Rooms    []WishedRoomRequest `json:"rooms"`
}

// DateRange parses the form dates. Binding has already checked their format.
func (r *SearchRequest) DateRange() availability.DateRange {
	var dr availability.DateRange
	if r.CheckIn != "" {
		dr.From, _ = time.Parse(availability.DateLayout, r.CheckIn)
	}
	if r.CheckOut != "" {
		dr.To, _ = time.Parse(availability.DateLayout, r.CheckOut)
	}
	return dr
}

func (r *SearchRequest) WishedRooms() []availability.WishedRoom {
	out := make([]availability.WishedRoom, len(r.Rooms))
	for i, w := range r.Rooms {
		out[i] = availability.WishedRoom{NumberOfGuests: w.NumberOfGuests}
	}
	return out
}

type ActiveSlotRequest struct {
	Slot *int `json:"slot" binding:"required,min=0"`
}

type SelectRoomRequest struct {
	RoomID string `json:"room_id" binding:"required,max=128"`
}

// SubmitBookingRequest leaves contact validation to the booking service so
// the visitor gets the same messages as every other rejection.
type SubmitBookingRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// === Responses ===

type FeatureResponse struct {
	FeatureID string `json:"feature_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type RoomResponse struct {
	ID          string            `json:"id"`
	RoomNumber  string            `json:"room_number"`
	FloorNumber string            `json:"floor_number"`
	ClassName   string            `json:"class_name"`
	Capacity    int               `json:"capacity"`
	BasePrice   int64             `json:"base_price"`
	Features    []FeatureResponse `json:"features"`
	Images      []string          `json:"images"`
}

func NewRoomResponse(r room.Room) RoomResponse {
	features := make([]FeatureResponse, len(r.Features))
	for i, f := range r.Features {
		features[i] = FeatureResponse{FeatureID: f.FeatureID, Name: f.Name, Quantity: f.Quantity}
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}

	return RoomResponse{
		ID:          r.ID,
		RoomNumber:  r.RoomNumber,
		FloorNumber: r.Floor.FloorNumber,
		ClassName:   r.RoomClass.ClassName,
		Capacity:    r.RoomClass.Capacity,
		BasePrice:   r.RoomClass.BasePrice,
		Features:    features,
		Images:      images,
	}
}

type RequirementsResponse struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Rooms    []int  `json:"rooms"`
}

type ChosenRoomResponse struct {
	Slot   int    `json:"slot"`
	RoomID string `json:"room_id"`
}

type SummaryLineResponse struct {
	Slot           int          `json:"slot"`
	Room           RoomResponse `json:"room"`
	NumberOfGuests int          `json:"number_of_guests"`
	Price          int64        `json:"price"`
}

type SummaryResponse struct {
	BookingDays   int                   `json:"booking_days"`
	Lines         []SummaryLineResponse `json:"lines"`
	TotalPrice    int64                 `json:"total_price"`
	DepositAmount int64                 `json:"deposit_amount"`
}

type SessionResponse struct {
	ID            string                `json:"id"`
	State         string                `json:"state"`
	Requirements  *RequirementsResponse `json:"requirements"`
	Slots         [][]RoomResponse      `json:"slots"`
	ActiveSlot    int                   `json:"active_slot"`
	ChosenRooms   []ChosenRoomResponse  `json:"chosen_rooms"`
	Summary       *SummaryResponse      `json:"summary"`
	LastBookingID string                `json:"last_booking_id,omitempty"`
}

func NewSessionResponse(v workflow.View) SessionResponse {
	resp := SessionResponse{
		ID:            v.ID,
		State:         v.State.String(),
		Slots:         make([][]RoomResponse, len(v.Slots)),
		ActiveSlot:    v.ActiveSlot,
		ChosenRooms:   newChosenRooms(v.Chosen),
		LastBookingID: v.LastBookingID,
	}

	for i, rooms := range v.Slots {
		resp.Slots[i] = make([]RoomResponse, len(rooms))
		for j, r := range rooms {
			resp.Slots[i][j] = NewRoomResponse(r)
		}
	}

	if v.Requirements != nil {
		guests := make([]int, len(v.Requirements.Guests))
		for i, g := range v.Requirements.Guests {
			guests[i] = g.NumberOfGuests
		}
		resp.Requirements = &RequirementsResponse{
			CheckIn:  v.Requirements.DateRange.From.Format(availability.DateLayout),
			CheckOut: v.Requirements.DateRange.To.Format(availability.DateLayout),
			Rooms:    guests,
		}
	}

	if v.Summary != nil {
		resp.Summary = newSummaryResponse(*v.Summary)
	}
	return resp
}

func newChosenRooms(chosen []selection.ChosenRoom) []ChosenRoomResponse {
	out := make([]ChosenRoomResponse, len(chosen))
	for i, c := range chosen {
		out[i] = ChosenRoomResponse{Slot: c.Index, RoomID: c.RoomID}
	}
	return out
}

func newSummaryResponse(s booking.Summary) *SummaryResponse {
	lines := make([]SummaryLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = SummaryLineResponse{
			Slot:           l.Index,
			Room:           NewRoomResponse(l.Room),
			NumberOfGuests: l.NumberOfGuests,
			Price:          l.Price,
		}
	}

	return &SummaryResponse{
		BookingDays:   s.BookingDays,
		Lines:         lines,
		TotalPrice:    s.TotalPrice,
		DepositAmount: s.DepositAmount,
	}
}

type NotificationResponse struct {
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotificationResponses(notes []notify.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(notes))
	for i, n := range notes {
		out[i] = NotificationResponse{
			Severity:  string(n.Severity),
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}
