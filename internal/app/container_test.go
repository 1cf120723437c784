package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/hotel-booking-backend/internal/auth"
	"github.com/nekogravitycat/hotel-booking-backend/internal/auth/authtest"
	"github.com/nekogravitycat/hotel-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/hotel-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/hotel-booking-backend/internal/hotelapi"
	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/response"
	workflowHttp "github.com/nekogravitycat/hotel-booking-backend/internal/workflow/http"
)

type memRepository struct {
	mu       sync.Mutex
	receipts map[string]*booking.Receipt
}

func (m *memRepository) Create(ctx context.Context, r *booking.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.receipts[r.BookingID]; ok {
		return booking.ErrReceiptExists
	}
	m.receipts[r.BookingID] = r
	return nil
}

func (m *memRepository) GetByID(ctx context.Context, id string) (*booking.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.receipts[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return r, nil
}

func (m *memRepository) List(ctx context.Context, f booking.Filter) ([]*booking.Receipt, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*booking.Receipt
	for _, r := range m.receipts {
		if r.UserID == f.UserID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

const testSecret = "test-secret"

// fakeHotelAPI serves two rooms per slot and accepts every booking.
func fakeHotelAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rooms/available", func(w http.ResponseWriter, r *http.Request) {
		var filter struct {
			RoomsAndGuests []json.RawMessage `json:"roomsAndGuests"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("filter")), &filter))

		slots := make([]any, len(filter.RoomsAndGuests))
		for i := range slots {
			slots[i] = []map[string]any{
				{"id": "std", "roomNumber": "101", "roomClass": map[string]any{"className": "Standard", "capacity": 2, "basePrice": 100000}},
				{"id": "dlx", "roomNumber": "201", "roomClass": map[string]any{"className": "Deluxe", "capacity": 4, "basePrice": 245000}},
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": slots})
	})
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"data":{"id":"bk-100"}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return NewContainer(Config{
		JWTSecret: testSecret,
		HotelAPI: hotelapi.Config{
			BaseURL: fakeHotelAPI(t).URL,
			Timeout: 2 * time.Second,
		},
		HotelLocation: time.UTC,
		SessionTTL:    time.Hour,
		BookingRepo:   &memRepository{receipts: map[string]*booking.Receipt{}},
	})
}

func executeRequest(router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBookingFlow(t *testing.T) {
	c := newTestContainer(t)
	router := c.Router

	guestToken := authtest.Token(t, testSecret, "guest-1", "guest@hotel.test", auth.RoleGuest)
	staffToken := authtest.Token(t, testSecret, "staff-1", "staff@hotel.test", "Receptionist")
	otherToken := authtest.Token(t, testSecret, "guest-2", "other@hotel.test", auth.RoleGuest)

	checkIn := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	checkOut := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")

	var sessionID string
	var bookingID string

	t.Run("Create session anonymously", func(t *testing.T) {
		w := executeRequest(router, "POST", "/v1/sessions", nil, "")
		require.Equal(t, http.StatusCreated, w.Code)

		var resp workflowHttp.SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "idle", resp.State)
		assert.Nil(t, resp.Requirements)
		sessionID = resp.ID
	})

	t.Run("Search requires dates", func(t *testing.T) {
		w := executeRequest(router, "POST", "/v1/sessions/"+sessionID+"/search", workflowHttp.SearchRequest{
			Rooms: []workflowHttp.WishedRoomRequest{{NumberOfGuests: 2}},
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "please select dates", resp.Error)
	})

	t.Run("Search as guest claims the session", func(t *testing.T) {
		w := executeRequest(router, "POST", "/v1/sessions/"+sessionID+"/search", workflowHttp.SearchRequest{
			CheckIn:  checkIn,
			CheckOut: checkOut,
			Rooms:    []workflowHttp.WishedRoomRequest{{NumberOfGuests: 2}, {NumberOfGuests: 3}},
		}, guestToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp workflowHttp.SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Slots, 2)
		assert.Len(t, resp.Slots[0], 2)
		assert.Equal(t, []int{2, 3}, resp.Requirements.Rooms)
		assert.Equal(t, 3, resp.Summary.BookingDays)
	})

	t.Run("Other users are forbidden", func(t *testing.T) {
		w := executeRequest(router, "GET", "/v1/sessions/"+sessionID, nil, otherToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = executeRequest(router, "GET", "/v1/sessions/"+sessionID, nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Select rooms", func(t *testing.T) {
		w := executeRequest(router, "PUT", "/v1/sessions/"+sessionID+"/slots/1/room", workflowHttp.SelectRoomRequest{RoomID: "dlx"}, guestToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = executeRequest(router, "PUT", "/v1/sessions/"+sessionID+"/slots/0/room", workflowHttp.SelectRoomRequest{RoomID: "std"}, guestToken)
		require.Equal(t, http.StatusOK, w.Code)

		var resp workflowHttp.SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []workflowHttp.ChosenRoomResponse{{Slot: 0, RoomID: "std"}, {Slot: 1, RoomID: "dlx"}}, resp.ChosenRooms)
		assert.EqualValues(t, 1035000, resp.Summary.TotalPrice)
		assert.EqualValues(t, 104000, resp.Summary.DepositAmount)

		w = executeRequest(router, "PUT", "/v1/sessions/"+sessionID+"/slots/7/room", workflowHttp.SelectRoomRequest{RoomID: "std"}, guestToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Active slot", func(t *testing.T) {
		w := executeRequest(router, "PUT", "/v1/sessions/"+sessionID+"/active-slot", gin.H{"slot": 1}, guestToken)
		require.Equal(t, http.StatusOK, w.Code)

		var resp workflowHttp.SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.ActiveSlot)

		w = executeRequest(router, "PUT", "/v1/sessions/"+sessionID+"/active-slot", gin.H{}, guestToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid phone is rejected", func(t *testing.T) {
		w := executeRequest(router, "POST", "/v1/sessions/"+sessionID+"/booking", workflowHttp.SubmitBookingRequest{
			Email:       "guest@hotel.test",
			PhoneNumber: "12",
		}, guestToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid phone number.", resp.Error)
	})

	t.Run("Submit booking", func(t *testing.T) {
		w := executeRequest(router, "POST", "/v1/sessions/"+sessionID+"/booking", workflowHttp.SubmitBookingRequest{
			Email:       "guest@hotel.test",
			PhoneNumber: "0912345678",
		}, guestToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp bookingHttp.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "bk-100", resp.BookingID)
		assert.Equal(t, checkIn, resp.CheckIn)
		assert.EqualValues(t, 104000, resp.DepositAmount)
		bookingID = resp.BookingID
	})

	t.Run("Notifications drain", func(t *testing.T) {
		w := executeRequest(router, "GET", "/v1/sessions/"+sessionID+"/notifications", nil, guestToken)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []workflowHttp.NotificationResponse `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Items)
		last := resp.Items[len(resp.Items)-1]
		assert.Equal(t, "success", last.Severity)
		assert.Equal(t, "booking created.", last.Message)

		w = executeRequest(router, "GET", "/v1/sessions/"+sessionID+"/notifications", nil, guestToken)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Items)
	})

	t.Run("Receipts", func(t *testing.T) {
		w := executeRequest(router, "GET", "/v1/bookings", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = executeRequest(router, "GET", "/v1/bookings", nil, guestToken)
		require.Equal(t, http.StatusOK, w.Code)
		var page response.PageResponse[bookingHttp.BookingResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 1, page.Total)

		w = executeRequest(router, "GET", "/v1/bookings/"+bookingID, nil, guestToken)
		assert.Equal(t, http.StatusOK, w.Code)

		w = executeRequest(router, "GET", "/v1/bookings/"+bookingID, nil, otherToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Close session", func(t *testing.T) {
		w := executeRequest(router, "DELETE", "/v1/sessions/"+sessionID, nil, guestToken)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = executeRequest(router, "GET", "/v1/sessions/"+sessionID, nil, guestToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Staff cannot select rooms", func(t *testing.T) {
		w := executeRequest(router, "POST", "/v1/sessions", nil, staffToken)
		require.Equal(t, http.StatusCreated, w.Code)
		var resp workflowHttp.SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		w = executeRequest(router, "POST", "/v1/sessions/"+resp.ID+"/search", workflowHttp.SearchRequest{
			CheckIn:  checkIn,
			CheckOut: checkOut,
			Rooms:    []workflowHttp.WishedRoomRequest{{NumberOfGuests: 1}},
		}, staffToken)
		require.Equal(t, http.StatusOK, w.Code)

		w = executeRequest(router, "PUT", "/v1/sessions/"+resp.ID+"/slots/0/room", workflowHttp.SelectRoomRequest{RoomID: "std"}, staffToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Unknown and malformed session ids", func(t *testing.T) {
		w := executeRequest(router, "GET", "/v1/sessions/not-a-uuid", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = executeRequest(router, "GET", "/v1/sessions/00000000-0000-0000-0000-000000000000", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
