package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/hotel-booking-backend/internal/auth"
	"github.com/nekogravitycat/hotel-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/hotel-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/hotel-booking-backend/internal/workflow"
)

type Handler struct {
	registry *workflow.Registry
}

func NewHandler(registry *workflow.Registry) *Handler {
	return &Handler{registry: registry}
}

// Create opens a new booking session.
func (h *Handler) Create(c *gin.Context) {
	s := h.registry.Create(auth.GetPrincipal(c))

	v, err := s.View(auth.GetPrincipal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewSessionResponse(v))
}

func (h *Handler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	v, err := s.View(auth.GetPrincipal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSessionResponse(v))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id", "details": err.Error()})
		return
	}

	if err := h.registry.Close(req.ID, auth.GetPrincipal(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search runs an availability search and returns the refreshed session.
func (h *Handler) Search(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	v, err := s.Search(c.Request.Context(), auth.GetPrincipal(c), req.DateRange(), req.WishedRooms())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSessionResponse(v))
}

func (h *Handler) SetActiveSlot(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req ActiveSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	v, err := s.SetActiveSlot(c.Request.Context(), auth.GetPrincipal(c), *req.Slot)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSessionResponse(v))
}

// SelectRoom chooses a room for a slot, replacing an earlier choice.
func (h *Handler) SelectRoom(c *gin.Context) {
	var uri SlotRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	s, err := h.registry.Get(uri.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req SelectRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	v, err := s.SelectRoom(c.Request.Context(), auth.GetPrincipal(c), uri.Slot, req.RoomID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSessionResponse(v))
}

func (h *Handler) RemoveRoom(c *gin.Context) {
	var uri RoomURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	s, err := h.registry.Get(uri.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	v, err := s.RemoveRoom(c.Request.Context(), auth.GetPrincipal(c), uri.Slot, uri.RoomID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSessionResponse(v))
}

// SubmitBooking books the chosen rooms and returns the recorded receipt.
func (h *Handler) SubmitBooking(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	contact := booking.Contact{Email: req.Email, PhoneNumber: req.PhoneNumber}
	receipt, err := s.Submit(c.Request.Context(), auth.GetPrincipal(c), contact)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, bookingHttp.NewBookingResponse(receipt))
}

// Notifications returns the pending notifications and clears them.
func (h *Handler) Notifications(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	notes, err := s.Notifications(auth.GetPrincipal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": NewNotificationResponses(notes)})
}

// session resolves the :id path parameter, writing the error response when
// it cannot.
func (h *Handler) session(c *gin.Context) (*workflow.Session, bool) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id", "details": err.Error()})
		return nil, false
	}

	s, err := h.registry.Get(req.ID)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

// fail answers an ignored request with 202 and everything else through the
// shared error mapping.
func (h *Handler) fail(c *gin.Context, err error) {
	if workflow.IsIgnored(err) {
		c.JSON(http.StatusAccepted, gin.H{"status": "ignored"})
		return
	}
	response.Error(c, err)
}
