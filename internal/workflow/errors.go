package workflow

import (
	"net/http"

	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/apperror"
)

var (
	// ErrInFlight is returned when a search or submission is already running
	// for the session. Callers treat it as an ignored request, not a failure.
	ErrInFlight = apperror.New(http.StatusAccepted, "request ignored, another one is in progress")

	ErrSessionNotFound = apperror.New(http.StatusNotFound, "session not found")
	ErrSessionClosed   = apperror.New(http.StatusGone, "session has been closed")
	ErrForbidden       = apperror.New(http.StatusForbidden, "session belongs to another user")
	ErrLoginRequired   = apperror.New(http.StatusForbidden, "please log in to book rooms.")
	ErrGuestOnly       = apperror.New(http.StatusForbidden, "only guest accounts can book rooms.")
	ErrRoomNotOffered  = apperror.New(http.StatusBadRequest, "room is not available for this slot")
)
