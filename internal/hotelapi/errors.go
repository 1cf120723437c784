package hotelapi

import (
	"net/http"

	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/apperror"
)

var (
	// ErrNetwork covers transport failures, 5xx answers and an open circuit.
	ErrNetwork = apperror.New(http.StatusBadGateway, "hotel service is unavailable, please try again later.")
	// ErrValidation is a 400/422 answer; the wrapping AppError carries the
	// hotel API's own message.
	ErrValidation = apperror.New(http.StatusBadRequest, "the hotel service rejected the request.")
	// ErrConflict is a 409 answer.
	ErrConflict = apperror.New(http.StatusConflict, "the request conflicts with the current state of the hotel.")
)
