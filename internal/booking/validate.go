package booking

import (
	"regexp"
	"strings"

	"github.com/nekogravitycat/hotel-booking-backend/internal/availability"
	"github.com/nekogravitycat/hotel-booking-backend/internal/selection"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\(?([0-9]{3})\)?[-. ]?([0-9]{3})[-. ]?([0-9]{4})$`)
)

// Contact holds the details the hotel uses to reach the guest.
type Contact struct {
	Email       string
	PhoneNumber string
}

// ValidateContact checks email then phone, returning the first problem.
func ValidateContact(c Contact) error {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}

	phone := strings.TrimSpace(c.PhoneNumber)
	if phone == "" {
		return ErrPhoneRequired
	}
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidateSelection requires a search and a chosen room for every slot of it.
func ValidateSelection(req *availability.Requirements, chosen []selection.ChosenRoom) error {
	if req == nil {
		return ErrNoSearch
	}
	if len(chosen) < len(req.Guests) {
		return ErrNotEnoughRooms
	}
	return nil
}
