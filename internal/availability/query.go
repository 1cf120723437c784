package availability

import (
	"encoding/json"
	"fmt"
)

// Query is the filter understood by the hotel API availability endpoint.
type Query struct {
	DateRange      QueryDateRange `json:"dateRange"`
	RoomsAndGuests []GuestRange   `json:"roomsAndGuests"`
}

type QueryDateRange struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

// GuestRange bounds the capacity of the rooms acceptable for one slot.
type GuestRange struct {
	MinGuests int `json:"minGuests"`
	MaxGuests int `json:"maxGuests"`
}

// BuildQuery turns the selected dates and wished rooms into a search filter.
// It performs no validation beyond requiring a complete date range.
func BuildQuery(dr DateRange, guests []WishedRoom) (Query, error) {
	if dr.From.IsZero() {
		return Query{}, ErrDatesMissing
	}
	if dr.To.IsZero() {
		return Query{}, ErrCheckOutMissing
	}

	q := Query{
		DateRange: QueryDateRange{
			CheckIn:  DateOnly(dr.From).Format(DateLayout),
			CheckOut: DateOnly(dr.To).Format(DateLayout),
		},
		RoomsAndGuests: make([]GuestRange, len(guests)),
	}
	for i, g := range guests {
		q.RoomsAndGuests[i] = GuestRange{
			MinGuests: g.NumberOfGuests,
			MaxGuests: MaxGuestsPerRoom,
		}
	}
	return q, nil
}

// Encode serializes the query into the value of the "filter" query parameter.
func (q Query) Encode() (string, error) {
	b, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("encode availability query: %w", err)
	}
	return string(b), nil
}
