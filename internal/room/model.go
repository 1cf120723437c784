package room

// Room is a bookable hotel room as reported by the hotel API.
// Rooms are owned by the hotel API; this service only keeps read-only copies
// taken from availability searches.
type Room struct {
	ID         string    `json:"id"`
	RoomNumber string    `json:"roomNumber"`
	Floor      Floor     `json:"floor"`
	RoomClass  Class     `json:"roomClass"`
	Features   []Feature `json:"features"`
	Images     []string  `json:"images"`
}

type Floor struct {
	ID          string `json:"id"`
	FloorNumber string `json:"floorNumber"`
}

// Class groups rooms sharing a capacity and a nightly rate.
type Class struct {
	ID        string `json:"id"`
	ClassName string `json:"className"`
	Capacity  int    `json:"capacity"`
	// BasePrice is the price of one night in whole currency units.
	BasePrice int64 `json:"basePrice"`
}

type Feature struct {
	FeatureID string `json:"featureId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}
