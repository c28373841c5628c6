package notifications

// Event types emitted by the booking engine.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is the message published to Kafka after a booking
// transaction commits. Downstream consumers (email, partner callbacks) own
// delivery; the engine only fires and forgets.
type ReservationEvent struct {
	Type            string  `json:"type"`
	ReservationCode string  `json:"reservation_code"`
	PackageCode     string  `json:"package_code"`
	TravelDate      string  `json:"travel_date"`
	Seats           int     `json:"seats"`
	Total           float64 `json:"total"`
	Origin          string  `json:"origin"`
}
