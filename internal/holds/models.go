package holds

import "time"

// Hold is a short-lived, advisory seat claim made by a partner before the
// final booking decision. Holds never touch the availability ledger: the
// seats are only consumed when the hold is confirmed, against live stock.
type Hold struct {
	ID           string    `json:"id"`
	PackageCode  string    `json:"package_code"`
	TravelDate   time.Time `json:"travel_date"`
	Adults       int       `json:"adults"`
	Children     int       `json:"children"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Seats is the total traveler count held.
func (h *Hold) Seats() int {
	return h.Adults + h.Children
}

// Expired reports whether the hold is past its deadline.
func (h *Hold) Expired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}
