package reservations

import "time"

type ReservationResponse struct {
	Code        string     `json:"code"`
	PackageCode string     `json:"package_code"`
	TravelDate  string     `json:"travel_date"`
	Adults      int        `json:"adults"`
	Children    int        `json:"children"`
	TotalAmount float64    `json:"total_amount"`
	Currency    string     `json:"currency"`
	Origin      string     `json:"origin"`
	Status      string     `json:"status"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CheckoutResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	InvoiceCode  string                `json:"invoice_code"`
	Subtotal     float64               `json:"subtotal"`
	TaxAmount    float64               `json:"tax_amount"`
	Total        float64               `json:"total"`
	Currency     string                `json:"currency"`
}
