package integration

import "time"

type ServiceSummary struct {
	Code         string  `json:"code"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	PriceAdult   float64 `json:"price_adult"`
	PriceChild   float64 `json:"price_child"`
	Currency     string  `json:"currency"`
	DurationDays int     `json:"duration_days"`
}

type QuoteLineResponse struct {
	PackageCode string  `json:"package_code"`
	Adults      int     `json:"adults"`
	Children    int     `json:"children"`
	LineTotal   float64 `json:"line_total"`
}

type QuoteResponse struct {
	Lines    []QuoteLineResponse `json:"lines"`
	Subtotal float64             `json:"subtotal"`
	Tax      float64             `json:"tax"`
	Total    float64             `json:"total"`
	Currency string              `json:"currency"`
}

type HoldResponse struct {
	HoldID      string    `json:"hold_id"`
	PackageCode string    `json:"package_code"`
	TravelDate  string    `json:"travel_date"`
	Adults      int       `json:"adults"`
	Children    int       `json:"children"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ConfirmHoldResponse struct {
	ReservationCode string  `json:"reservation_code"`
	InvoiceCode     string  `json:"invoice_code"`
	TotalAmount     float64 `json:"total_amount"`
	Currency        string  `json:"currency"`
}
