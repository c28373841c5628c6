package integration

type QuoteItemRequest struct {
	PackageCode string `json:"package_code" binding:"required"`
	Adults      int    `json:"adults" binding:"required,min=1"`
	Children    int    `json:"children" binding:"min=0"`
}

type QuoteRequest struct {
	Items []QuoteItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CreateHoldRequest struct {
	PackageCode  string `json:"package_code" binding:"required"`
	TravelDate   string `json:"travel_date" binding:"required"` // YYYY-MM-DD
	Adults       int    `json:"adults" binding:"required,min=1"`
	Children     int    `json:"children" binding:"min=0"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`

	// TTLSeconds of zero means the server default. Out-of-range values are
	// clamped, not rejected.
	TTLSeconds int `json:"ttl_seconds" binding:"min=0"`
}

type ConfirmHoldRequest struct {
	// PaymentMethod is recorded on the invoice; empty means WEB.
	PaymentMethod string `json:"payment_method" binding:"max=30"`
}
