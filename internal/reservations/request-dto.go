package reservations

type BookingItemRequest struct {
	PackageCode string `json:"package_code" binding:"required"`
	TravelDate  string `json:"travel_date" binding:"required"` // YYYY-MM-DD
	Adults      int    `json:"adults" binding:"required,min=1"`
	Children    int    `json:"children" binding:"min=0"`
}

type CheckoutRequest struct {
	BookingItemRequest
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`

	// PaymentMethod is optional; the invoice records WEB when omitted.
	PaymentMethod string `json:"payment_method" binding:"max=30"`
}

type BatchCheckoutRequest struct {
	Items         []BookingItemRequest `json:"items" binding:"required,min=1,dive"`
	ContactName   string               `json:"contact_name"`
	ContactEmail  string               `json:"contact_email" binding:"omitempty,email"`
	PaymentMethod string               `json:"payment_method" binding:"max=30"`
}
