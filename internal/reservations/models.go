package reservations

import (
	"time"

	"github.com/google/uuid"
)

// Origin identifies the sales channel a reservation came through.
type Origin string

const (
	OriginWeb         Origin = "WEB"
	OriginCart        Origin = "CART"
	OriginSOAP        Origin = "SOAP"
	OriginIntegration Origin = "INTEGRATION"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCancelled Status = "CANCELLED"
)

// Reservation is one committed booking for a package on a travel date.
// Prices are frozen into TotalAmount at booking time; later catalog edits
// never reprice a reservation.
type Reservation struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code         string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	PackageID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"package_id"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	TravelDate   time.Time  `gorm:"type:date;not null" json:"travel_date"`
	Adults       int        `gorm:"not null" json:"adults"`
	Children     int        `gorm:"not null;default:0" json:"children"`
	TotalAmount  float64    `gorm:"not null" json:"total_amount"`
	Currency     string     `gorm:"type:varchar(3);not null" json:"currency"`
	Origin       Origin     `gorm:"type:varchar(15);not null" json:"origin"`
	Status       Status     `gorm:"type:varchar(10);default:'ACTIVE';not null" json:"status"`
	ContactName  string     `gorm:"type:varchar(200)" json:"contact_name,omitempty"`
	ContactEmail string     `gorm:"type:varchar(200)" json:"contact_email,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

// Seats is the total traveler count, the unit the ledger counts in.
func (r *Reservation) Seats() int {
	return r.Adults + r.Children
}
