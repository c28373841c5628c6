package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Package defines a bookable travel package. The booking engine treats it as
// read-only: prices are read at booking time and frozen into the reservation
// and its invoice.
type Package struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code               string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`
	Title              string    `gorm:"type:varchar(200);not null" json:"title"`
	Description        string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL           string    `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	PriceAdult         float64   `gorm:"not null" json:"price_adult"`
	PriceChild         float64   `gorm:"not null" json:"price_child"`
	Currency           string    `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	DurationDays       int       `gorm:"default:1" json:"duration_days"`
	CancellationPolicy string    `gorm:"type:varchar(300)" json:"cancellation_policy,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName sets the table name for Package
func (Package) TableName() string {
	return "packages"
}
