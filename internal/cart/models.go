package cart

import (
	"time"

	"github.com/google/uuid"
)

// Item is one line in a user's durable cart. Unit prices are frozen when the
// line is added so the quote stays stable while the user shops; the final
// booking reprices from the catalog inside the checkout transaction.
type Item struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_package_date" json:"user_id"`
	PackageID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_package_date" json:"package_id"`
	TravelDate     time.Time `gorm:"type:date;not null;uniqueIndex:idx_cart_user_package_date" json:"travel_date"`
	Adults         int       `gorm:"not null" json:"adults"`
	Children       int       `gorm:"not null;default:0" json:"children"`
	UnitPriceAdult float64   `gorm:"not null" json:"unit_price_adult"`
	UnitPriceChild float64   `gorm:"not null" json:"unit_price_child"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName sets the table name for Item
func (Item) TableName() string {
	return "cart_items"
}

// Seats is the total traveler count on the line.
func (i *Item) Seats() int {
	return i.Adults + i.Children
}
