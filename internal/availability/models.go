package availability

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntry tracks seat consumption for one package on one travel date.
// Rows are created lazily: a (package, date) pair with no row means nothing
// has been sold yet and the default capacity applies.
//
// Invariant: 0 <= ReservedCount <= TotalCapacity, enforced under row locks.
type LedgerEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PackageID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_package_date" json:"package_id"`
	TravelDate    time.Time `gorm:"type:date;not null;uniqueIndex:idx_ledger_package_date" json:"travel_date"`
	TotalCapacity int       `gorm:"not null" json:"total_capacity"`
	ReservedCount int       `gorm:"not null;default:0" json:"reserved_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName sets the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "availability_ledger"
}

// Remaining is the number of seats still bookable.
func (e *LedgerEntry) Remaining() int {
	return e.TotalCapacity - e.ReservedCount
}

// Snapshot is the lock-free availability view returned to browsers and
// partners. It is advisory: only the locked ledger row decides a booking.
type Snapshot struct {
	PackageID     uuid.UUID `json:"package_id"`
	PackageCode   string    `json:"package_code"`
	TravelDate    string    `json:"travel_date"`
	TotalCapacity int       `json:"total_capacity"`
	ReservedCount int       `json:"reserved_count"`
	Remaining     int       `json:"remaining"`
	Available     bool      `json:"available"`
}
