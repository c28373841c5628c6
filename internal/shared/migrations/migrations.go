// Package migrations owns schema setup. It lives apart from the database
// package so the domain packages it imports can themselves depend on the
// database transaction helpers.
package migrations

import (
	"gorm.io/gorm"

	"tourbook/internal/auth"
	"tourbook/internal/availability"
	"tourbook/internal/cart"
	"tourbook/internal/catalog"
	"tourbook/internal/invoices"
	"tourbook/internal/reservations"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&auth.User{},
		&catalog.Package{},
		&availability.LedgerEntry{},
		&reservations.Reservation{},
		&invoices.Invoice{},
		&invoices.InvoiceLine{},
		&invoices.InvoiceReservation{},
		&cart.Item{},
	); err != nil {
		return err
	}
	return migrateConstraints(db)
}

// migrateConstraints adds the uniqueness the booking engine leans on beyond
// what AutoMigrate derives from struct tags.
func migrateConstraints(db *gorm.DB) error {
	// One ledger row per package and date; the ON CONFLICT DO NOTHING
	// insert race depends on this.
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_package_date
		ON availability_ledger (package_id, travel_date);
	`).Error
}
