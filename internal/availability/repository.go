package availability

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tourbook/internal/shared/database"
)

// Repository owns the availability ledger rows. Locking methods must run
// inside a database.TxManager transaction so the row lock spans the whole
// booking decision.
type Repository interface {
	// Ensure lazily creates the ledger row for (packageID, date) with the
	// given capacity. Safe to call concurrently: losers of the insert race
	// are no-ops.
	Ensure(ctx context.Context, packageID uuid.UUID, date time.Time, capacity int) error

	// LockAndGet reads the ledger row under FOR UPDATE. Returns
	// ErrNoTransaction when called outside WithTx.
	LockAndGet(ctx context.Context, packageID uuid.UUID, date time.Time) (*LedgerEntry, error)

	// AddReserved adjusts reserved_count by delta (positive to consume,
	// negative to release) on a row previously locked in this transaction.
	AddReserved(ctx context.Context, entry *LedgerEntry, delta int) error

	// Get reads the ledger row without locking. Returns
	// gorm.ErrRecordNotFound when no row exists yet.
	Get(ctx context.Context, packageID uuid.UUID, date time.Time) (*LedgerEntry, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	if tx := database.TxFrom(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *repository) Ensure(ctx context.Context, packageID uuid.UUID, date time.Time, capacity int) error {
	entry := LedgerEntry{
		PackageID:     packageID,
		TravelDate:    dateOnly(date),
		TotalCapacity: capacity,
		ReservedCount: 0,
	}
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "package_id"}, {Name: "travel_date"}},
			DoNothing: true,
		}).
		Create(&entry).Error
}

func (r *repository) LockAndGet(ctx context.Context, packageID uuid.UUID, date time.Time) (*LedgerEntry, error) {
	tx := database.TxFrom(ctx)
	if tx == nil {
		return nil, ErrNoTransaction
	}

	var entry LedgerEntry
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("package_id = ? AND travel_date = ?", packageID, dateOnly(date)).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) AddReserved(ctx context.Context, entry *LedgerEntry, delta int) error {
	tx := database.TxFrom(ctx)
	if tx == nil {
		return ErrNoTransaction
	}

	next := entry.ReservedCount + delta
	if next < 0 || next > entry.TotalCapacity {
		return ErrCapacityInvariant
	}

	err := tx.Model(&LedgerEntry{}).
		Where("id = ?", entry.ID).
		Update("reserved_count", next).Error
	if err != nil {
		return err
	}
	entry.ReservedCount = next
	return nil
}

func (r *repository) Get(ctx context.Context, packageID uuid.UUID, date time.Time) (*LedgerEntry, error) {
	var entry LedgerEntry
	err := r.conn(ctx).
		Where("package_id = ? AND travel_date = ?", packageID, dateOnly(date)).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// dateOnly strips the time component so every ledger row keys on midnight UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsNotFound reports whether an error means the ledger row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
