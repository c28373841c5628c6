package reservations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tourbook/internal/shared/database"
)

type Repository interface {
	Create(ctx context.Context, reservation *Reservation) error
	GetByCode(ctx context.Context, code string) (*Reservation, error)

	// GetByCodeForUpdate locks the reservation row for the rest of the
	// transaction. Requires an ambient tx.
	GetByCodeForUpdate(ctx context.Context, code string) (*Reservation, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]Reservation, error)

	// MarkCancelled flips the row to CANCELLED with the given timestamp.
	MarkCancelled(ctx context.Context, reservation *Reservation, at time.Time) error
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

func (r *repository) Create(ctx context.Context, reservation *Reservation) error {
	return r.conn(ctx).Create(reservation).Error
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Reservation, error) {
	var reservation Reservation
	err := r.conn(ctx).Where("code = ?", code).First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) GetByCodeForUpdate(ctx context.Context, code string) (*Reservation, error) {
	tx := database.TxFrom(ctx)
	if tx == nil {
		return nil, errors.New("locking reservation read requires a transaction")
	}

	var reservation Reservation
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Reservation, error) {
	var list []Reservation
	err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) MarkCancelled(ctx context.Context, reservation *Reservation, at time.Time) error {
	err := r.conn(ctx).Model(&Reservation{}).
		Where("id = ?", reservation.ID).
		Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_at": at,
		}).Error
	if err != nil {
		return err
	}
	reservation.Status = StatusCancelled
	reservation.CancelledAt = &at
	return nil
}
