package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tourbook/internal/shared/database"
)

type Repository interface {
	// Upsert inserts the line or, when the user already has this package
	// and date in the cart, replaces its party and frozen prices.
	Upsert(ctx context.Context, item *Item) error

	GetByID(ctx context.Context, userID, itemID uuid.UUID) (*Item, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Item, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error

	// ClearUser removes every line. Called inside the checkout transaction
	// so an aborted checkout keeps the cart intact.
	ClearUser(ctx context.Context, userID uuid.UUID) error
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

func (r *repository) Upsert(ctx context.Context, item *Item) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "package_id"}, {Name: "travel_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"adults", "children", "unit_price_adult", "unit_price_child", "updated_at",
			}),
		}).
		Create(item).Error
}

func (r *repository) GetByID(ctx context.Context, userID, itemID uuid.UUID) (*Item, error) {
	var item Item
	err := r.conn(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	var items []Item
	err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	result := r.conn(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&Item{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) ClearUser(ctx context.Context, userID uuid.UUID) error {
	return r.conn(ctx).
		Where("user_id = ?", userID).
		Delete(&Item{}).Error
}
