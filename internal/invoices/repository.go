package invoices

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourbook/internal/shared/database"
)

type Repository interface {
	// Create persists the invoice, its lines and its reservation links.
	// Must run inside the booking transaction so a failed checkout leaves
	// no orphan invoice behind.
	Create(ctx context.Context, invoice *Invoice, reservationIDs []uuid.UUID) error

	GetByCode(ctx context.Context, code string) (*Invoice, error)

	// FindByReservation returns the invoices linked to a reservation.
	FindByReservation(ctx context.Context, reservationID uuid.UUID) ([]Invoice, error)

	// Void flips an ISSUED invoice to VOID. Voiding a VOID invoice is a no-op.
	Void(ctx context.Context, invoice *Invoice) error
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

func (r *repository) Create(ctx context.Context, invoice *Invoice, reservationIDs []uuid.UUID) error {
	conn := r.conn(ctx)

	if err := conn.Create(invoice).Error; err != nil {
		return err
	}

	links := make([]InvoiceReservation, 0, len(reservationIDs))
	for _, id := range reservationIDs {
		links = append(links, InvoiceReservation{InvoiceID: invoice.ID, ReservationID: id})
	}
	if len(links) > 0 {
		if err := conn.Create(&links).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Invoice, error) {
	var invoice Invoice
	err := r.conn(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Where("code = ?", code).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) FindByReservation(ctx context.Context, reservationID uuid.UUID) ([]Invoice, error) {
	var invoiceIDs []uuid.UUID
	err := r.conn(ctx).
		Model(&InvoiceReservation{}).
		Where("reservation_id = ?", reservationID).
		Pluck("invoice_id", &invoiceIDs).Error
	if err != nil {
		return nil, err
	}
	if len(invoiceIDs) == 0 {
		return nil, nil
	}

	var invoices []Invoice
	err = r.conn(ctx).Where("id IN ?", invoiceIDs).Find(&invoices).Error
	return invoices, err
}

func (r *repository) Void(ctx context.Context, invoice *Invoice) error {
	if invoice.Status == StatusVoid {
		return nil
	}

	now := time.Now().UTC()
	err := r.conn(ctx).Model(&Invoice{}).
		Where("id = ? AND status = ?", invoice.ID, StatusIssued).
		Updates(map[string]interface{}{
			"status":    StatusVoid,
			"voided_at": now,
		}).Error
	if err != nil {
		return err
	}
	invoice.Status = StatusVoid
	invoice.VoidedAt = &now
	return nil
}
