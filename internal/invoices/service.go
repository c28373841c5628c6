package invoices

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourbook/internal/shared/utils/codes"
)

// Item describes the seats billed for one reservation. The issuer turns each
// item into up to two lines (adult, child).
type Item struct {
	ReservationID   uuid.UUID
	ReservationCode string
	PackageTitle    string
	Adults          int
	Children        int
	PriceAdult      float64
	PriceChild      float64
}

type Service interface {
	// Issue builds and persists one ISSUED invoice covering every item.
	// An empty payment method records the web default. Must run inside the
	// booking transaction.
	Issue(ctx context.Context, currency, paymentMethod string, items []Item) (*Invoice, error)

	GetByCode(ctx context.Context, code string) (*Invoice, error)

	// VoidByReservation voids every ISSUED invoice linked to the
	// reservation. Already-void invoices are left untouched.
	VoidByReservation(ctx context.Context, reservationID uuid.UUID) error
}

type service struct {
	repo    Repository
	taxRate float64
	now     func() time.Time
}

func NewService(repo Repository, taxRate float64) Service {
	return &service{repo: repo, taxRate: taxRate, now: func() time.Time { return time.Now().UTC() }}
}

// NewServiceWithClock is used by tests that need a fixed issue date.
func NewServiceWithClock(repo Repository, taxRate float64, now func() time.Time) Service {
	return &service{repo: repo, taxRate: taxRate, now: now}
}

const codeAttempts = 3

// DefaultPaymentMethod is recorded when the caller does not say how the
// booking was paid.
const DefaultPaymentMethod = "WEB"

func (s *service) Issue(ctx context.Context, currency, paymentMethod string, items []Item) (*Invoice, error) {
	if len(items) == 0 {
		return nil, errors.New("cannot issue an invoice with no items")
	}
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	lines := BuildLines(items)

	var subtotal float64
	for _, line := range lines {
		subtotal += line.LineTotal
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * s.taxRate)

	reservationIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		reservationIDs = append(reservationIDs, item.ReservationID)
	}

	now := s.now()
	var lastErr error
	for attempt := 0; attempt < codeAttempts; attempt++ {
		invoice := &Invoice{
			Code:          codes.New("FAC", now),
			Status:        StatusIssued,
			Subtotal:      subtotal,
			TaxAmount:     tax,
			Total:         round2(subtotal + tax),
			Currency:      currency,
			PaymentMethod: paymentMethod,
			IssuedAt:      now,
			Lines:         lines,
		}
		err := s.repo.Create(ctx, invoice, reservationIDs)
		if err == nil {
			return invoice, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("invoice code collision after %d attempts: %w", codeAttempts, lastErr)
}

func (s *service) GetByCode(ctx context.Context, code string) (*Invoice, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *service) VoidByReservation(ctx context.Context, reservationID uuid.UUID) error {
	found, err := s.repo.FindByReservation(ctx, reservationID)
	if err != nil {
		return err
	}
	for i := range found {
		if found[i].Status != StatusIssued {
			continue
		}
		if err := s.repo.Void(ctx, &found[i]); err != nil {
			return err
		}
	}
	return nil
}

// BuildLines expands billing items into ordered invoice lines, one per
// traveler class per reservation, zero-quantity classes skipped.
func BuildLines(items []Item) []InvoiceLine {
	lines := make([]InvoiceLine, 0, len(items)*2)
	lineNo := 1
	for _, item := range items {
		if item.Adults > 0 {
			lines = append(lines, InvoiceLine{
				LineNo:      lineNo,
				Description: fmt.Sprintf("%s - adult (%s)", item.PackageTitle, item.ReservationCode),
				Quantity:    item.Adults,
				UnitPrice:   item.PriceAdult,
				LineTotal:   round2(float64(item.Adults) * item.PriceAdult),
			})
			lineNo++
		}
		if item.Children > 0 {
			lines = append(lines, InvoiceLine{
				LineNo:      lineNo,
				Description: fmt.Sprintf("%s - child (%s)", item.PackageTitle, item.ReservationCode),
				Quantity:    item.Children,
				UnitPrice:   item.PriceChild,
				LineTotal:   round2(float64(item.Children) * item.PriceChild),
			})
			lineNo++
		}
	}
	return lines
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
