package reservations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourbook/internal/availability"
	"tourbook/internal/catalog"
	"tourbook/internal/invoices"
	"tourbook/internal/notifications"
	"tourbook/internal/shared/config"
	"tourbook/internal/shared/database"
	"tourbook/internal/shared/utils/codes"
	"tourbook/pkg/logger"
	"tourbook/pkg/metrics"
)

// BookingItem is one requested booking: a package, a travel date and a party.
type BookingItem struct {
	PackageCode string
	TravelDate  time.Time
	Adults      int
	Children    int
}

// Contact is optional traveler contact data frozen into the reservation.
type Contact struct {
	Name  string
	Email string
}

// BookingResult is the outcome of a committed booking transaction: the
// reservations plus the single invoice covering all of them.
type BookingResult struct {
	Reservations []*Reservation
	Invoice      *invoices.Invoice

	// PackageCodes maps package IDs back to their public codes so callers
	// can render responses without another catalog round trip.
	PackageCodes map[uuid.UUID]string
}

// Service is the booking coordinator. Every mutation of the availability
// ledger in the system goes through it, inside one postgres transaction per
// call.
type Service interface {
	// BookOne books a single item. The payment method is recorded on the
	// issued invoice; empty means the web default.
	BookOne(ctx context.Context, userID *uuid.UUID, item BookingItem, origin Origin, contact Contact, paymentMethod string) (*BookingResult, error)

	// BookMany books a batch atomically: either every item is reserved and
	// one invoice issued, or nothing is.
	BookMany(ctx context.Context, userID *uuid.UUID, items []BookingItem, origin Origin, contact Contact, paymentMethod string) (*BookingResult, error)

	// Cancel releases a reservation's seats, voids its invoices and flips
	// it to CANCELLED. Cancelling a cancelled reservation is a no-op
	// success. Self-service callers must own the reservation and respect
	// the cancellation window; operators may bypass the window when the
	// config flag allows it.
	Cancel(ctx context.Context, code string, userID *uuid.UUID, operator bool) (*Reservation, error)

	GetByCode(ctx context.Context, code string) (*Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Reservation, error)
}

type service struct {
	tx        database.TxManager
	repo      Repository
	ledger    availability.Repository
	catalog   catalog.Service
	invoices  invoices.Service
	publisher notifications.Publisher
	cfg       config.BookingConfig
	log       *logger.Logger
	now       func() time.Time
}

func NewService(
	tx database.TxManager,
	repo Repository,
	ledger availability.Repository,
	catalogService catalog.Service,
	invoiceService invoices.Service,
	publisher notifications.Publisher,
	cfg config.BookingConfig,
	log *logger.Logger,
) Service {
	return &service{
		tx:        tx,
		repo:      repo,
		ledger:    ledger,
		catalog:   catalogService,
		invoices:  invoiceService,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NewServiceWithClock is used by tests that need deterministic time.
func NewServiceWithClock(
	tx database.TxManager,
	repo Repository,
	ledger availability.Repository,
	catalogService catalog.Service,
	invoiceService invoices.Service,
	publisher notifications.Publisher,
	cfg config.BookingConfig,
	log *logger.Logger,
	now func() time.Time,
) Service {
	s := NewService(tx, repo, ledger, catalogService, invoiceService, publisher, cfg, log).(*service)
	s.now = now
	return s
}

func (s *service) BookOne(ctx context.Context, userID *uuid.UUID, item BookingItem, origin Origin, contact Contact, paymentMethod string) (*BookingResult, error) {
	return s.BookMany(ctx, userID, []BookingItem{item}, origin, contact, paymentMethod)
}

type resolvedItem struct {
	item BookingItem
	pkg  *catalog.Package
}

// pairKey identifies one ledger row. Batches lock their distinct pairs in
// ascending (packageID, date) order so two overlapping batches can never
// deadlock.
type pairKey struct {
	packageID uuid.UUID
	date      time.Time
}

func (s *service) BookMany(ctx context.Context, userID *uuid.UUID, items []BookingItem, origin Origin, contact Contact, paymentMethod string) (*BookingResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty booking batch", ErrInvalidRequest)
	}

	now := s.now()
	resolved := make([]resolvedItem, 0, len(items))
	for _, item := range items {
		if err := validateItem(item, now); err != nil {
			return nil, err
		}
		pkg, err := s.catalog.GetByCode(ctx, item.PackageCode)
		if err != nil {
			return nil, err
		}
		item.TravelDate = dateOnly(item.TravelDate)
		resolved = append(resolved, resolvedItem{item: item, pkg: pkg})
	}

	currency := resolved[0].pkg.Currency
	for _, ri := range resolved {
		if ri.pkg.Currency != currency {
			return nil, fmt.Errorf("%w: mixed currencies in one batch", ErrInvalidRequest)
		}
	}

	seatsByPair := make(map[pairKey]int)
	codeByPackage := make(map[uuid.UUID]string)
	for _, ri := range resolved {
		key := pairKey{packageID: ri.pkg.ID, date: ri.item.TravelDate}
		seatsByPair[key] += ri.item.Adults + ri.item.Children
		codeByPackage[ri.pkg.ID] = ri.pkg.Code
	}
	orderedPairs := sortPairs(seatsByPair)

	result := &BookingResult{PackageCodes: codeByPackage}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		for _, key := range orderedPairs {
			if err := s.ledger.Ensure(ctx, key.packageID, key.date, s.cfg.DefaultCapacity); err != nil {
				return err
			}
			entry, err := s.ledger.LockAndGet(ctx, key.packageID, key.date)
			if err != nil {
				return err
			}

			needed := seatsByPair[key]
			if entry.Remaining() < needed {
				s.log.LogCapacityRejected(ctx, codeByPackage[key.packageID],
					key.date.Format("2006-01-02"), needed, entry.Remaining())
				metrics.CapacityRejections.Inc()
				return &CapacityError{
					PackageCode: codeByPackage[key.packageID],
					TravelDate:  key.date,
					Requested:   needed,
					Remaining:   entry.Remaining(),
				}
			}

			if err := s.ledger.AddReserved(ctx, entry, needed); err != nil {
				if errors.Is(err, availability.ErrCapacityInvariant) {
					s.log.LogCapacityInvariantViolated(ctx, key.packageID.String(),
						key.date.Format("2006-01-02"), entry.ReservedCount, entry.TotalCapacity, needed)
				}
				return err
			}
		}

		invoiceItems := make([]invoices.Item, 0, len(resolved))
		for _, ri := range resolved {
			reservation, err := s.createReservation(ctx, userID, ri, origin, contact, now)
			if err != nil {
				return err
			}
			result.Reservations = append(result.Reservations, reservation)
			invoiceItems = append(invoiceItems, invoices.Item{
				ReservationID:   reservation.ID,
				ReservationCode: reservation.Code,
				PackageTitle:    ri.pkg.Title,
				Adults:          ri.item.Adults,
				Children:        ri.item.Children,
				PriceAdult:      ri.pkg.PriceAdult,
				PriceChild:      ri.pkg.PriceChild,
			})
		}

		invoice, err := s.invoices.Issue(ctx, currency, paymentMethod, invoiceItems)
		if err != nil {
			return err
		}
		result.Invoice = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, reservation := range result.Reservations {
		metrics.ReservationsCreated.WithLabelValues(string(origin)).Inc()
		s.log.LogReservationCreated(ctx, reservation.Code,
			codeByPackage[reservation.PackageID], string(origin), reservation.Seats())
		s.publish(ctx, notifications.ReservationEvent{
			Type:            notifications.EventReservationCreated,
			ReservationCode: reservation.Code,
			PackageCode:     codeByPackage[reservation.PackageID],
			TravelDate:      reservation.TravelDate.Format("2006-01-02"),
			Seats:           reservation.Seats(),
			Total:           reservation.TotalAmount,
			Origin:          string(origin),
		})
	}
	return result, nil
}

func (s *service) createReservation(ctx context.Context, userID *uuid.UUID, ri resolvedItem, origin Origin, contact Contact, now time.Time) (*Reservation, error) {
	total := round2(float64(ri.item.Adults)*ri.pkg.PriceAdult + float64(ri.item.Children)*ri.pkg.PriceChild)

	var lastErr error
	for attempt := 0; attempt < codeAttempts; attempt++ {
		reservation := &Reservation{
			Code:         codes.New("RES", now),
			PackageID:    ri.pkg.ID,
			UserID:       userID,
			TravelDate:   ri.item.TravelDate,
			Adults:       ri.item.Adults,
			Children:     ri.item.Children,
			TotalAmount:  total,
			Currency:     ri.pkg.Currency,
			Origin:       origin,
			Status:       StatusActive,
			ContactName:  contact.Name,
			ContactEmail: contact.Email,
		}
		err := s.repo.Create(ctx, reservation)
		if err == nil {
			return reservation, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("reservation code collision after %d attempts: %w", codeAttempts, lastErr)
}

const codeAttempts = 3

func (s *service) Cancel(ctx context.Context, code string, userID *uuid.UUID, operator bool) (*Reservation, error) {
	var cancelled *Reservation
	var seatsReleased int

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		reservation, err := s.repo.GetByCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}

		// Ownership gates even the idempotent already-cancelled path.
		if !operator {
			if reservation.UserID == nil || userID == nil || *reservation.UserID != *userID {
				return ErrNotOwner
			}
		}

		if reservation.Status == StatusCancelled {
			cancelled = reservation
			return nil
		}

		if !(operator && s.cfg.OperatorCancelBypass) {
			deadline := reservation.TravelDate.Add(-s.cfg.CancellationWindow)
			if s.now().After(deadline) {
				return ErrCancellationWindowClosed
			}
		}

		if err := s.invoices.VoidByReservation(ctx, reservation.ID); err != nil {
			return err
		}

		entry, err := s.ledger.LockAndGet(ctx, reservation.PackageID, reservation.TravelDate)
		if err != nil {
			return err
		}
		if err := s.ledger.AddReserved(ctx, entry, -reservation.Seats()); err != nil {
			if errors.Is(err, availability.ErrCapacityInvariant) {
				s.log.LogCapacityInvariantViolated(ctx, reservation.PackageID.String(),
					reservation.TravelDate.Format("2006-01-02"),
					entry.ReservedCount, entry.TotalCapacity, -reservation.Seats())
			}
			return err
		}

		if err := s.repo.MarkCancelled(ctx, reservation, s.now()); err != nil {
			return err
		}

		cancelled = reservation
		seatsReleased = reservation.Seats()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if seatsReleased > 0 {
		metrics.ReservationsCancelled.Inc()
		s.log.LogReservationCancelled(ctx, cancelled.Code, seatsReleased)

		packageCode := ""
		if pkg, err := s.catalog.GetByID(ctx, cancelled.PackageID); err == nil {
			packageCode = pkg.Code
		}
		s.publish(ctx, notifications.ReservationEvent{
			Type:            notifications.EventReservationCancelled,
			ReservationCode: cancelled.Code,
			PackageCode:     packageCode,
			TravelDate:      cancelled.TravelDate.Format("2006-01-02"),
			Seats:           seatsReleased,
			Total:           cancelled.TotalAmount,
			Origin:          string(cancelled.Origin),
		})
	}
	return cancelled, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*Reservation, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Reservation, error) {
	return s.repo.ListByUser(ctx, userID)
}

// publish is best-effort: a broker outage never rolls back a booking.
func (s *service) publish(ctx context.Context, event notifications.ReservationEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishReservationEvent(ctx, event); err != nil {
		s.log.WithError(err).WarnContext(ctx, "failed to publish reservation event",
			"type", event.Type, "reservation_code", event.ReservationCode)
	}
}

func validateItem(item BookingItem, now time.Time) error {
	if item.PackageCode == "" {
		return fmt.Errorf("%w: package code is required", ErrInvalidRequest)
	}
	if item.Adults < 1 {
		return fmt.Errorf("%w: at least one adult is required", ErrInvalidRequest)
	}
	if item.Children < 0 {
		return fmt.Errorf("%w: children cannot be negative", ErrInvalidRequest)
	}
	if dateOnly(item.TravelDate).Before(dateOnly(now)) {
		return fmt.Errorf("%w: travel date is in the past", ErrInvalidRequest)
	}
	return nil
}

// sortPairs orders ledger keys by packageID then date. This is the canonical
// lock order for the whole system.
func sortPairs(seatsByPair map[pairKey]int) []pairKey {
	pairs := make([]pairKey, 0, len(seatsByPair))
	for key := range seatsByPair {
		pairs = append(pairs, key)
	}
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.packageID != b.packageID {
			return a.packageID.String() < b.packageID.String()
		}
		return a.date.Before(b.date)
	})
	return pairs
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
