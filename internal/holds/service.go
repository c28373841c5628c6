package holds

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/availability"
	"tourbook/internal/reservations"
	"tourbook/pkg/logger"
	"tourbook/pkg/metrics"
)

const (
	minTTL = time.Second
	maxTTL = 24 * time.Hour
)

// CreateInput is a partner's request to open a hold.
type CreateInput struct {
	PackageCode  string
	TravelDate   time.Time
	Adults       int
	Children     int
	ContactName  string
	ContactEmail string

	// TTL of zero means the configured default.
	TTL time.Duration
}

type Service interface {
	// Create opens a hold after an advisory availability check. The check
	// can go stale; only Confirm decides against live stock.
	Create(ctx context.Context, input CreateInput) (*Hold, error)

	Get(ctx context.Context, id string) (*Hold, error)

	// Confirm converts a live hold into a committed reservation. The
	// payment method lands on the issued invoice. On a capacity rejection
	// the hold is left intact so the partner can retry with a smaller
	// party or another date.
	Confirm(ctx context.Context, id string, paymentMethod string) (*reservations.BookingResult, error)

	// Cancel discards a hold. Unknown IDs are a no-op success: the hold
	// may simply have expired already.
	Cancel(ctx context.Context, id string) error

	// StartJanitor purges expired holds from the store until ctx is done.
	StartJanitor(ctx context.Context, period time.Duration)
}

type service struct {
	store        Store
	availability availability.Service
	coordinator  reservations.Service
	defaultTTL   time.Duration
	log          *logger.Logger
	now          func() time.Time
}

func NewService(store Store, availabilityService availability.Service, coordinator reservations.Service, defaultTTL time.Duration, log *logger.Logger) Service {
	return &service{
		store:        store,
		availability: availabilityService,
		coordinator:  coordinator,
		defaultTTL:   defaultTTL,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// NewServiceWithClock is used by tests that need deterministic time.
func NewServiceWithClock(store Store, availabilityService availability.Service, coordinator reservations.Service, defaultTTL time.Duration, log *logger.Logger, now func() time.Time) Service {
	s := NewService(store, availabilityService, coordinator, defaultTTL, log).(*service)
	s.now = now
	return s
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Hold, error) {
	if input.Adults < 1 {
		return nil, fmt.Errorf("%w: at least one adult is required", reservations.ErrInvalidRequest)
	}
	if input.Children < 0 {
		return nil, fmt.Errorf("%w: children cannot be negative", reservations.ErrInvalidRequest)
	}

	seats := input.Adults + input.Children
	snapshot, err := s.availability.Check(ctx, input.PackageCode, input.TravelDate, seats)
	if err != nil {
		return nil, err
	}
	if !snapshot.Available {
		return nil, &reservations.CapacityError{
			PackageCode: input.PackageCode,
			TravelDate:  input.TravelDate,
			Requested:   seats,
			Remaining:   snapshot.Remaining,
		}
	}

	now := s.now()
	hold := &Hold{
		ID:           uuid.NewString(),
		PackageCode:  input.PackageCode,
		TravelDate:   input.TravelDate,
		Adults:       input.Adults,
		Children:     input.Children,
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ClampTTL(input.TTL, s.defaultTTL)),
	}

	if err := s.store.Put(ctx, hold); err != nil {
		return nil, fmt.Errorf("failed to store hold: %w", err)
	}

	metrics.HoldsCreated.Inc()
	s.log.LogHoldCreated(ctx, hold.ID, hold.PackageCode, hold.ExpiresAt)
	return hold, nil
}

func (s *service) Get(ctx context.Context, id string) (*Hold, error) {
	hold, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if hold.Expired(s.now()) {
		return nil, ErrHoldExpired
	}
	return hold, nil
}

func (s *service) Confirm(ctx context.Context, id string, paymentMethod string) (*reservations.BookingResult, error) {
	hold, err := s.store.Get(ctx, id)
	if err != nil {
		metrics.HoldsExpired.Inc()
		return nil, err
	}

	if hold.Expired(s.now()) {
		// Dead holds are dropped on discovery so a retry gets a clean 404.
		_ = s.store.Delete(ctx, id)
		metrics.HoldsExpired.Inc()
		return nil, ErrHoldExpired
	}

	result, err := s.coordinator.BookOne(ctx, nil, reservations.BookingItem{
		PackageCode: hold.PackageCode,
		TravelDate:  hold.TravelDate,
		Adults:      hold.Adults,
		Children:    hold.Children,
	}, reservations.OriginIntegration, reservations.Contact{
		Name:  hold.ContactName,
		Email: hold.ContactEmail,
	}, paymentMethod)
	if err != nil {
		// The hold survives a capacity rejection or transient failure.
		return nil, err
	}

	_ = s.store.Delete(ctx, id)
	metrics.HoldsConfirmed.Inc()
	s.log.LogHoldConfirmed(ctx, hold.ID, result.Reservations[0].Code)
	return result, nil
}

func (s *service) Cancel(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *service) StartJanitor(ctx context.Context, period time.Duration) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if purged := s.store.PurgeExpired(ctx, now.UTC()); purged > 0 {
					s.log.DebugContext(ctx, "purged expired holds", "count", purged)
				}
			}
		}
	}()
}

// ClampTTL resolves a caller-supplied TTL against the configured default and
// the [1 second, 24 hour] bounds. Non-positive values mean the default; short
// TTLs are honored so a partner can open a hold that dies almost immediately.
func ClampTTL(requested, fallback time.Duration) time.Duration {
	ttl := requested
	if ttl <= 0 {
		ttl = fallback
	}
	if ttl < minTTL {
		return minTTL
	}
	if ttl > maxTTL {
		return maxTTL
	}
	return ttl
}
