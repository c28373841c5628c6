package holds

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"tourbook/internal/availability"
	"tourbook/internal/invoices"
	"tourbook/internal/reservations"
	"tourbook/pkg/logger"
)

type fakeAvailability struct {
	remaining int
	err       error
}

func (f *fakeAvailability) Check(_ context.Context, packageCode string, date time.Time, seats int) (*availability.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &availability.Snapshot{
		PackageCode:   packageCode,
		TravelDate:    date.Format("2006-01-02"),
		TotalCapacity: 30,
		ReservedCount: 30 - f.remaining,
		Remaining:     f.remaining,
		Available:     seats <= f.remaining,
	}, nil
}

// fakeCoordinator scripts the booking outcome for Confirm tests.
type fakeCoordinator struct {
	reservations.Service

	bookErr       error
	bookCalls     int
	paymentMethod string
}

func (f *fakeCoordinator) BookOne(_ context.Context, _ *uuid.UUID, item reservations.BookingItem, origin reservations.Origin, _ reservations.Contact, paymentMethod string) (*reservations.BookingResult, error) {
	f.bookCalls++
	f.paymentMethod = paymentMethod
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	if origin != reservations.OriginIntegration {
		return nil, errors.New("unexpected origin")
	}
	return &reservations.BookingResult{
		Reservations: []*reservations.Reservation{{
			ID:          uuid.New(),
			Code:        "RES-20250114-HHHH",
			TravelDate:  item.TravelDate,
			Adults:      item.Adults,
			Children:    item.Children,
			TotalAmount: 130.00,
			Currency:    "USD",
			Origin:      origin,
			Status:      reservations.StatusActive,
		}},
		Invoice: &invoices.Invoice{Code: "FAC-20250114-HHHH", Currency: "USD"},
	}, nil
}

func newHoldEnv(remaining int, bookErr error) (Service, *MemoryStore, *fakeCoordinator, func(time.Time)) {
	current := time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC)
	setNow := func(at time.Time) { current = at }

	store := NewMemoryStore()
	coordinator := &fakeCoordinator{bookErr: bookErr}
	svc := NewServiceWithClock(store, &fakeAvailability{remaining: remaining}, coordinator,
		10*time.Minute, logger.New(), func() time.Time { return current })
	return svc, store, coordinator, setNow
}

func TestCreateHold(t *testing.T) {
	travelDate := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	t.Run("creates hold with default ttl", func(t *testing.T) {
		svc, store, _, _ := newHoldEnv(10, nil)

		hold, err := svc.Create(context.Background(), CreateInput{
			PackageCode: "GAL-CRUISE-4D",
			TravelDate:  travelDate,
			Adults:      2,
			Children:    1,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if hold.ID == "" {
			t.Fatalf("expected hold ID to be set")
		}
		want := time.Date(2025, 1, 14, 12, 10, 0, 0, time.UTC)
		if !hold.ExpiresAt.Equal(want) {
			t.Fatalf("expected expiry %v, got %v", want, hold.ExpiresAt)
		}
		if store.Len() != 1 {
			t.Fatalf("expected 1 stored hold, got %d", store.Len())
		}
	})

	t.Run("rejects when snapshot shows no room", func(t *testing.T) {
		svc, store, _, _ := newHoldEnv(2, nil)

		_, err := svc.Create(context.Background(), CreateInput{
			PackageCode: "GAL-CRUISE-4D",
			TravelDate:  travelDate,
			Adults:      2,
			Children:    1,
		})
		capErr, ok := reservations.AsCapacityError(err)
		if !ok {
			t.Fatalf("expected CapacityError, got %v", err)
		}
		if capErr.Remaining != 2 {
			t.Fatalf("expected remaining 2, got %d", capErr.Remaining)
		}
		if store.Len() != 0 {
			t.Fatalf("hold stored despite rejection")
		}
	})

	t.Run("rejects party without adults", func(t *testing.T) {
		svc, _, _, _ := newHoldEnv(10, nil)
		_, err := svc.Create(context.Background(), CreateInput{
			PackageCode: "GAL-CRUISE-4D",
			TravelDate:  travelDate,
			Adults:      0,
			Children:    2,
		})
		if !errors.Is(err, reservations.ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest, got %v", err)
		}
	})
}

func TestClampTTL(t *testing.T) {
	fallback := 10 * time.Minute
	cases := []struct {
		name      string
		requested time.Duration
		want      time.Duration
	}{
		{"zero uses fallback", 0, fallback},
		{"negative uses fallback", -time.Minute, fallback},
		{"sub-second clamps up", 200 * time.Millisecond, time.Second},
		{"above ceiling clamps down", 48 * time.Hour, 24 * time.Hour},
		{"one second passes through", time.Second, time.Second},
		{"in range passes through", 30 * time.Minute, 30 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampTTL(tc.requested, fallback); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestConfirmHold(t *testing.T) {
	travelDate := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	create := func(t *testing.T, svc Service) *Hold {
		t.Helper()
		hold, err := svc.Create(context.Background(), CreateInput{
			PackageCode: "GAL-CRUISE-4D",
			TravelDate:  travelDate,
			Adults:      2,
		})
		if err != nil {
			t.Fatalf("create hold failed: %v", err)
		}
		return hold
	}

	t.Run("confirms and deletes the hold", func(t *testing.T) {
		svc, store, coordinator, _ := newHoldEnv(10, nil)
		hold := create(t, svc)

		result, err := svc.Confirm(context.Background(), hold.ID, "EFECTIVO")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if coordinator.bookCalls != 1 {
			t.Fatalf("expected one booking call, got %d", coordinator.bookCalls)
		}
		if coordinator.paymentMethod != "EFECTIVO" {
			t.Fatalf("payment method not passed through: %q", coordinator.paymentMethod)
		}
		if result.Reservations[0].Origin != reservations.OriginIntegration {
			t.Fatalf("expected INTEGRATION origin, got %s", result.Reservations[0].Origin)
		}
		if store.Len() != 0 {
			t.Fatalf("hold not deleted after confirm")
		}
	})

	t.Run("expired hold is rejected and dropped", func(t *testing.T) {
		svc, store, coordinator, setNow := newHoldEnv(10, nil)
		hold := create(t, svc)

		setNow(time.Date(2025, 1, 14, 12, 30, 0, 0, time.UTC))
		_, err := svc.Confirm(context.Background(), hold.ID, "")
		if !errors.Is(err, ErrHoldExpired) {
			t.Fatalf("expected ErrHoldExpired, got %v", err)
		}
		if coordinator.bookCalls != 0 {
			t.Fatalf("expired hold reached the coordinator")
		}
		if store.Len() != 0 {
			t.Fatalf("expired hold not purged on discovery")
		}

		// A retry after expiry gets a clean not-found.
		_, err = svc.Confirm(context.Background(), hold.ID, "")
		if !errors.Is(err, ErrHoldNotFound) {
			t.Fatalf("expected ErrHoldNotFound on retry, got %v", err)
		}
	})

	t.Run("a one second hold dies after one second", func(t *testing.T) {
		svc, _, coordinator, setNow := newHoldEnv(10, nil)
		hold, err := svc.Create(context.Background(), CreateInput{
			PackageCode: "GAL-CRUISE-4D",
			TravelDate:  travelDate,
			Adults:      2,
			TTL:         time.Second,
		})
		if err != nil {
			t.Fatalf("create hold failed: %v", err)
		}
		want := time.Date(2025, 1, 14, 12, 0, 1, 0, time.UTC)
		if !hold.ExpiresAt.Equal(want) {
			t.Fatalf("ttl was stretched: expected expiry %v, got %v", want, hold.ExpiresAt)
		}

		setNow(time.Date(2025, 1, 14, 12, 0, 2, 0, time.UTC))
		_, err = svc.Confirm(context.Background(), hold.ID, "")
		if !errors.Is(err, ErrHoldExpired) {
			t.Fatalf("expected ErrHoldExpired, got %v", err)
		}
		if coordinator.bookCalls != 0 {
			t.Fatalf("expired hold reached the coordinator")
		}
	})

	t.Run("capacity failure leaves the hold intact", func(t *testing.T) {
		bookErr := &reservations.CapacityError{PackageCode: "GAL-CRUISE-4D", Requested: 2, Remaining: 1}
		svc, store, _, _ := newHoldEnv(10, bookErr)
		hold := create(t, svc)

		_, err := svc.Confirm(context.Background(), hold.ID, "")
		if _, ok := reservations.AsCapacityError(err); !ok {
			t.Fatalf("expected CapacityError, got %v", err)
		}
		if store.Len() != 1 {
			t.Fatalf("hold dropped on capacity failure")
		}

		// The partner can still read it back.
		if _, err := svc.Get(context.Background(), hold.ID); err != nil {
			t.Fatalf("hold unreadable after failed confirm: %v", err)
		}
	})

	t.Run("unknown hold", func(t *testing.T) {
		svc, _, _, _ := newHoldEnv(10, nil)
		_, err := svc.Confirm(context.Background(), uuid.NewString(), "")
		if !errors.Is(err, ErrHoldNotFound) {
			t.Fatalf("expected ErrHoldNotFound, got %v", err)
		}
	})
}

func TestCancelHold(t *testing.T) {
	svc, store, _, _ := newHoldEnv(10, nil)
	hold, err := svc.Create(context.Background(), CreateInput{
		PackageCode: "GAL-CRUISE-4D",
		TravelDate:  time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		Adults:      1,
	})
	if err != nil {
		t.Fatalf("create hold failed: %v", err)
	}

	if err := svc.Cancel(context.Background(), hold.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("hold not removed")
	}

	// Cancelling a gone hold is a no-op success.
	if err := svc.Cancel(context.Background(), hold.ID); err != nil {
		t.Fatalf("repeat cancel failed: %v", err)
	}
}
