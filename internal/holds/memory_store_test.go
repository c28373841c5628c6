package holds

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func storedHold(expiresAt time.Time) *Hold {
	return &Hold{
		ID:          uuid.NewString(),
		PackageCode: "QUITO-CITY-1D",
		TravelDate:  time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Adults:      2,
		CreatedAt:   expiresAt.Add(-10 * time.Minute),
		ExpiresAt:   expiresAt,
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns a copy", func(t *testing.T) {
		store := NewMemoryStore()
		hold := storedHold(time.Date(2025, 1, 14, 12, 10, 0, 0, time.UTC))
		if err := store.Put(ctx, hold); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		got, err := store.Get(ctx, hold.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		got.Adults = 99

		again, _ := store.Get(ctx, hold.ID)
		if again.Adults != 2 {
			t.Fatalf("mutation through a returned hold leaked into the store")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		store := NewMemoryStore()
		if _, err := store.Get(ctx, uuid.NewString()); !errors.Is(err, ErrHoldNotFound) {
			t.Fatalf("expected ErrHoldNotFound, got %v", err)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := NewMemoryStore()
		hold := storedHold(time.Date(2025, 1, 14, 12, 10, 0, 0, time.UTC))
		_ = store.Put(ctx, hold)

		if err := store.Delete(ctx, hold.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if err := store.Delete(ctx, hold.ID); err != nil {
			t.Fatalf("repeat delete failed: %v", err)
		}
		if store.Len() != 0 {
			t.Fatalf("expected empty store, got %d", store.Len())
		}
	})

	t.Run("purge removes only expired holds", func(t *testing.T) {
		store := NewMemoryStore()
		now := time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC)

		expired := storedHold(now.Add(-time.Minute))
		live := storedHold(now.Add(time.Hour))
		_ = store.Put(ctx, expired)
		_ = store.Put(ctx, live)

		if purged := store.PurgeExpired(ctx, now); purged != 1 {
			t.Fatalf("expected 1 purged, got %d", purged)
		}
		if _, err := store.Get(ctx, expired.ID); !errors.Is(err, ErrHoldNotFound) {
			t.Fatalf("expired hold still present")
		}
		if _, err := store.Get(ctx, live.ID); err != nil {
			t.Fatalf("live hold lost: %v", err)
		}
	})
}
