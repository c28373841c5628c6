package holds

import (
	"context"
	"time"
)

// Store persists holds. Implementations must honor the hold's ExpiresAt as
// the storage TTL where the backend supports one; expiry is still re-checked
// at confirm time, so a lagging TTL is harmless.
type Store interface {
	Put(ctx context.Context, hold *Hold) error

	// Get returns the hold or ErrHoldNotFound. Expiry checking is the
	// caller's job: a Get can return an expired hold.
	Get(ctx context.Context, id string) (*Hold, error)

	Delete(ctx context.Context, id string) error

	// PurgeExpired removes holds past their deadline and reports how many
	// were dropped. Backends with native expiry may return 0 untouched.
	PurgeExpired(ctx context.Context, now time.Time) int
}
