package reservations

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRequest           = errors.New("invalid booking request")
	ErrReservationNotFound      = errors.New("reservation not found")
	ErrNotOwner                 = errors.New("reservation belongs to another user")
	ErrCancellationWindowClosed = errors.New("cancellation window has closed")
)

// CapacityError rejects a booking that asked for more seats than remain.
// Remaining is reported so callers can offer the partial quantity.
type CapacityError struct {
	PackageCode string
	TravelDate  time.Time
	Requested   int
	Remaining   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity for %s on %s: requested %d, remaining %d",
		e.PackageCode, e.TravelDate.Format("2006-01-02"), e.Requested, e.Remaining)
}

// AsCapacityError unwraps err into a CapacityError if it is one.
func AsCapacityError(err error) (*CapacityError, bool) {
	var capErr *CapacityError
	if errors.As(err, &capErr) {
		return capErr, true
	}
	return nil, false
}
