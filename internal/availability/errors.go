package availability

import "errors"

var (
	// ErrNoTransaction is returned when a locking read is attempted outside
	// a transaction. Locks released at statement end protect nothing.
	ErrNoTransaction = errors.New("locking ledger read requires a transaction")

	// ErrCapacityInvariant is returned when a ledger mutation would drive
	// reserved_count below zero or above total_capacity.
	ErrCapacityInvariant = errors.New("ledger capacity invariant violated")
)
