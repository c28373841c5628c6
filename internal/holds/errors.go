package holds

import "errors"

var (
	// ErrHoldNotFound means no hold exists for the ID. Also returned for
	// holds that expired long enough ago to have been purged.
	ErrHoldNotFound = errors.New("hold not found")

	// ErrHoldExpired means the hold existed but its deadline passed. The
	// partner may open a fresh hold and retry.
	ErrHoldExpired = errors.New("hold expired")
)
