package catalog

import "errors"

// ErrPackageNotFound is returned when no package exists for a code.
var ErrPackageNotFound = errors.New("package not found")
