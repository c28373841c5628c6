package invoices

import "errors"

// ErrInvoiceNotFound is returned when no invoice exists for a code.
var ErrInvoiceNotFound = errors.New("invoice not found")
