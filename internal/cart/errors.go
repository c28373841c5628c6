package cart

import "errors"

var (
	// ErrItemNotFound is returned when the cart line does not exist or
	// belongs to another user.
	ErrItemNotFound = errors.New("cart item not found")

	// ErrEmptyCart rejects a checkout or quote on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)
