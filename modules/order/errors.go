package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOrder is the parent of every order validation failure.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrEmptyCart is returned when an order has no items.
	ErrEmptyCart = fmt.Errorf("%w: cart is empty", ErrInvalidOrder)
	// ErrMissingCustomer is returned when the customer or their email is absent.
	ErrMissingCustomer = fmt.Errorf("%w: customer email is required", ErrInvalidOrder)
	// ErrInvalidItem is returned for an item with a bad product id, quantity or price.
	ErrInvalidItem = fmt.Errorf("%w: item needs a product id, a quantity of at least 1 and a non-negative price", ErrInvalidOrder)
	// ErrOrderNotFound is returned when no order has the requested number.
	ErrOrderNotFound = errors.New("order not found")
)
