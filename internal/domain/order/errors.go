package order

import "errors"

var (
	ErrEmptyItems           = errors.New("order must contain at least one line item")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInvalidPrice         = errors.New("unit price must be greater than zero")
	ErrMissingField         = errors.New("required field is missing")
	ErrMissingAddress       = errors.New("shipping address is incomplete")
	ErrMissingPaymentMethod = errors.New("payment method is missing")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrNotFound             = errors.New("order not found")
)
