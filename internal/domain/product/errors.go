package product

import "errors"

var (
	ErrMissingField      = errors.New("required field is missing")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrInvalidStock      = errors.New("stock quantity must not be negative")
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotOwner          = errors.New("caller does not own this product")
)
