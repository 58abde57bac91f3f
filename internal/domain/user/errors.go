package user

import "errors"

var (
	ErrMissingField   = errors.New("required field is missing")
	ErrNotFound       = errors.New("user not found")
	ErrEmailTaken     = errors.New("email is already registered")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrInvalidRole    = errors.New("role must be user or admin")
)
