package domain

import "errors"

var (
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvalidIdempotencyKey = errors.New("invalid_idempotency_key")
	ErrInvalidEmail          = errors.New("invalid_email")
	ErrEmptyOrder            = errors.New("empty_order")
	ErrNotFound              = errors.New("not_found")
	ErrShippingUnresolved    = errors.New("shipping_unresolved")
)
