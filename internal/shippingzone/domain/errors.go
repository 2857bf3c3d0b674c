package domain

import "errors"

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidCost    = errors.New("invalid_shipping_cost")
	ErrInvalidCountry = errors.New("invalid_country")
	ErrNotFound       = errors.New("not_found")
	ErrDuplicateSlug  = errors.New("duplicate_slug")
)
