package domain

import "errors"

var (
	ErrInvalidCountryCode = errors.New("invalid_country_code")
	ErrInvalidCost        = errors.New("invalid_cost")
)
