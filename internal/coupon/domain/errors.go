package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCode     = errors.New("invalid_code")
	ErrInvalidKind     = errors.New("invalid_kind")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidMinSpend = errors.New("invalid_min_spend")
	ErrNotFound        = errors.New("not_found")
	ErrDuplicateCode   = errors.New("duplicate_code")
)
