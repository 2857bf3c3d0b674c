package domain

import "errors"

var (
	ErrEmptyCart = errors.New("empty_cart")
)
