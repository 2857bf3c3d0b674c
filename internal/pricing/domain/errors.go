package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidProductID        = errors.New("invalid_product_id")
	ErrInvalidQuantity         = errors.New("invalid_quantity")
	ErrInvalidUnitPrice        = errors.New("invalid_unit_price")
	ErrInvalidShippingOverride = errors.New("invalid_shipping_override")
	ErrInvalidCountryCode      = errors.New("invalid_country_code")

	ErrCouponNotFound      = errors.New("coupon_not_found")
	ErrCouponExpired       = errors.New("coupon_expired")
	ErrCouponNotApplicable = errors.New("coupon_not_applicable")
)

// MinSpendError reports a coupon whose minimum spend exceeds the
// eligible subtotal. Both amounts travel with the error so the caller
// can render "minimum spend of $X required".
type MinSpendError struct {
	Required float64
	Eligible float64
}

func (e *MinSpendError) Error() string {
	return fmt.Sprintf("coupon_min_spend_not_met: required %.2f, eligible %.2f", e.Required, e.Eligible)
}

// IsCouponRejection reports whether err is one of the normal coupon
// rejection outcomes, as opposed to a programming error.
func IsCouponRejection(err error) bool {
	var minSpend *MinSpendError
	switch {
	case errors.Is(err, ErrCouponNotFound),
		errors.Is(err, ErrCouponExpired),
		errors.Is(err, ErrCouponNotApplicable),
		errors.As(err, &minSpend):
		return true
	default:
		return false
	}
}
