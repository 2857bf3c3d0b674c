package domain

import "time"

// Engine prices a cart snapshot. Implementations are pure: no clock
// reads, no I/O, no retained state, so identical inputs always produce
// identical outputs and concurrent calls are trivially safe.
type Engine interface {
	ResolveShipping(dest Destination, items []LineItem, zones []ShippingZone, settings ShippingSettings) ShippingOutcome
	ResolveDiscount(code string, items []LineItem, coupons []Coupon, now time.Time) (*DiscountApplication, error)
	AssembleTotal(items []LineItem, shipping ShippingOutcome, discount *DiscountApplication) PricingResult
}
