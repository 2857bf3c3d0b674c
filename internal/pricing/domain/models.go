package domain

import (
	"math"
	"strings"
	"time"
)

// LineItem is an immutable snapshot of one cart line. Callers construct
// items through NewLineItem so malformed carts are rejected at the
// boundary instead of leaking into pricing math.
type LineItem struct {
	ProductID        string
	Quantity         int
	UnitPrice        float64
	ShippingOverride *float64
}

func NewLineItem(productID string, quantity int, unitPrice float64, shippingOverride *float64) (LineItem, error) {
	if strings.TrimSpace(productID) == "" {
		return LineItem{}, ErrInvalidProductID
	}
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	if unitPrice < 0 {
		return LineItem{}, ErrInvalidUnitPrice
	}
	if shippingOverride != nil && *shippingOverride < 0 {
		return LineItem{}, ErrInvalidShippingOverride
	}
	return LineItem{
		ProductID:        strings.TrimSpace(productID),
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		ShippingOverride: shippingOverride,
	}, nil
}

func (i LineItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Destination identifies where an order ships to. Only ISO-3166 alpha-2
// codes are accepted; country-name normalization happens in the zone
// store, never here.
type Destination struct {
	CountryCode string
}

func NewDestination(countryCode string) (Destination, error) {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if !IsCountryCode(code) {
		return Destination{}, ErrInvalidCountryCode
	}
	return Destination{CountryCode: code}, nil
}

// IsCountryCode reports whether code looks like an ISO-3166 alpha-2 code.
func IsCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ShippingZone is the resolver's read-only view of one configured zone.
// An empty CountryCodes list plus IsDefault marks the rest-of-world zone.
type ShippingZone struct {
	ID           string
	Name         string
	CountryCodes []string
	Cost         float64
	IsDefault    bool
	IsActive     bool
	Priority     int
}

func (z ShippingZone) HasCountry(code string) bool {
	for _, c := range z.CountryCodes {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}

// ShippingSettings carries the two scalar rates that sit outside the
// zone list: the domestic rate and the rest-of-world fallback.
type ShippingSettings struct {
	DomesticCountryCode string
	DomesticCost        float64
	FallbackCost        float64
}

// ShippingState distinguishes "never computed" from "computed to zero".
// Free shipping is a legitimate computed result; callers must never
// infer state from Cost == 0.
type ShippingState string

const (
	ShippingUnresolved ShippingState = "unresolved"
	ShippingComputed   ShippingState = "computed"
	ShippingErrored    ShippingState = "error"
)

// ShippingOutcome is the tagged result of shipping resolution.
type ShippingOutcome struct {
	State     ShippingState
	Cost      float64
	ZoneLabel string
	Reason    string
}

func UnresolvedShipping() ShippingOutcome {
	return ShippingOutcome{State: ShippingUnresolved}
}

func ComputedShipping(cost float64, zoneLabel string) ShippingOutcome {
	return ShippingOutcome{State: ShippingComputed, Cost: cost, ZoneLabel: zoneLabel}
}

func ErroredShipping(reason string) ShippingOutcome {
	return ShippingOutcome{State: ShippingErrored, Reason: reason}
}

func (o ShippingOutcome) Computed() bool {
	return o.State == ShippingComputed
}

type CouponKind string

const (
	CouponPercentage CouponKind = "percentage"
	CouponFixed      CouponKind = "fixed"
)

// Coupon is the resolver's view of one promotion. ApplicableProductIDs
// nil means the coupon applies to the whole cart; an empty non-nil list
// applies to nothing.
type Coupon struct {
	Code                 string
	Kind                 CouponKind
	Amount               float64
	MinSpend             float64
	ApplicableProductIDs []string
	ExpiresAt            *time.Time
}

func (c Coupon) AppliesTo(productID string) bool {
	if c.ApplicableProductIDs == nil {
		return true
	}
	for _, id := range c.ApplicableProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// DiscountApplication is a successfully applied coupon. At most one is
// active per order; applying a new code replaces the previous one.
type DiscountApplication struct {
	Amount float64
	Coupon Coupon
}

// PricingResult is the engine's sole externally visible output.
type PricingResult struct {
	Subtotal       float64
	ShippingCost   float64
	DiscountAmount float64
	Total          float64
}

// RoundMoney rounds to 2 decimal places. The engine computes at full
// precision; rounding belongs to presentation only.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
