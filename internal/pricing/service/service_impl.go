package service

import (
	"sort"
	"strings"
	"time"

	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
)

type engine struct{}

func NewEngine() pricingdomain.Engine {
	return engine{}
}

func (engine) ResolveShipping(dest pricingdomain.Destination, items []pricingdomain.LineItem, zones []pricingdomain.ShippingZone, settings pricingdomain.ShippingSettings) pricingdomain.ShippingOutcome {
	return ResolveShipping(dest, items, zones, settings)
}

func (engine) ResolveDiscount(code string, items []pricingdomain.LineItem, coupons []pricingdomain.Coupon, now time.Time) (*pricingdomain.DiscountApplication, error) {
	return ResolveDiscount(code, items, coupons, now)
}

func (engine) AssembleTotal(items []pricingdomain.LineItem, shipping pricingdomain.ShippingOutcome, discount *pricingdomain.DiscountApplication) pricingdomain.PricingResult {
	return AssembleTotal(items, shipping, discount)
}

// ResolveShipping computes one shipping cost for the whole order.
//
// Resolution order, first applicable rule wins:
//  1. a single distinct per-item override -> that value, any destination
//  2. multiple distinct overrides -> the maximum of them
//  3. domestic destination -> the domestic rate
//  4. first active zone by ascending priority listing the destination
//  5. the active default zone
//  6. the configured rest-of-world fallback
//
// Overrides are checked before the destination is validated, so a cart
// of override-priced items prices the same for every address.
func ResolveShipping(dest pricingdomain.Destination, items []pricingdomain.LineItem, zones []pricingdomain.ShippingZone, settings pricingdomain.ShippingSettings) pricingdomain.ShippingOutcome {
	if cost, ok := overrideCost(items); ok {
		return pricingdomain.ComputedShipping(cost, "Item shipping")
	}

	code := strings.ToUpper(strings.TrimSpace(dest.CountryCode))
	if !pricingdomain.IsCountryCode(code) {
		return pricingdomain.UnresolvedShipping()
	}

	if code == strings.ToUpper(strings.TrimSpace(settings.DomesticCountryCode)) {
		return pricingdomain.ComputedShipping(settings.DomesticCost, "Domestic")
	}

	active := make([]pricingdomain.ShippingZone, 0, len(zones))
	for _, z := range zones {
		if z.IsActive {
			active = append(active, z)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority < active[j].Priority
	})

	for _, z := range active {
		if z.HasCountry(code) {
			return pricingdomain.ComputedShipping(z.Cost, z.Name)
		}
	}
	for _, z := range active {
		if z.IsDefault {
			return pricingdomain.ComputedShipping(z.Cost, z.Name)
		}
	}

	return pricingdomain.ComputedShipping(settings.FallbackCost, "Rest of world")
}

// overrideCost returns the override-derived cost when any line item
// carries one: the lone distinct value, or the max of several.
func overrideCost(items []pricingdomain.LineItem) (float64, bool) {
	var (
		found    bool
		max      float64
		distinct int
		first    float64
	)
	for _, item := range items {
		if item.ShippingOverride == nil {
			continue
		}
		v := *item.ShippingOverride
		if !found {
			found = true
			first = v
			max = v
			distinct = 1
			continue
		}
		if v != first {
			distinct = 2
		}
		if v > max {
			max = v
		}
	}
	if !found {
		return 0, false
	}
	if distinct == 1 {
		return first, true
	}
	return max, true
}

// ResolveDiscount validates a submitted coupon code against the catalog
// and computes the discount it yields for this cart. Expiry is checked
// against the caller-supplied now so results stay deterministic.
func ResolveDiscount(code string, items []pricingdomain.LineItem, coupons []pricingdomain.Coupon, now time.Time) (*pricingdomain.DiscountApplication, error) {
	normalized := strings.TrimSpace(code)
	if normalized == "" {
		return nil, pricingdomain.ErrCouponNotFound
	}

	var coupon *pricingdomain.Coupon
	for i := range coupons {
		if strings.EqualFold(strings.TrimSpace(coupons[i].Code), normalized) {
			coupon = &coupons[i]
			break
		}
	}
	if coupon == nil {
		return nil, pricingdomain.ErrCouponNotFound
	}

	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(now) {
		return nil, pricingdomain.ErrCouponExpired
	}

	eligible := eligibleSubtotal(items, *coupon)
	if eligible < coupon.MinSpend {
		return nil, &pricingdomain.MinSpendError{Required: coupon.MinSpend, Eligible: eligible}
	}

	var raw float64
	switch coupon.Kind {
	case pricingdomain.CouponPercentage:
		raw = eligible * (clampPercentage(coupon.Amount) / 100)
	case pricingdomain.CouponFixed:
		raw = coupon.Amount
	default:
		return nil, pricingdomain.ErrCouponNotApplicable
	}

	// A coupon can never push the eligible portion negative.
	discount := raw
	if discount > eligible {
		discount = eligible
	}
	if discount <= 0 {
		return nil, pricingdomain.ErrCouponNotApplicable
	}

	return &pricingdomain.DiscountApplication{Amount: discount, Coupon: *coupon}, nil
}

func eligibleSubtotal(items []pricingdomain.LineItem, coupon pricingdomain.Coupon) float64 {
	var sum float64
	for _, item := range items {
		if coupon.AppliesTo(item.ProductID) {
			sum += item.LineTotal()
		}
	}
	return sum
}

func clampPercentage(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// AssembleTotal combines subtotal, shipping and discount into the final
// chargeable amount. Unresolved shipping contributes zero; gating
// checkout on a resolved outcome is the caller's responsibility. All
// arithmetic stays at full precision.
func AssembleTotal(items []pricingdomain.LineItem, shipping pricingdomain.ShippingOutcome, discount *pricingdomain.DiscountApplication) pricingdomain.PricingResult {
	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal()
	}

	var shippingCost float64
	if shipping.Computed() {
		shippingCost = shipping.Cost
	}

	var discountAmount float64
	if discount != nil {
		discountAmount = discount.Amount
	}

	total := subtotal + shippingCost - discountAmount
	if total < 0 {
		total = 0
	}

	return pricingdomain.PricingResult{
		Subtotal:       subtotal,
		ShippingCost:   shippingCost,
		DiscountAmount: discountAmount,
		Total:          total,
	}
}
