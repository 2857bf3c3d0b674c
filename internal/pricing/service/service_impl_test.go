package service

import (
	"testing"
	"time"

	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func item(productID string, qty int, price float64, override *float64) pricingdomain.LineItem {
	it, err := pricingdomain.NewLineItem(productID, qty, price, override)
	if err != nil {
		panic(err)
	}
	return it
}

var testSettings = pricingdomain.ShippingSettings{
	DomesticCountryCode: "VN",
	DomesticCost:        25,
	FallbackCost:        200,
}

func testZones() []pricingdomain.ShippingZone {
	return []pricingdomain.ShippingZone{
		{ID: "1", Name: "North America", CountryCodes: []string{"US", "CA", "MX"}, Cost: 50, IsActive: true, Priority: 1},
		{ID: "2", Name: "Europe", CountryCodes: []string{"DE", "FR", "GB"}, Cost: 80, IsActive: true, Priority: 2},
		{ID: "3", Name: "Asia Pacific", CountryCodes: []string{"VN", "JP", "AU"}, Cost: 60, IsActive: true, Priority: 3},
		{ID: "4", Name: "Rest of World", CountryCodes: nil, Cost: 120, IsActive: true, IsDefault: true, Priority: 100},
	}
}

func TestResolveShipping_OverridePrecedence(t *testing.T) {
	items := []pricingdomain.LineItem{
		item("p1", 1, 10, ptr(5)),
		item("p2", 1, 10, ptr(20)),
		item("p3", 1, 10, ptr(12)),
	}
	out := ResolveShipping(pricingdomain.Destination{CountryCode: "US"}, items, testZones(), testSettings)
	assert.Equal(t, pricingdomain.ShippingComputed, out.State)
	assert.Equal(t, 20.0, out.Cost)
}

func TestResolveShipping_EqualOverrides(t *testing.T) {
	items := []pricingdomain.LineItem{
		item("p1", 1, 10, ptr(15)),
		item("p2", 2, 30, ptr(15)),
	}
	out := ResolveShipping(pricingdomain.Destination{CountryCode: "DE"}, items, testZones(), testSettings)
	assert.Equal(t, 15.0, out.Cost)
}

func TestResolveShipping_OverrideIgnoresDestination(t *testing.T) {
	items := []pricingdomain.LineItem{item("p1", 1, 10, ptr(9))}

	for _, country := range []string{"US", "VN", ""} {
		out := ResolveShipping(pricingdomain.Destination{CountryCode: country}, items, testZones(), testSettings)
		assert.Equal(t, pricingdomain.ShippingComputed, out.State, country)
		assert.Equal(t, 9.0, out.Cost, country)
	}
}

func TestResolveShipping_FreeShippingOverride(t *testing.T) {
	items := []pricingdomain.LineItem{item("p1", 1, 10, ptr(0))}
	out := ResolveShipping(pricingdomain.Destination{CountryCode: "FR"}, items, testZones(), testSettings)
	assert.Equal(t, pricingdomain.ShippingComputed, out.State)
	assert.Equal(t, 0.0, out.Cost)
}

func TestResolveShipping_DomesticBeatsZoneListing(t *testing.T) {
	// VN appears in the Asia Pacific zone at 60, but the domestic rate wins.
	items := []pricingdomain.LineItem{item("p1", 1, 10, nil)}
	out := ResolveShipping(pricingdomain.Destination{CountryCode: "VN"}, items, testZones(), testSettings)
	assert.Equal(t, 25.0, out.Cost)
	assert.Equal(t, "Domestic", out.ZoneLabel)
}

func TestResolveShipping_ZoneByPriority(t *testing.T) {
	zones := testZones()
	// Add a higher-priority zone that also lists US.
	zones = append(zones, pricingdomain.ShippingZone{ID: "5", Name: "Promo", CountryCodes: []string{"US"}, Cost: 10, IsActive: true, Priority: 0})

	items := []pricingdomain.LineItem{item("p1", 1, 10, nil)}
	out := ResolveShipping(pricingdomain.Destination{CountryCode: "US"}, items, zones, testSettings)
	assert.Equal(t, 10.0, out.Cost)
	assert.Equal(t, "Promo", out.ZoneLabel)
}

func TestResolveShipping_InactiveZoneSkipped(t *testing.T) {
	zones := testZones()
	zones[0].IsActive = false

	items := []pricingdomain.LineItem{item("p1", 1, 10, nil)}
	out := ResolveShipping(pricingdomain.Destination{CountryCode: "US"}, items, zones, testSettings)
	assert.Equal(t, "Rest of World", out.ZoneLabel)
	assert.Equal(t, 120.0, out.Cost)
}

func TestResolveShipping_DefaultZone(t *testing.T) {
	items := []pricingdomain.LineItem{item("p1", 1, 10, nil)}
	out := ResolveShipping(pricingdomain.Destination{CountryCode: "BR"}, items, testZones(), testSettings)
	assert.Equal(t, 120.0, out.Cost)
	assert.Equal(t, "Rest of World", out.ZoneLabel)
}

func TestResolveShipping_FallbackWithoutDefault(t *testing.T) {
	zones := testZones()[:3]
	items := []pricingdomain.LineItem{item("p1", 1, 10, nil)}
	out := ResolveShipping(pricingdomain.Destination{CountryCode: "BR"}, items, zones, testSettings)
	assert.Equal(t, 200.0, out.Cost)
}

func TestResolveShipping_Unresolved(t *testing.T) {
	items := []pricingdomain.LineItem{item("p1", 1, 10, nil)}
	for _, country := range []string{"", "  ", "USA", "u", "1A"} {
		out := ResolveShipping(pricingdomain.Destination{CountryCode: country}, items, testZones(), testSettings)
		assert.Equal(t, pricingdomain.ShippingUnresolved, out.State, "country=%q", country)
	}
}

func TestResolveShipping_CaseInsensitiveCountry(t *testing.T) {
	items := []pricingdomain.LineItem{item("p1", 1, 10, nil)}
	out := ResolveShipping(pricingdomain.Destination{CountryCode: " us "}, items, testZones(), testSettings)
	assert.Equal(t, 50.0, out.Cost)
}

func TestResolveDiscount_NotFound(t *testing.T) {
	items := []pricingdomain.LineItem{item("p1", 1, 100, nil)}
	_, err := ResolveDiscount("NOPE", items, nil, time.Now())
	assert.ErrorIs(t, err, pricingdomain.ErrCouponNotFound)

	_, err = ResolveDiscount("  ", items, []pricingdomain.Coupon{{Code: "SAVE"}}, time.Now())
	assert.ErrorIs(t, err, pricingdomain.ErrCouponNotFound)
}

func TestResolveDiscount_CaseInsensitiveLookup(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	coupons := []pricingdomain.Coupon{{Code: "Save10", Kind: pricingdomain.CouponPercentage, Amount: 10}}
	items := []pricingdomain.LineItem{item("p1", 1, 100, nil)}

	app, err := ResolveDiscount("  sAvE10 ", items, coupons, now)
	require.NoError(t, err)
	assert.Equal(t, 10.0, app.Amount)
}

func TestResolveDiscount_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(-time.Second)
	coupons := []pricingdomain.Coupon{{Code: "OLD", Kind: pricingdomain.CouponFixed, Amount: 5, ExpiresAt: &expiry}}
	items := []pricingdomain.LineItem{item("p1", 1, 100, nil)}

	_, err := ResolveDiscount("OLD", items, coupons, now)
	assert.ErrorIs(t, err, pricingdomain.ErrCouponExpired)

	// Expiry exactly at now is still valid.
	coupons[0].ExpiresAt = &now
	_, err = ResolveDiscount("OLD", items, coupons, now)
	assert.NoError(t, err)
}

func TestResolveDiscount_MinSpendBoundary(t *testing.T) {
	now := time.Now()
	coupons := []pricingdomain.Coupon{{Code: "BIG", Kind: pricingdomain.CouponFixed, Amount: 50, MinSpend: 1000}}

	_, err := ResolveDiscount("BIG", []pricingdomain.LineItem{item("p1", 1, 999.99, nil)}, coupons, now)
	var minSpend *pricingdomain.MinSpendError
	require.ErrorAs(t, err, &minSpend)
	assert.Equal(t, 1000.0, minSpend.Required)
	assert.Equal(t, 999.99, minSpend.Eligible)

	app, err := ResolveDiscount("BIG", []pricingdomain.LineItem{item("p1", 1, 1000.00, nil)}, coupons, now)
	require.NoError(t, err)
	assert.Equal(t, 50.0, app.Amount)
}

func TestResolveDiscount_MinSpendAgainstEligibleOnly(t *testing.T) {
	now := time.Now()
	coupons := []pricingdomain.Coupon{{
		Code:                 "SCOPED",
		Kind:                 pricingdomain.CouponFixed,
		Amount:               20,
		MinSpend:             100,
		ApplicableProductIDs: []string{"p1"},
	}}
	// Cart subtotal 150, but only 50 of it is eligible.
	items := []pricingdomain.LineItem{
		item("p1", 1, 50, nil),
		item("p2", 1, 100, nil),
	}
	_, err := ResolveDiscount("SCOPED", items, coupons, now)
	var minSpend *pricingdomain.MinSpendError
	require.ErrorAs(t, err, &minSpend)
	assert.Equal(t, 50.0, minSpend.Eligible)
}

func TestResolveDiscount_FixedClampedToEligible(t *testing.T) {
	now := time.Now()
	coupons := []pricingdomain.Coupon{{
		Code:                 "HUGE",
		Kind:                 pricingdomain.CouponFixed,
		Amount:               500,
		ApplicableProductIDs: []string{"p1"},
	}}
	items := []pricingdomain.LineItem{
		item("p1", 3, 100, nil),
		item("p2", 1, 999, nil),
	}
	app, err := ResolveDiscount("HUGE", items, coupons, now)
	require.NoError(t, err)
	assert.Equal(t, 300.0, app.Amount)
}

func TestResolveDiscount_PercentageClamped(t *testing.T) {
	now := time.Now()
	items := []pricingdomain.LineItem{item("p1", 1, 200, nil)}

	app, err := ResolveDiscount("OVER", items, []pricingdomain.Coupon{{Code: "OVER", Kind: pricingdomain.CouponPercentage, Amount: 150}}, now)
	require.NoError(t, err)
	assert.Equal(t, 200.0, app.Amount)

	_, err = ResolveDiscount("NEG", items, []pricingdomain.Coupon{{Code: "NEG", Kind: pricingdomain.CouponPercentage, Amount: -10}}, now)
	assert.ErrorIs(t, err, pricingdomain.ErrCouponNotApplicable)
}

func TestResolveDiscount_ZeroDiscountNotApplicable(t *testing.T) {
	now := time.Now()
	coupons := []pricingdomain.Coupon{{
		Code:                 "SCOPED",
		Kind:                 pricingdomain.CouponPercentage,
		Amount:               10,
		ApplicableProductIDs: []string{"other"},
	}}
	items := []pricingdomain.LineItem{item("p1", 1, 100, nil)}
	_, err := ResolveDiscount("SCOPED", items, coupons, now)
	assert.ErrorIs(t, err, pricingdomain.ErrCouponNotApplicable)
}

func TestAssembleTotal_ReferenceQuote(t *testing.T) {
	// Subtotal 200, US zone shipping 50, 10% coupon on the subtotal.
	now := time.Now()
	items := []pricingdomain.LineItem{
		item("p1", 2, 50, nil),
		item("p2", 1, 100, nil),
	}
	shipping := ResolveShipping(pricingdomain.Destination{CountryCode: "US"}, items, testZones(), testSettings)
	require.Equal(t, 50.0, shipping.Cost)

	discount, err := ResolveDiscount("TEN", items, []pricingdomain.Coupon{{Code: "TEN", Kind: pricingdomain.CouponPercentage, Amount: 10}}, now)
	require.NoError(t, err)

	result := AssembleTotal(items, shipping, discount)
	assert.Equal(t, 200.0, result.Subtotal)
	assert.Equal(t, 50.0, result.ShippingCost)
	assert.Equal(t, 20.0, result.DiscountAmount)
	assert.Equal(t, 230.0, result.Total)
}

func TestAssembleTotal_UnknownCouponLeavesTotalIntact(t *testing.T) {
	items := []pricingdomain.LineItem{
		item("p1", 2, 50, nil),
		item("p2", 1, 100, nil),
	}
	shipping := ResolveShipping(pricingdomain.Destination{CountryCode: "US"}, items, testZones(), testSettings)

	_, err := ResolveDiscount("UNKNOWN", items, nil, time.Now())
	assert.ErrorIs(t, err, pricingdomain.ErrCouponNotFound)

	result := AssembleTotal(items, shipping, nil)
	assert.Equal(t, 250.0, result.Total)
}

func TestAssembleTotal_UnresolvedShippingContributesZero(t *testing.T) {
	items := []pricingdomain.LineItem{item("p1", 1, 100, nil)}
	result := AssembleTotal(items, pricingdomain.UnresolvedShipping(), nil)
	assert.Equal(t, 100.0, result.Total)
	assert.Equal(t, 0.0, result.ShippingCost)
}

func TestAssembleTotal_ErroredShippingContributesZero(t *testing.T) {
	items := []pricingdomain.LineItem{item("p1", 1, 100, nil)}
	result := AssembleTotal(items, pricingdomain.ErroredShipping("carrier timeout"), nil)
	assert.Equal(t, 100.0, result.Total)
	assert.Equal(t, 0.0, result.ShippingCost)
}

func TestAssembleTotal_NeverNegative(t *testing.T) {
	items := []pricingdomain.LineItem{item("p1", 1, 10, nil)}
	discount := &pricingdomain.DiscountApplication{Amount: 10}
	result := AssembleTotal(items, pricingdomain.UnresolvedShipping(), discount)
	assert.Equal(t, 0.0, result.Total)
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 0.3, pricingdomain.RoundMoney(0.1+0.2))
	assert.Equal(t, 10.55, pricingdomain.RoundMoney(10.554))
	assert.Equal(t, 10.56, pricingdomain.RoundMoney(10.556))
}
