package domain

import "context"

type Service interface {
	// EstimateShipping resolves a shipping cost for a destination and
	// cart without touching coupons.
	EstimateShipping(ctx context.Context, req EstimateRequest) (*EstimateResponse, error)

	// Quote prices a full cart: shipping, optional coupon, totals.
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)
}

type CartItem struct {
	ProductID        string   `json:"product_id"`
	Quantity         int      `json:"quantity"`
	UnitPrice        float64  `json:"unit_price"`
	ShippingOverride *float64 `json:"shipping_override,omitempty"`
}

type EstimateRequest struct {
	CountryCode string     `json:"country_code"`
	Items       []CartItem `json:"items"`
}

type EstimateResponse struct {
	State       string  `json:"state"`
	Cost        float64 `json:"cost"`
	ZoneLabel   string  `json:"zone_label,omitempty"`
	CountryName string  `json:"country_name,omitempty"`
}

type QuoteRequest struct {
	CountryCode string     `json:"country_code"`
	Items       []CartItem `json:"items"`
	CouponCode  string     `json:"coupon_code,omitempty"`
}

// CouponVerdict reports what happened to a submitted code. Rejections
// are part of the payload, not transport errors: the quote itself still
// succeeds without the discount.
type CouponVerdict struct {
	Code     string  `json:"code"`
	Applied  bool    `json:"applied"`
	Discount float64 `json:"discount,omitempty"`
	Reason   string  `json:"reason,omitempty"`
	Message  string  `json:"message,omitempty"`

	RequiredMinSpend float64 `json:"required_min_spend,omitempty"`
	EligibleSubtotal float64 `json:"eligible_subtotal,omitempty"`
}

type QuoteResponse struct {
	QuoteID string `json:"quote_id"`

	Subtotal float64          `json:"subtotal"`
	Shipping EstimateResponse `json:"shipping"`
	Coupon   *CouponVerdict   `json:"coupon,omitempty"`
	Discount float64          `json:"discount"`
	Total    float64          `json:"total"`
}
