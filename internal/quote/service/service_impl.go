package service

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/storefront/internal/clock"
	coupondomain "github.com/smallbiznis/storefront/internal/coupon/domain"
	"github.com/smallbiznis/storefront/internal/observability/metrics"
	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
	quotedomain "github.com/smallbiznis/storefront/internal/quote/domain"
	zonedomain "github.com/smallbiznis/storefront/internal/shippingzone/domain"
	settingsdomain "github.com/smallbiznis/storefront/internal/sitesettings/domain"
	"github.com/smallbiznis/storefront/pkg/telemetry/correlation"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Engine   pricingdomain.Engine
	Zones    zonedomain.Repository
	Settings settingsdomain.Service
	Coupons  coupondomain.Service
	Metrics  *metrics.Metrics `optional:"true"`
}

type service struct {
	log      *zap.Logger
	clock    clock.Clock
	engine   pricingdomain.Engine
	zones    zonedomain.Repository
	settings settingsdomain.Service
	coupons  coupondomain.Service
	metrics  *metrics.Metrics
}

func NewService(p ServiceParam) quotedomain.Service {
	return &service{
		log:      p.Log,
		clock:    p.Clock,
		engine:   p.Engine,
		zones:    p.Zones,
		settings: p.Settings,
		coupons:  p.Coupons,
		metrics:  p.Metrics,
	}
}

func (s *service) EstimateShipping(ctx context.Context, req quotedomain.EstimateRequest) (*quotedomain.EstimateResponse, error) {
	items, err := toLineItems(req.Items)
	if err != nil {
		return nil, err
	}

	outcome, err := s.resolveShipping(ctx, req.CountryCode, items)
	if err != nil {
		return nil, err
	}

	resp := toEstimateResponse(*outcome, req.CountryCode)
	return &resp, nil
}

func (s *service) Quote(ctx context.Context, req quotedomain.QuoteRequest) (*quotedomain.QuoteResponse, error) {
	ctx, correlationID := correlation.EnsureCorrelationID(ctx)

	items, err := toLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, quotedomain.ErrEmptyCart
	}

	shipping, err := s.resolveShipping(ctx, req.CountryCode, items)
	if err != nil {
		return nil, err
	}

	var (
		discount *pricingdomain.DiscountApplication
		verdict  *quotedomain.CouponVerdict
	)
	if req.CouponCode != "" {
		discount, verdict, err = s.resolveCoupon(ctx, req.CouponCode, items)
		if err != nil {
			return nil, err
		}
	}

	result := s.engine.AssembleTotal(items, *shipping, discount)

	resp := &quotedomain.QuoteResponse{
		QuoteID:  ulid.Make().String(),
		Subtotal: pricingdomain.RoundMoney(result.Subtotal),
		Shipping: toEstimateResponse(*shipping, req.CountryCode),
		Coupon:   verdict,
		Discount: pricingdomain.RoundMoney(result.DiscountAmount),
		Total:    pricingdomain.RoundMoney(result.Total),
	}

	s.metrics.RecordQuoteComputed(ctx, string(shipping.State))
	s.log.Info("quote computed",
		zap.String("quote_id", resp.QuoteID),
		zap.String("correlation_id", correlationID),
		zap.String("shipping_state", string(shipping.State)),
		zap.Float64("total", resp.Total),
	)
	return resp, nil
}

func (s *service) resolveShipping(ctx context.Context, countryCode string, items []pricingdomain.LineItem) (*pricingdomain.ShippingOutcome, error) {
	zones, err := s.zones.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	resolverZones := make([]pricingdomain.ShippingZone, 0, len(zones))
	for i := range zones {
		resolverZones = append(resolverZones, zones[i].ToResolverZone())
	}

	settings, err := s.settings.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	// A malformed destination is recoverable here: an override may
	// still price the cart, otherwise the resolver reports unresolved.
	dest, err := pricingdomain.NewDestination(countryCode)
	if err != nil {
		dest = pricingdomain.Destination{}
	}

	outcome := s.engine.ResolveShipping(dest, items, resolverZones, settings)
	s.metrics.RecordShippingResolution(ctx, resolutionRule(outcome))
	return &outcome, nil
}

func (s *service) resolveCoupon(ctx context.Context, code string, items []pricingdomain.LineItem) (*pricingdomain.DiscountApplication, *quotedomain.CouponVerdict, error) {
	catalog, err := s.coupons.ActiveCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	discount, err := s.engine.ResolveDiscount(code, items, catalog, s.clock.Now())
	if err != nil {
		if pricingdomain.IsCouponRejection(err) {
			verdict := rejectionVerdict(code, err)
			s.metrics.RecordCouponRejection(ctx, verdict.Reason)
			return nil, verdict, nil
		}
		return nil, nil, err
	}

	return discount, &quotedomain.CouponVerdict{
		Code:     discount.Coupon.Code,
		Applied:  true,
		Discount: pricingdomain.RoundMoney(discount.Amount),
	}, nil
}

func rejectionVerdict(code string, err error) *quotedomain.CouponVerdict {
	verdict := &quotedomain.CouponVerdict{
		Code:    code,
		Applied: false,
		Message: err.Error(),
	}

	var minSpend *pricingdomain.MinSpendError
	switch {
	case errors.Is(err, pricingdomain.ErrCouponNotFound):
		verdict.Reason = "not_found"
	case errors.Is(err, pricingdomain.ErrCouponExpired):
		verdict.Reason = "expired"
	case errors.Is(err, pricingdomain.ErrCouponNotApplicable):
		verdict.Reason = "not_applicable"
	case errors.As(err, &minSpend):
		verdict.Reason = "min_spend"
		verdict.RequiredMinSpend = minSpend.Required
		verdict.EligibleSubtotal = pricingdomain.RoundMoney(minSpend.Eligible)
	default:
		verdict.Reason = "rejected"
	}
	return verdict
}

func resolutionRule(outcome pricingdomain.ShippingOutcome) string {
	switch {
	case outcome.State == pricingdomain.ShippingUnresolved:
		return "unresolved"
	case outcome.ZoneLabel == "Item shipping":
		return "override"
	case outcome.ZoneLabel == "Domestic":
		return "domestic"
	case outcome.ZoneLabel == "Rest of world":
		return "fallback"
	default:
		return "zone"
	}
}

func toLineItems(items []quotedomain.CartItem) ([]pricingdomain.LineItem, error) {
	out := make([]pricingdomain.LineItem, 0, len(items))
	for _, item := range items {
		li, err := pricingdomain.NewLineItem(item.ProductID, item.Quantity, item.UnitPrice, item.ShippingOverride)
		if err != nil {
			return nil, err
		}
		out = append(out, li)
	}
	return out, nil
}

func toEstimateResponse(outcome pricingdomain.ShippingOutcome, countryCode string) quotedomain.EstimateResponse {
	resp := quotedomain.EstimateResponse{
		State: string(outcome.State),
	}
	if outcome.Computed() {
		resp.Cost = pricingdomain.RoundMoney(outcome.Cost)
		resp.ZoneLabel = outcome.ZoneLabel
	}
	if code, ok := zonedomain.NormalizeCountry(countryCode); ok {
		resp.CountryName = zonedomain.CountryName(code)
	}
	return resp
}
