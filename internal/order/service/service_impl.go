package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/storefront/internal/clock"
	"github.com/smallbiznis/storefront/internal/config"
	"github.com/smallbiznis/storefront/internal/observability/logger"
	"github.com/smallbiznis/storefront/internal/observability/metrics"
	domain "github.com/smallbiznis/storefront/internal/order/domain"
	"github.com/smallbiznis/storefront/internal/providers/pdf"
	quotedomain "github.com/smallbiznis/storefront/internal/quote/domain"
	zonedomain "github.com/smallbiznis/storefront/internal/shippingzone/domain"
	"github.com/smallbiznis/storefront/pkg/db/pagination"
	"gorm.io/datatypes"
)

type ServiceParam struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repository domain.Repository
	Quotes     quotedomain.Service
	PDF        pdf.Provider
	Metrics    *metrics.Metrics `optional:"true"`
}

type service struct {
	cfg     config.Config
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	quotes  quotedomain.Service
	pdf     pdf.Provider
	metrics *metrics.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &service{
		cfg:     p.Config,
		log:     p.Log,
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repository,
		quotes:  p.Quotes,
		pdf:     p.PDF,
		metrics: p.Metrics,
	}
}

func (s *service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.Response, error) {
	log := logger.WithContext(ctx, s.log)

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		return nil, domain.ErrInvalidIdempotencyKey
	}
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	existing, err := s.repo.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Info("checkout replayed",
			zap.String("order_id", existing.ID.String()),
			zap.String("idempotency_key", key),
		)
		return toResponse(existing), nil
	}

	quote, err := s.quotes.Quote(ctx, quotedomain.QuoteRequest{
		CountryCode: req.Address.CountryCode,
		Items:       req.Items,
		CouponCode:  req.CouponCode,
	})
	if err != nil {
		return nil, err
	}

	// An order needs a real shipping price. An estimate may stay
	// unresolved; a checkout may not.
	if quote.Shipping.State != "computed" {
		return nil, domain.ErrShippingUnresolved
	}

	order := &domain.Order{
		ID:             s.genID.Generate(),
		IdempotencyKey: key,
		Email:          strings.TrimSpace(req.Email),
		Address:        datatypes.NewJSONType(req.Address),
		Items:          datatypes.NewJSONType(freezeItems(req.Items)),
		Subtotal:       quote.Subtotal,
		ShippingCost:   quote.Shipping.Cost,
		ShippingLabel:  quote.Shipping.ZoneLabel,
		DiscountAmount: quote.Discount,
		Total:          quote.Total,
		Status:         domain.StatusPendingPayment,
		CreatedAt:      s.clock.Now(),
		UpdatedAt:      s.clock.Now(),
	}
	if quote.Coupon != nil && quote.Coupon.Applied {
		code := quote.Coupon.Code
		order.CouponCode = &code
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.RecordCheckout(ctx, order.Status)
	log.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("quote_id", quote.QuoteID),
		zap.Float64("total", order.Total),
		zap.String("shipping_label", order.ShippingLabel),
	)

	return toResponse(order), nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(order), nil
}

func (s *service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	var cursor *pagination.Cursor
	if req.PageToken != "" {
		c, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, err
		}
		cursor = c
	}

	limit := req.Limit()
	orders, err := s.repo.List(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	orders, hasMore := pagination.Trim(orders, limit)

	resp := &domain.ListResponse{
		Orders:   make([]domain.Response, 0, len(orders)),
		PageInfo: &pagination.PageInfo{HasMore: hasMore},
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, *toResponse(&orders[i]))
	}
	if hasMore && len(orders) > 0 {
		last := orders[len(orders)-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        last.ID.String(),
			CreatedAt: last.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		resp.PageInfo.NextPageToken = token
	}
	return resp, nil
}

func (s *service) Receipt(ctx context.Context, id string) (io.Reader, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	addr := order.Address.Data()
	items := order.Items.Data()

	lines := make([]pdf.ReceiptLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, pdf.ReceiptLine{
			Description: it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   money(it.UnitPrice),
			Amount:      money(it.LineTotal),
		})
	}

	storeName := s.cfg.Cloud.StoreName
	if storeName == "" {
		storeName = s.cfg.AppName
	}

	data := pdf.ReceiptData{
		OrderID:         order.ID.String(),
		PlacedAt:        order.CreatedAt.UTC().Format(time.RFC1123),
		Status:          order.Status,
		StoreName:       storeName,
		CustomerName:    addr.Name,
		CustomerEmail:   order.Email,
		ShippingAddress: formatAddress(addr),
		Lines:           lines,
		Subtotal:        money(order.Subtotal),
		Shipping:        money(order.ShippingCost),
		Total:           money(order.Total),
	}
	if order.DiscountAmount > 0 {
		data.Discount = "-" + money(order.DiscountAmount)
	}

	return s.pdf.GenerateReceipt(ctx, data)
}

func (s *service) find(ctx context.Context, id string) (*domain.Order, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	order, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func freezeItems(items []quotedomain.CartItem) []domain.OrderItem {
	frozen := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		frozen = append(frozen, domain.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: float64(it.Quantity) * it.UnitPrice,
		})
	}
	return frozen
}

func toResponse(o *domain.Order) *domain.Response {
	return &domain.Response{
		ID:             o.ID.String(),
		Email:          o.Email,
		Address:        o.Address.Data(),
		Items:          o.Items.Data(),
		CouponCode:     o.CouponCode,
		Subtotal:       o.Subtotal,
		ShippingCost:   o.ShippingCost,
		ShippingLabel:  o.ShippingLabel,
		DiscountAmount: o.DiscountAmount,
		Total:          o.Total,
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
	}
}

func formatAddress(a domain.Address) string {
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}
	city := a.City
	if a.PostalCode != "" {
		city += " " + a.PostalCode
	}
	if city != "" {
		parts = append(parts, city)
	}
	if name := zonedomain.CountryName(a.CountryCode); name != "" {
		parts = append(parts, name)
	} else if a.CountryCode != "" {
		parts = append(parts, a.CountryCode)
	}
	return strings.Join(parts, ", ")
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
