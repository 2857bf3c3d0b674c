package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/storefront/internal/admintoken"
	"github.com/smallbiznis/storefront/internal/config"
	coupondomain "github.com/smallbiznis/storefront/internal/coupon/domain"
	"github.com/smallbiznis/storefront/internal/observability"
	obsmetrics "github.com/smallbiznis/storefront/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/storefront/internal/order/domain"
	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
	quotedomain "github.com/smallbiznis/storefront/internal/quote/domain"
	zonedomain "github.com/smallbiznis/storefront/internal/shippingzone/domain"
	settingsdomain "github.com/smallbiznis/storefront/internal/sitesettings/domain"
)

type fakeQuoteService struct {
	quoteCalls int
	quoteErr   error
}

func (f *fakeQuoteService) EstimateShipping(ctx context.Context, req quotedomain.EstimateRequest) (*quotedomain.EstimateResponse, error) {
	_ = ctx
	_ = req
	return &quotedomain.EstimateResponse{State: "computed", Cost: 50, ZoneLabel: "North America"}, nil
}

func (f *fakeQuoteService) Quote(ctx context.Context, req quotedomain.QuoteRequest) (*quotedomain.QuoteResponse, error) {
	f.quoteCalls++
	_ = ctx
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	subtotal := 0.0
	for _, it := range req.Items {
		subtotal += float64(it.Quantity) * it.UnitPrice
	}
	return &quotedomain.QuoteResponse{
		QuoteID:  "q-test",
		Subtotal: subtotal,
		Shipping: quotedomain.EstimateResponse{State: "computed", Cost: 50},
		Total:    subtotal + 50,
	}, nil
}

type fakeOrderService struct {
	checkoutErr error
}

func (f *fakeOrderService) Checkout(ctx context.Context, req orderdomain.CheckoutRequest) (*orderdomain.Response, error) {
	_ = ctx
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	return &orderdomain.Response{ID: "1", Email: req.Email, Total: 250, Status: orderdomain.StatusPendingPayment}, nil
}

func (f *fakeOrderService) Get(ctx context.Context, id string) (*orderdomain.Response, error) {
	_ = ctx
	if id != "1" {
		return nil, orderdomain.ErrNotFound
	}
	return &orderdomain.Response{ID: "1"}, nil
}

func (f *fakeOrderService) List(ctx context.Context, req orderdomain.ListRequest) (*orderdomain.ListResponse, error) {
	_ = ctx
	_ = req
	return &orderdomain.ListResponse{}, nil
}

func (f *fakeOrderService) Receipt(ctx context.Context, id string) (io.Reader, error) {
	_ = ctx
	_ = id
	return strings.NewReader("%PDF-fake"), nil
}

type fakeZoneService struct{}

func (fakeZoneService) Create(context.Context, zonedomain.CreateRequest) (*zonedomain.Response, error) {
	return &zonedomain.Response{ID: "1"}, nil
}
func (fakeZoneService) Get(context.Context, string) (*zonedomain.Response, error) {
	return nil, zonedomain.ErrNotFound
}
func (fakeZoneService) List(context.Context, zonedomain.ListRequest) ([]zonedomain.Response, error) {
	return nil, nil
}
func (fakeZoneService) Update(context.Context, zonedomain.UpdateRequest) (*zonedomain.Response, error) {
	return nil, zonedomain.ErrNotFound
}
func (fakeZoneService) Delete(context.Context, string) error { return nil }

type fakeSettingsService struct{}

func (fakeSettingsService) Resolve(context.Context) (pricingdomain.ShippingSettings, error) {
	return pricingdomain.ShippingSettings{}, nil
}
func (fakeSettingsService) Get(context.Context) (*settingsdomain.Response, error) {
	return &settingsdomain.Response{DomesticCountryCode: "VN"}, nil
}
func (fakeSettingsService) Update(context.Context, settingsdomain.UpdateRequest) (*settingsdomain.Response, error) {
	return &settingsdomain.Response{}, nil
}

type fakeCouponService struct{}

func (fakeCouponService) Create(context.Context, coupondomain.CreateRequest) (*coupondomain.Response, error) {
	return &coupondomain.Response{}, nil
}
func (fakeCouponService) Get(context.Context, string) (*coupondomain.Response, error) {
	return nil, coupondomain.ErrNotFound
}
func (fakeCouponService) List(context.Context, coupondomain.ListRequest) ([]coupondomain.Response, error) {
	return nil, nil
}
func (fakeCouponService) Update(context.Context, coupondomain.UpdateRequest) (*coupondomain.Response, error) {
	return nil, coupondomain.ErrNotFound
}
func (fakeCouponService) Delete(context.Context, string) error { return nil }
func (fakeCouponService) ActiveCatalog(context.Context) ([]pricingdomain.Coupon, error) {
	return nil, nil
}

func newTestServer(t *testing.T, cfg config.Config, quotes quotedomain.Service, orders orderdomain.Service) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	httpMetrics, err := obsmetrics.NewHTTPMetrics()
	require.NoError(t, err)
	engine := NewEngine(observability.Config{LogLevel: "info", Environment: "production"}, httpMetrics)

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	srv := NewServer(ServerParams{
		Gin:         engine,
		Cfg:         cfg,
		Log:         zap.NewNop(),
		GenID:       node,
		QuoteSvc:    quotes,
		OrderSvc:    orders,
		ZoneSvc:     fakeZoneService{},
		SettingsSvc: fakeSettingsService{},
		CouponSvc:   fakeCouponService{},
	})
	srv.RegisterStorefrontRoutes()
	srv.RegisterAdminRoutes()
	return srv
}

func TestQuoteEndpoint(t *testing.T) {
	quotes := &fakeQuoteService{}
	srv := newTestServer(t, config.Config{}, quotes, &fakeOrderService{})

	body := `{"country_code":"US","items":[{"product_id":"p1","quantity":2,"unit_price":50}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/quote", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, quotes.quoteCalls)
	assert.Contains(t, rec.Body.String(), `"quote_id":"q-test"`)
}

func TestQuoteEndpoint_EmptyCartIsValidationError(t *testing.T) {
	quotes := &fakeQuoteService{quoteErr: quotedomain.ErrEmptyCart}
	srv := newTestServer(t, config.Config{}, quotes, &fakeOrderService{})

	req := httptest.NewRequest(http.MethodPost, "/api/quote", bytes.NewBufferString(`{"country_code":"US"}`))
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestQuoteEndpoint_MalformedLineItemIsValidationError(t *testing.T) {
	quotes := &fakeQuoteService{quoteErr: pricingdomain.ErrInvalidProductID}
	srv := newTestServer(t, config.Config{}, quotes, &fakeOrderService{})

	body := `{"country_code":"US","items":[{"product_id":"","quantity":1,"unit_price":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/quote", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
	assert.Contains(t, rec.Body.String(), "invalid_product_id")
}

func TestCheckoutEndpoint_UnresolvedShipping(t *testing.T) {
	orders := &fakeOrderService{checkoutErr: orderdomain.ErrShippingUnresolved}
	srv := newTestServer(t, config.Config{}, &fakeQuoteService{}, orders)

	body := `{"idempotency_key":"k1","email":"a@b.c","address":{"country_code":"XX"},"items":[{"product_id":"p1","quantity":1,"unit_price":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "shipping_unresolved")
}

func TestAdminAuth(t *testing.T) {
	digest, err := admintoken.Hash("sesame")
	require.NoError(t, err)
	srv := newTestServer(t, config.Config{AdminTokenHash: digest}, &fakeQuoteService{}, &fakeOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/admin/api/site-settings", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/api/site-settings", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/api/site-settings", nil)
	req.Header.Set("Authorization", "Bearer sesame")
	rec = httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "VN")
}

func TestAdminAuth_DisabledWithoutDigest(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &fakeQuoteService{}, &fakeOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/admin/api/site-settings", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
