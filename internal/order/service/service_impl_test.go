package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/storefront/internal/clock"
	coupondomain "github.com/smallbiznis/storefront/internal/coupon/domain"
	couponrepo "github.com/smallbiznis/storefront/internal/coupon/repository"
	couponservice "github.com/smallbiznis/storefront/internal/coupon/service"
	"github.com/smallbiznis/storefront/internal/config"
	orderdomain "github.com/smallbiznis/storefront/internal/order/domain"
	orderrepo "github.com/smallbiznis/storefront/internal/order/repository"
	pricingservice "github.com/smallbiznis/storefront/internal/pricing/service"
	"github.com/smallbiznis/storefront/internal/providers/pdf"
	quotedomain "github.com/smallbiznis/storefront/internal/quote/domain"
	quoteservice "github.com/smallbiznis/storefront/internal/quote/service"
	zonedomain "github.com/smallbiznis/storefront/internal/shippingzone/domain"
	zonerepo "github.com/smallbiznis/storefront/internal/shippingzone/repository"
	settingsdomain "github.com/smallbiznis/storefront/internal/sitesettings/domain"
	settingsrepo "github.com/smallbiznis/storefront/internal/sitesettings/repository"
	settingsservice "github.com/smallbiznis/storefront/internal/sitesettings/service"
	"github.com/smallbiznis/storefront/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	svc     orderdomain.Service
	coupons coupondomain.Service
	clock   *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&zonedomain.ShippingZone{},
		&settingsdomain.SiteSetting{},
		&coupondomain.Coupon{},
		&orderdomain.Order{},
	))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	pricing, err := config.NewPricingConfig(filepath.Join(t.TempDir(), "pricing.yml"), log)
	require.NoError(t, err)

	zones := zonerepo.NewRepository(db)
	settingsSvc := settingsservice.NewService(settingsservice.ServiceParam{
		Log:        log,
		Clock:      fake,
		Pricing:    pricing,
		Repository: settingsrepo.NewRepository(db),
	})
	couponSvc := couponservice.NewService(couponservice.ServiceParam{
		Log:        log,
		GenID:      node,
		Clock:      fake,
		Repository: couponrepo.NewRepository(db),
	})
	quoteSvc := quoteservice.NewService(quoteservice.ServiceParam{
		Log:      log,
		Clock:    fake,
		Engine:   pricingservice.NewEngine(),
		Zones:    zones,
		Settings: settingsSvc,
		Coupons:  couponSvc,
	})

	seedZone := &zonedomain.ShippingZone{
		ID:           node.Generate(),
		Name:         "North America",
		Slug:         "north-america",
		Countries:    datatypes.NewJSONType([]string{"US", "CA", "MX"}),
		ShippingCost: 50,
		IsActive:     true,
		Priority:     1,
	}
	require.NoError(t, zones.Create(context.Background(), seedZone, false))

	svc := NewService(ServiceParam{
		Config:     config.Config{AppName: "storefront"},
		Log:        log,
		GenID:      node,
		Clock:      fake,
		Repository: orderrepo.NewRepository(db),
		Quotes:     quoteSvc,
		PDF:        pdf.NewProvider(),
	})

	return &fixture{svc: svc, coupons: couponSvc, clock: fake}
}

func checkoutRequest(key string) orderdomain.CheckoutRequest {
	return orderdomain.CheckoutRequest{
		IdempotencyKey: key,
		Email:          "ana@example.com",
		Address: orderdomain.Address{
			Name:        "Ana Lee",
			Line1:       "12 Pine St",
			City:        "Portland",
			PostalCode:  "97201",
			CountryCode: "US",
		},
		Items: []quotedomain.CartItem{
			{ProductID: "p1", Quantity: 2, UnitPrice: 50},
			{ProductID: "p2", Quantity: 1, UnitPrice: 100},
		},
	}
}

func TestCheckout_FreezesQuotePricing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coupons.Create(ctx, coupondomain.CreateRequest{Code: "TEN", Kind: "percentage", Amount: 10})
	require.NoError(t, err)

	req := checkoutRequest("key-1")
	req.CouponCode = "TEN"
	resp, err := f.svc.Checkout(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 200.0, resp.Subtotal)
	assert.Equal(t, 50.0, resp.ShippingCost)
	assert.Equal(t, "North America", resp.ShippingLabel)
	assert.Equal(t, 20.0, resp.DiscountAmount)
	assert.Equal(t, 230.0, resp.Total)
	assert.Equal(t, orderdomain.StatusPendingPayment, resp.Status)
	require.NotNil(t, resp.CouponCode)
	assert.Equal(t, "TEN", *resp.CouponCode)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 100.0, resp.Items[0].LineTotal)
}

func TestCheckout_IdempotencyKeyReplaysOriginalOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Checkout(ctx, checkoutRequest("key-replay"))
	require.NoError(t, err)

	// Same key with a different cart still returns the original order.
	again := checkoutRequest("key-replay")
	again.Items = []quotedomain.CartItem{{ProductID: "p9", Quantity: 1, UnitPrice: 999}}
	second, err := f.svc.Checkout(ctx, again)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Total, second.Total)

	list, err := f.svc.List(ctx, orderdomain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 1)
}

func TestCheckout_RejectsUnresolvedShipping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := checkoutRequest("key-bad-dest")
	req.Address.CountryCode = "ZZZ"
	_, err := f.svc.Checkout(ctx, req)
	require.ErrorIs(t, err, orderdomain.ErrShippingUnresolved)
}

func TestCheckout_ValidatesRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := checkoutRequest("")
	_, err := f.svc.Checkout(ctx, req)
	require.ErrorIs(t, err, orderdomain.ErrInvalidIdempotencyKey)

	req = checkoutRequest("key-no-email")
	req.Email = "not-an-email"
	_, err = f.svc.Checkout(ctx, req)
	require.ErrorIs(t, err, orderdomain.ErrInvalidEmail)

	req = checkoutRequest("key-empty")
	req.Items = nil
	_, err = f.svc.Checkout(ctx, req)
	require.ErrorIs(t, err, orderdomain.ErrEmptyOrder)
}

func TestList_CursorPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.svc.Checkout(ctx, checkoutRequest(fmt.Sprintf("key-%d", i)))
		require.NoError(t, err)
	}

	page1, err := f.svc.List(ctx, orderdomain.ListRequest{})
	require.NoError(t, err)
	// default page size is larger than 5
	assert.Len(t, page1.Orders, 5)
	assert.False(t, page1.PageInfo.HasMore)

	small := orderdomain.ListRequest{}
	small.PageSize = 2
	page, err := f.svc.List(ctx, small)
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	require.True(t, page.PageInfo.HasMore)
	require.NotEmpty(t, page.PageInfo.NextPageToken)

	cursor, err := pagination.DecodeCursor(page.PageInfo.NextPageToken)
	require.NoError(t, err)
	assert.Equal(t, page.Orders[1].ID, cursor.ID)
	_, err = time.Parse(time.RFC3339Nano, cursor.CreatedAt)
	require.NoError(t, err)

	seen := map[string]bool{page.Orders[0].ID: true, page.Orders[1].ID: true}

	small.PageToken = page.PageInfo.NextPageToken
	page2, err := f.svc.List(ctx, small)
	require.NoError(t, err)
	require.Len(t, page2.Orders, 2)
	for _, o := range page2.Orders {
		assert.False(t, seen[o.ID], "order %s returned twice", o.ID)
	}
}

func TestReceipt_RendersPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, checkoutRequest("key-receipt"))
	require.NoError(t, err)

	r, err := f.svc.Receipt(ctx, resp.ID)
	require.NoError(t, err)

	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Greater(t, len(raw), 4)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestGet_UnknownOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, "not-a-snowflake")
	require.ErrorIs(t, err, orderdomain.ErrInvalidID)

	_, err = f.svc.Get(ctx, "123456789")
	require.ErrorIs(t, err, orderdomain.ErrNotFound)
}
