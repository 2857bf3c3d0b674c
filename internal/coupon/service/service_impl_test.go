package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/storefront/internal/clock"
	coupondomain "github.com/smallbiznis/storefront/internal/coupon/domain"
	"github.com/smallbiznis/storefront/internal/coupon/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) coupondomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&coupondomain.Coupon{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	return NewService(ServiceParam{
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.NewFakeClock(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		Repository: repository.NewRepository(db),
	})
}

func TestCreate_DuplicateCodeCaseInsensitive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, coupondomain.CreateRequest{Code: "Save10", Kind: "percentage", Amount: 10})
	require.NoError(t, err)

	_, err = svc.Create(ctx, coupondomain.CreateRequest{Code: "SAVE10", Kind: "fixed", Amount: 5})
	assert.ErrorIs(t, err, coupondomain.ErrDuplicateCode)
}

func TestCreate_RejectsBadKind(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), coupondomain.CreateRequest{Code: "X", Kind: "bogus", Amount: 5})
	assert.ErrorIs(t, err, coupondomain.ErrInvalidKind)
}

func TestActiveCatalog_SkipsInactive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	active, err := svc.Create(ctx, coupondomain.CreateRequest{Code: "LIVE", Kind: "fixed", Amount: 5})
	require.NoError(t, err)

	inactive := false
	_, err = svc.Create(ctx, coupondomain.CreateRequest{Code: "DEAD", Kind: "fixed", Amount: 5, IsActive: &inactive})
	require.NoError(t, err)

	catalog, err := svc.ActiveCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, active.Code, catalog[0].Code)
}

func TestActiveCatalog_ScopedProducts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, coupondomain.CreateRequest{
		Code:               "SCOPED",
		Kind:               "fixed",
		Amount:             20,
		ApplicableProducts: []string{"p1", "p2"},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, coupondomain.CreateRequest{Code: "GLOBAL", Kind: "fixed", Amount: 5})
	require.NoError(t, err)

	catalog, err := svc.ActiveCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	byCode := map[string][]string{}
	for _, c := range catalog {
		byCode[c.Code] = c.ApplicableProductIDs
	}
	assert.Equal(t, []string{"p1", "p2"}, byCode["SCOPED"])
	assert.Nil(t, byCode["GLOBAL"])
}

func TestUpdate_ClearExpiry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	expiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, coupondomain.CreateRequest{
		Code:       "SEASONAL",
		Kind:       "percentage",
		Amount:     15,
		ExpiryDate: &expiry,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ExpiryDate)

	updated, err := svc.Update(ctx, coupondomain.UpdateRequest{ID: created.ID, ClearExpiry: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ExpiryDate)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, coupondomain.CreateRequest{Code: "GONE", Kind: "fixed", Amount: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, coupondomain.ErrNotFound)
}
