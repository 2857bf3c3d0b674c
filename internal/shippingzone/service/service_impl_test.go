package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/storefront/internal/clock"
	zonedomain "github.com/smallbiznis/storefront/internal/shippingzone/domain"
	"github.com/smallbiznis/storefront/internal/shippingzone/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (zonedomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&zonedomain.ShippingZone{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.NewFakeClock(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		Repository: repository.NewRepository(db),
	})
	return svc, db
}

func TestCreate_SlugAndNormalization(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), zonedomain.CreateRequest{
		Name:         "North America",
		Countries:    []string{"us", "Canada", "MX", "us"},
		ShippingCost: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, "north-america", resp.Slug)
	assert.Equal(t, []string{"US", "CA", "MX"}, resp.Countries)
	assert.True(t, resp.IsActive)
	assert.False(t, resp.IsDefault)
}

func TestCreate_RejectsUnknownCountry(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), zonedomain.CreateRequest{
		Name:         "Atlantis",
		Countries:    []string{"Atlantis"},
		ShippingCost: 10,
	})
	assert.ErrorIs(t, err, zonedomain.ErrInvalidCountry)
}

func TestCreate_RejectsNegativeCost(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), zonedomain.CreateRequest{
		Name:         "Broken",
		ShippingCost: -1,
	})
	assert.ErrorIs(t, err, zonedomain.ErrInvalidCost)
}

func TestCreate_DefaultUnsetsOthers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, zonedomain.CreateRequest{
		Name:         "Rest of World",
		ShippingCost: 120,
		IsDefault:    true,
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, zonedomain.CreateRequest{
		Name:         "New Default",
		ShippingCost: 90,
		IsDefault:    true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	reloaded, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
}

func TestUpdate_PromoteToDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	old, err := svc.Create(ctx, zonedomain.CreateRequest{Name: "Old Default", ShippingCost: 100, IsDefault: true})
	require.NoError(t, err)
	candidate, err := svc.Create(ctx, zonedomain.CreateRequest{Name: "Candidate", ShippingCost: 60})
	require.NoError(t, err)

	isDefault := true
	updated, err := svc.Update(ctx, zonedomain.UpdateRequest{ID: candidate.ID, IsDefault: &isDefault})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	reloaded, err := svc.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
}

func TestList_FilterByCountry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, zonedomain.CreateRequest{Name: "Europe", Countries: []string{"DE", "FR"}, ShippingCost: 80})
	require.NoError(t, err)
	_, err = svc.Create(ctx, zonedomain.CreateRequest{Name: "Asia", Countries: []string{"Japan", "VN"}, ShippingCost: 60})
	require.NoError(t, err)

	zones, err := svc.List(ctx, zonedomain.ListRequest{Country: "JP"})
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Asia", zones[0].Name)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, zonedomain.CreateRequest{Name: "Doomed", ShippingCost: 10})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, zonedomain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), zonedomain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "not-a-snowflake"), zonedomain.ErrInvalidID)
}
