package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	coupondomain "github.com/smallbiznis/storefront/internal/coupon/domain"
	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
	zonedomain "github.com/smallbiznis/storefront/internal/shippingzone/domain"
	settingsdomain "github.com/smallbiznis/storefront/internal/sitesettings/domain"
)

// EnsureDefaults seeds shipping zones, site settings and a welcome
// coupon so a fresh install can price carts immediately. Existing rows
// are left alone.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureZones(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureSettings(ctx, tx); err != nil {
			return err
		}
		return ensureWelcomeCoupon(ctx, tx, node)
	})
}

func ensureZones(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&zonedomain.ShippingZone{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		name      string
		countries []string
		cost      float64
		isDefault bool
		priority  int
	}{
		{"North America", []string{"US", "CA", "MX"}, 50, false, 1},
		{"Europe", []string{"GB", "DE", "FR", "IT", "ES", "NL"}, 80, false, 2},
		{"Asia Pacific", []string{"JP", "KR", "SG", "AU", "NZ"}, 60, false, 3},
		{"Rest of World", nil, 120, true, 100},
	}

	now := time.Now().UTC()
	for _, z := range defaults {
		zone := zonedomain.ShippingZone{
			ID:           node.Generate(),
			Name:         z.name,
			Slug:         slug.Make(z.name),
			Countries:    datatypes.NewJSONType(z.countries),
			ShippingCost: z.cost,
			IsDefault:    z.isDefault,
			IsActive:     true,
			Priority:     z.priority,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.WithContext(ctx).Create(&zone).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureSettings(ctx context.Context, tx *gorm.DB) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&settingsdomain.SiteSetting{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	setting := settingsdomain.SiteSetting{
		ID:                  1,
		DomesticCountryCode: "VN",
		DomesticCost:        25,
		FallbackCost:        200,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	return tx.WithContext(ctx).Create(&setting).Error
}

func ensureWelcomeCoupon(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&coupondomain.Coupon{}).
		Where("LOWER(code) = ?", "welcome10").
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	coupon := coupondomain.Coupon{
		ID:        node.Generate(),
		Code:      "WELCOME10",
		Kind:      pricingdomain.CouponPercentage,
		Amount:    10,
		Label:     "Welcome discount",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&coupon).Error
}
