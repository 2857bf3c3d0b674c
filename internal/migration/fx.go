package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/smallbiznis/storefront/internal/config"
	coupondomain "github.com/smallbiznis/storefront/internal/coupon/domain"
	orderdomain "github.com/smallbiznis/storefront/internal/order/domain"
	"github.com/smallbiznis/storefront/internal/seed"
	zonedomain "github.com/smallbiznis/storefront/internal/shippingzone/domain"
	settingsdomain "github.com/smallbiznis/storefront/internal/sitesettings/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Versioned SQL migrations target postgres. Other dialects
		// (sqlite for local development) use the model schema directly.
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			err := conn.AutoMigrate(
				&zonedomain.ShippingZone{},
				&settingsdomain.SiteSetting{},
				&coupondomain.Coupon{},
				&orderdomain.Order{},
			)
			if err != nil {
				return err
			}
		}

		return seed.EnsureDefaults(conn)
	}),
)
