package coupon

import (
	"github.com/smallbiznis/storefront/internal/coupon/repository"
	"github.com/smallbiznis/storefront/internal/coupon/service"
	"go.uber.org/fx"
)

var Module = fx.Module("coupon.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
