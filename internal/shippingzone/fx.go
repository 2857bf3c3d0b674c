package shippingzone

import (
	"github.com/smallbiznis/storefront/internal/shippingzone/repository"
	"github.com/smallbiznis/storefront/internal/shippingzone/service"
	"go.uber.org/fx"
)

var Module = fx.Module("shippingzone.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
