package order

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/storefront/internal/order/repository"
	"github.com/smallbiznis/storefront/internal/order/service"
)

var Module = fx.Module("order.service",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
