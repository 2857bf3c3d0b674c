package sitesettings

import (
	"github.com/smallbiznis/storefront/internal/sitesettings/repository"
	"github.com/smallbiznis/storefront/internal/sitesettings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sitesettings.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
