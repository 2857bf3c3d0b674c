package config

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(providePricingConfig),
)

func providePricingConfig(cfg Config, log *zap.Logger) (*PricingConfig, error) {
	return NewPricingConfig(cfg.PricingConfigPath, log)
}
