package config

import (
	"errors"
	"io/fs"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// PricingDefaults are the file-backed shipping defaults used when the
// settings row has not been customized yet.
type PricingDefaults struct {
	DomesticCountryCode string  `mapstructure:"domestic_country_code"`
	DomesticCost        float64 `mapstructure:"domestic_cost"`
	FallbackCost        float64 `mapstructure:"fallback_cost"`
}

// PricingConfig serves the current pricing defaults and hot-reloads
// them when the backing file changes. Reads never block writers.
type PricingConfig struct {
	current atomic.Pointer[PricingDefaults]
}

// NewPricingConfig loads the pricing file at path and watches it for
// changes. A missing file is not an error; built-in defaults apply.
func NewPricingConfig(path string, log *zap.Logger) (*PricingConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("domestic_country_code", "VN")
	v.SetDefault("domestic_cost", 25.0)
	v.SetDefault("fallback_cost", 200.0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			log.Info("pricing config file missing, using defaults", zap.String("path", path))
		} else {
			return nil, err
		}
	}

	pc := &PricingConfig{}
	pc.store(v)

	v.OnConfigChange(func(e fsnotify.Event) {
		pc.store(v)
		log.Info("pricing config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return pc, nil
}

// Defaults returns the most recently loaded snapshot.
func (pc *PricingConfig) Defaults() PricingDefaults {
	return *pc.current.Load()
}

func (pc *PricingConfig) store(v *viper.Viper) {
	d := PricingDefaults{
		DomesticCountryCode: strings.ToUpper(strings.TrimSpace(v.GetString("domestic_country_code"))),
		DomesticCost:        v.GetFloat64("domestic_cost"),
		FallbackCost:        v.GetFloat64("fallback_cost"),
	}
	pc.current.Store(&d)
}
