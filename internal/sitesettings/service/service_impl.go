package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/storefront/internal/clock"
	"github.com/smallbiznis/storefront/internal/config"
	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
	settingsdomain "github.com/smallbiznis/storefront/internal/sitesettings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	Pricing    *config.PricingConfig
	Repository settingsdomain.Repository
}

type service struct {
	log     *zap.Logger
	clock   clock.Clock
	pricing *config.PricingConfig
	repo    settingsdomain.Repository
}

func NewService(p ServiceParam) settingsdomain.Service {
	return &service{
		log:     p.Log,
		clock:   p.Clock,
		pricing: p.Pricing,
		repo:    p.Repository,
	}
}

func (s *service) Resolve(ctx context.Context) (pricingdomain.ShippingSettings, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return pricingdomain.ShippingSettings{}, err
	}
	if setting != nil {
		return setting.ToResolverSettings(), nil
	}

	defaults := s.pricing.Defaults()
	return pricingdomain.ShippingSettings{
		DomesticCountryCode: defaults.DomesticCountryCode,
		DomesticCost:        defaults.DomesticCost,
		FallbackCost:        defaults.FallbackCost,
	}, nil
}

func (s *service) Get(ctx context.Context) (*settingsdomain.Response, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		defaults := s.pricing.Defaults()
		return &settingsdomain.Response{
			DomesticCountryCode: defaults.DomesticCountryCode,
			DomesticCost:        defaults.DomesticCost,
			FallbackCost:        defaults.FallbackCost,
		}, nil
	}
	return toResponse(setting), nil
}

func (s *service) Update(ctx context.Context, req settingsdomain.UpdateRequest) (*settingsdomain.Response, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if setting == nil {
		defaults := s.pricing.Defaults()
		setting = &settingsdomain.SiteSetting{
			DomesticCountryCode: defaults.DomesticCountryCode,
			DomesticCost:        defaults.DomesticCost,
			FallbackCost:        defaults.FallbackCost,
			CreatedAt:           now,
		}
	}

	if req.DomesticCountryCode != nil {
		setting.DomesticCountryCode = strings.ToUpper(strings.TrimSpace(*req.DomesticCountryCode))
	}
	if req.DomesticCost != nil {
		setting.DomesticCost = *req.DomesticCost
	}
	if req.FallbackCost != nil {
		setting.FallbackCost = *req.FallbackCost
	}
	setting.UpdatedAt = now

	if err := setting.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}

	s.log.Info("site settings updated",
		zap.String("domestic_country_code", setting.DomesticCountryCode),
		zap.Float64("domestic_cost", setting.DomesticCost),
		zap.Float64("fallback_cost", setting.FallbackCost),
	)
	return toResponse(setting), nil
}

func toResponse(setting *settingsdomain.SiteSetting) *settingsdomain.Response {
	return &settingsdomain.Response{
		DomesticCountryCode: setting.DomesticCountryCode,
		DomesticCost:        setting.DomesticCost,
		FallbackCost:        setting.FallbackCost,
		UpdatedAt:           setting.UpdatedAt,
	}
}
