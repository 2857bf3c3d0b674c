package domain

import (
	"context"
	"time"

	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
)

type Repository interface {
	Get(ctx context.Context) (*SiteSetting, error)
	Upsert(ctx context.Context, setting *SiteSetting) error
}

type Service interface {
	// Resolve returns the effective shipping settings: the stored row
	// when present, otherwise the file-backed defaults.
	Resolve(ctx context.Context) (pricingdomain.ShippingSettings, error)
	Get(ctx context.Context) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
}

type UpdateRequest struct {
	DomesticCountryCode *string  `json:"domestic_country_code,omitempty"`
	DomesticCost        *float64 `json:"domestic_cost,omitempty"`
	FallbackCost        *float64 `json:"fallback_cost,omitempty"`
}

type Response struct {
	DomesticCountryCode string    `json:"domestic_country_code"`
	DomesticCost        float64   `json:"domestic_cost"`
	FallbackCost        float64   `json:"fallback_cost"`
	UpdatedAt           time.Time `json:"updated_at"`
}
