package domain

import (
	"time"

	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
)

// SiteSetting is the singleton row carrying store-wide shipping rates.
type SiteSetting struct {
	ID int64 `gorm:"primaryKey"`

	DomesticCountryCode string  `gorm:"column:domestic_country_code;type:text;not null"`
	DomesticCost        float64 `gorm:"column:domestic_cost;not null"`
	FallbackCost        float64 `gorm:"column:fallback_cost;not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SiteSetting) TableName() string { return "site_settings" }

func (s *SiteSetting) Validate() error {
	if !pricingdomain.IsCountryCode(s.DomesticCountryCode) {
		return ErrInvalidCountryCode
	}
	if s.DomesticCost < 0 || s.FallbackCost < 0 {
		return ErrInvalidCost
	}
	return nil
}

// ToResolverSettings converts the row into the resolver's value type.
func (s *SiteSetting) ToResolverSettings() pricingdomain.ShippingSettings {
	return pricingdomain.ShippingSettings{
		DomesticCountryCode: s.DomesticCountryCode,
		DomesticCost:        s.DomesticCost,
		FallbackCost:        s.FallbackCost,
	}
}
