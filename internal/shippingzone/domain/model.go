package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
	"gorm.io/datatypes"
)

// ShippingZone is a persisted destination group with a flat rate.
// Country lists may still contain legacy display names; they are
// normalized to alpha-2 codes when the zone feeds the resolver.
type ShippingZone struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null"`
	Slug string       `gorm:"type:text;not null;uniqueIndex"`

	Countries    datatypes.JSONType[[]string] `gorm:"column:countries"`
	ShippingCost float64                      `gorm:"column:shipping_cost;not null"`

	IsDefault bool `gorm:"column:is_default;not null;default:false"`
	IsActive  bool `gorm:"column:is_active;not null;default:true"`
	Priority  int  `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ShippingZone) TableName() string { return "shipping_zones" }

func (z *ShippingZone) Validate() error {
	if z.Name == "" {
		return ErrInvalidName
	}
	if z.ShippingCost < 0 {
		return ErrInvalidCost
	}
	return nil
}

// CountryCodes returns the zone countries normalized to alpha-2 codes.
func (z *ShippingZone) CountryCodes() []string {
	raw := z.Countries.Data()
	codes := make([]string, 0, len(raw))
	for _, entry := range raw {
		if code, ok := NormalizeCountry(entry); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// ToResolverZone converts the record into the resolver's value type.
func (z *ShippingZone) ToResolverZone() pricingdomain.ShippingZone {
	return pricingdomain.ShippingZone{
		ID:           z.ID.String(),
		Name:         z.Name,
		CountryCodes: z.CountryCodes(),
		Cost:         z.ShippingCost,
		IsDefault:    z.IsDefault,
		IsActive:     z.IsActive,
		Priority:     z.Priority,
	}
}
