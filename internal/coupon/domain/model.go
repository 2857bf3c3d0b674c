package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
	"gorm.io/datatypes"
)

// Coupon is a catalog entry. Code comparisons are case-insensitive; the
// stored form keeps whatever casing the merchant typed.
type Coupon struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Code string       `gorm:"type:text;not null;uniqueIndex"`

	Kind   pricingdomain.CouponKind `gorm:"column:kind;type:text;not null"`
	Amount float64                  `gorm:"not null"`

	Label       string  `gorm:"type:text"`
	Description *string `gorm:"type:text"`

	MinSpend           float64                      `gorm:"column:min_spend;not null;default:0"`
	ApplicableProducts datatypes.JSONType[[]string] `gorm:"column:applicable_products"`

	ExpiryDate *time.Time `gorm:"column:expiry_date"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Coupon) TableName() string { return "coupons" }

func (c *Coupon) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return ErrInvalidCode
	}
	if c.Kind != pricingdomain.CouponPercentage && c.Kind != pricingdomain.CouponFixed {
		return ErrInvalidKind
	}
	if c.Amount < 0 {
		return ErrInvalidAmount
	}
	if c.MinSpend < 0 {
		return ErrInvalidMinSpend
	}
	return nil
}

// ToResolverCoupon converts the record into the resolver's value type.
// An empty product list means the coupon covers the whole cart.
func (c *Coupon) ToResolverCoupon() pricingdomain.Coupon {
	var products []string
	if raw := c.ApplicableProducts.Data(); len(raw) > 0 {
		products = raw
	}
	return pricingdomain.Coupon{
		Code:                 c.Code,
		Kind:                 c.Kind,
		Amount:               c.Amount,
		MinSpend:             c.MinSpend,
		ApplicableProductIDs: products,
		ExpiresAt:            c.ExpiryDate,
	}
}
