package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusPendingPayment = "pending_payment"
	StatusPaid           = "paid"
	StatusCancelled      = "cancelled"
)

// OrderItem is a priced cart line frozen at checkout time.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Address is the shipping address captured at checkout.
type Address struct {
	Name        string `json:"name"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2,omitempty"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code,omitempty"`
	CountryCode string `json:"country_code"`
}

// Order is a checkout record. Pricing fields are frozen copies of the
// quote that produced them; later zone or coupon edits never reprice a
// placed order.
type Order struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	IdempotencyKey string       `gorm:"column:idempotency_key;type:text;not null;uniqueIndex"`

	Email   string                          `gorm:"type:text;not null"`
	Address datatypes.JSONType[Address]     `gorm:"column:address"`
	Items   datatypes.JSONType[[]OrderItem] `gorm:"column:items"`

	CouponCode *string `gorm:"column:coupon_code;type:text"`

	Subtotal       float64 `gorm:"not null"`
	ShippingCost   float64 `gorm:"column:shipping_cost;not null"`
	ShippingLabel  string  `gorm:"column:shipping_label;type:text"`
	DiscountAmount float64 `gorm:"column:discount_amount;not null"`
	Total          float64 `gorm:"not null"`

	Status string `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) Validate() error {
	if strings.TrimSpace(o.IdempotencyKey) == "" {
		return ErrInvalidIdempotencyKey
	}
	if strings.TrimSpace(o.Email) == "" {
		return ErrInvalidEmail
	}
	if len(o.Items.Data()) == 0 {
		return ErrEmptyOrder
	}
	return nil
}
