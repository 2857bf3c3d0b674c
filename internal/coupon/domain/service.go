package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"

	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
)

type Repository interface {
	Create(ctx context.Context, coupon *Coupon) error
	FindByID(ctx context.Context, id snowflake.ID) (*Coupon, error)
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context, filter ListRequest) ([]Coupon, error)
	ListActive(ctx context.Context) ([]Coupon, error)
	Update(ctx context.Context, coupon *Coupon) error
	Delete(ctx context.Context, id snowflake.ID) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	// ActiveCatalog returns every active coupon in resolver form.
	ActiveCatalog(ctx context.Context) ([]pricingdomain.Coupon, error)
}

type ListRequest struct {
	Code     string `form:"code"`
	IsActive *bool  `form:"is_active"`
	SortBy   string `form:"sort_by"`
	OrderBy  string `form:"order_by"`
}

type CreateRequest struct {
	Code               string     `json:"code"`
	Kind               string     `json:"kind"`
	Amount             float64    `json:"amount"`
	Label              string     `json:"label"`
	Description        *string    `json:"description,omitempty"`
	MinSpend           float64    `json:"min_spend"`
	ApplicableProducts []string   `json:"applicable_products,omitempty"`
	ExpiryDate         *time.Time `json:"expiry_date,omitempty"`
	IsActive           *bool      `json:"is_active,omitempty"`
}

type UpdateRequest struct {
	ID                 string     `json:"id"`
	Amount             *float64   `json:"amount,omitempty"`
	Label              *string    `json:"label,omitempty"`
	Description        *string    `json:"description,omitempty"`
	MinSpend           *float64   `json:"min_spend,omitempty"`
	ApplicableProducts *[]string  `json:"applicable_products,omitempty"`
	ExpiryDate         *time.Time `json:"expiry_date,omitempty"`
	ClearExpiry        bool       `json:"clear_expiry,omitempty"`
	IsActive           *bool      `json:"is_active,omitempty"`
}

type Response struct {
	ID                 string     `json:"id"`
	Code               string     `json:"code"`
	Kind               string     `json:"kind"`
	Amount             float64    `json:"amount"`
	Label              string     `json:"label"`
	Description        *string    `json:"description,omitempty"`
	MinSpend           float64    `json:"min_spend"`
	ApplicableProducts []string   `json:"applicable_products,omitempty"`
	ExpiryDate         *time.Time `json:"expiry_date,omitempty"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
