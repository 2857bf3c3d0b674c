package domain

import (
	"context"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	quotedomain "github.com/smallbiznis/storefront/internal/quote/domain"
	"github.com/smallbiznis/storefront/pkg/db/pagination"
)

type Repository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id snowflake.ID) (*Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*Order, error)
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]Order, error)
}

type Service interface {
	// Checkout prices the cart server-side and persists the order.
	// Submitting the same idempotency key again returns the original
	// order without re-pricing.
	Checkout(ctx context.Context, req CheckoutRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)

	// Receipt renders the order receipt PDF.
	Receipt(ctx context.Context, id string) (io.Reader, error)
}

type CheckoutRequest struct {
	IdempotencyKey string                 `json:"idempotency_key"`
	Email          string                 `json:"email"`
	Address        Address                `json:"address"`
	Items          []quotedomain.CartItem `json:"items"`
	CouponCode     string                 `json:"coupon_code,omitempty"`
}

type ListRequest struct {
	pagination.Pagination
}

type Response struct {
	ID             string      `json:"id"`
	Email          string      `json:"email"`
	Address        Address     `json:"address"`
	Items          []OrderItem `json:"items"`
	CouponCode     *string     `json:"coupon_code,omitempty"`
	Subtotal       float64     `json:"subtotal"`
	ShippingCost   float64     `json:"shipping_cost"`
	ShippingLabel  string      `json:"shipping_label,omitempty"`
	DiscountAmount float64     `json:"discount_amount"`
	Total          float64     `json:"total"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
}

type ListResponse struct {
	Orders   []Response           `json:"orders"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}
