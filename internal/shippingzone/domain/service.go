package domain

import (
	"context"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type ListRequest struct {
	IsActive *bool  `form:"is_active"`
	Country  string `form:"country"`
	SortBy   string `form:"sort_by"`
	OrderBy  string `form:"order_by"`
}

type CreateRequest struct {
	Name         string   `json:"name"`
	Countries    []string `json:"countries"`
	ShippingCost float64  `json:"shipping_cost"`
	IsDefault    bool     `json:"is_default"`
	IsActive     *bool    `json:"is_active"`
	Priority     int      `json:"priority"`
}

type UpdateRequest struct {
	ID           string    `json:"id"`
	Name         *string   `json:"name,omitempty"`
	Countries    *[]string `json:"countries,omitempty"`
	ShippingCost *float64  `json:"shipping_cost,omitempty"`
	IsDefault    *bool     `json:"is_default,omitempty"`
	IsActive     *bool     `json:"is_active,omitempty"`
	Priority     *int      `json:"priority,omitempty"`
}

type Response struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Countries    []string  `json:"countries"`
	ShippingCost float64   `json:"shipping_cost"`
	IsDefault    bool      `json:"is_default"`
	IsActive     bool      `json:"is_active"`
	Priority     int       `json:"priority"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
