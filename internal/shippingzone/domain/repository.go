package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// Create persists the zone. When unsetOtherDefaults is set the write
	// and the demotion of every other default zone happen in one
	// transaction.
	Create(ctx context.Context, zone *ShippingZone, unsetOtherDefaults bool) error
	FindByID(ctx context.Context, id snowflake.ID) (*ShippingZone, error)
	List(ctx context.Context, filter ListRequest) ([]ShippingZone, error)
	ListActive(ctx context.Context) ([]ShippingZone, error)
	Update(ctx context.Context, zone *ShippingZone, unsetOtherDefaults bool) error
	Delete(ctx context.Context, id snowflake.ID) error
}
