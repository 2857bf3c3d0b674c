package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	zonedomain "github.com/smallbiznis/storefront/internal/shippingzone/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) zonedomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, zone *zonedomain.ShippingZone, unsetOtherDefaults bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(zone).Error; err != nil {
			return err
		}
		if unsetOtherDefaults {
			return unsetDefaultExcept(tx, zone.ID)
		}
		return nil
	})
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*zonedomain.ShippingZone, error) {
	var zone zonedomain.ShippingZone
	err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

func (r *repository) List(ctx context.Context, filter zonedomain.ListRequest) ([]zonedomain.ShippingZone, error) {
	var zones []zonedomain.ShippingZone
	stmt := r.db.WithContext(ctx).Model(&zonedomain.ShippingZone{})

	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}

	stmt = stmt.Order(orderClause(filter.SortBy, filter.OrderBy))

	if err := stmt.Find(&zones).Error; err != nil {
		return nil, err
	}

	// Country filtering happens in memory: stored lists mix codes and
	// legacy names, so normalization cannot be pushed into SQL.
	if code, ok := zonedomain.NormalizeCountry(filter.Country); ok {
		filtered := zones[:0]
		for _, z := range zones {
			if containsCode(z.CountryCodes(), code) {
				filtered = append(filtered, z)
			}
		}
		zones = filtered
	}

	return zones, nil
}

func (r *repository) ListActive(ctx context.Context) ([]zonedomain.ShippingZone, error) {
	var zones []zonedomain.ShippingZone
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority ASC, id ASC").
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *repository) Update(ctx context.Context, zone *zonedomain.ShippingZone, unsetOtherDefaults bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(zone).Error; err != nil {
			return err
		}
		if unsetOtherDefaults {
			return unsetDefaultExcept(tx, zone.ID)
		}
		return nil
	})
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&zonedomain.ShippingZone{}, "id = ?", id).Error
}

func unsetDefaultExcept(tx *gorm.DB, id snowflake.ID) error {
	return tx.Model(&zonedomain.ShippingZone{}).
		Where("id <> ? AND is_default = ?", id, true).
		Update("is_default", false).Error
}

func orderClause(sortBy, orderBy string) string {
	column := "priority"
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "name":
		column = "name"
	case "created_at":
		column = "created_at"
	case "shipping_cost":
		column = "shipping_cost"
	case "priority", "":
	}

	direction := "ASC"
	if strings.EqualFold(strings.TrimSpace(orderBy), "desc") {
		direction = "DESC"
	}
	return column + " " + direction
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
