package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	coupondomain "github.com/smallbiznis/storefront/internal/coupon/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) coupondomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, coupon *coupondomain.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*coupondomain.Coupon, error) {
	var coupon coupondomain.Coupon
	err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*coupondomain.Coupon, error) {
	var coupon coupondomain.Coupon
	err := r.db.WithContext(ctx).
		Where("LOWER(code) = ?", strings.ToLower(strings.TrimSpace(code))).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *repository) List(ctx context.Context, filter coupondomain.ListRequest) ([]coupondomain.Coupon, error) {
	var coupons []coupondomain.Coupon
	stmt := r.db.WithContext(ctx).Model(&coupondomain.Coupon{})

	if filter.Code != "" {
		stmt = stmt.Where("LOWER(code) = ?", strings.ToLower(strings.TrimSpace(filter.Code)))
	}
	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}

	stmt = stmt.Order(orderClause(filter.SortBy, filter.OrderBy))

	if err := stmt.Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *repository) ListActive(ctx context.Context) ([]coupondomain.Coupon, error) {
	var coupons []coupondomain.Coupon
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *repository) Update(ctx context.Context, coupon *coupondomain.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&coupondomain.Coupon{}, "id = ?", id).Error
}

func orderClause(sortBy, orderBy string) string {
	column := "created_at"
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "code":
		column = "code"
	case "expiry_date":
		column = "expiry_date"
	case "created_at", "":
	}

	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(orderBy), "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}
