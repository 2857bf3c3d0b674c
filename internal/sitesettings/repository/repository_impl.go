package repository

import (
	"context"
	"errors"

	settingsdomain "github.com/smallbiznis/storefront/internal/sitesettings/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const singletonID = 1

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) settingsdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*settingsdomain.SiteSetting, error) {
	var setting settingsdomain.SiteSetting
	err := r.db.WithContext(ctx).First(&setting, "id = ?", singletonID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (r *repository) Upsert(ctx context.Context, setting *settingsdomain.SiteSetting) error {
	setting.ID = singletonID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"domestic_country_code",
			"domestic_cost",
			"fallback_cost",
			"updated_at",
		}),
	}).Create(setting).Error
}
