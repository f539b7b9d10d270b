package postgres

import (
	"context"
	"errors"

	settingDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/setting"
	"github.com/frahmantamala/ticketing/internal/setting"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	var s settingDatamodel.Setting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", setting.ErrSettingNotFound
		}
		return "", err
	}
	return s.Value, nil
}

func (r *SettingRepository) Upsert(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value"}),
	}).Create(&settingDatamodel.Setting{Key: key, Value: value}).Error
}
