package postgres

import (
	"context"

	"github.com/frahmantamala/ticketing/internal"
	activityDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/activity"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *activityDatamodel.Activity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ActivityRepository) List(ctx context.Context, username string) ([]*activityDatamodel.Activity, error) {
	q := r.db.WithContext(ctx).Order("date DESC, id DESC")
	if username != "" {
		q = q.Where("username = ?", username)
	}
	var rows []*activityDatamodel.Activity
	err := q.Find(&rows).Error
	return rows, err
}

func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&activityDatamodel.Activity{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrActivityNotFound
	}
	return nil
}
