package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/ticketing/internal"
	userDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *UserRepository) UpdateRole(ctx context.Context, username string, role string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("username = ?", username).
		Update("role", role)
	if res.Error != nil || res.RowsAffected > 0 {
		return res.RowsAffected, res.Error
	}
	// mysql reports zero affected rows when the value is unchanged
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("username = ?", username).Count(&count).Error
	return count, err
}

func (r *UserRepository) Delete(ctx context.Context, username string) (int64, error) {
	res := r.db.WithContext(ctx).Where("username = ?", username).Delete(&userDatamodel.User{})
	return res.RowsAffected, res.Error
}
