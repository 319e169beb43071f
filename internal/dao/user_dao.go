package dao

import (
	"context"

	"carniceria/internal/model"

	"gorm.io/gorm"
)

type UserDao struct {
	db *gorm.DB
}

func NewUserDao(db *gorm.DB) *UserDao {
	return &UserDao{db: db}
}

func (d *UserDao) Create(ctx context.Context, u *model.User) error {
	return d.db.WithContext(ctx).Create(u).Error
}

func (d *UserDao) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := d.db.WithContext(ctx).
		Where("email = ? AND activo = ?", email, true).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (d *UserDao) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := d.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
