package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/portfolio/internal/models"
)

func (r *GormRepo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	var n int64
	if err := r.db(ctx).Model(&models.User{}).Where("email = ?", u.Email).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("user %s: %w", u.Email, ErrAlreadyExists)
	}
	return translate(r.db(ctx).Create(u).Error)
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return translate(r.db(ctx).Save(u).Error)
}

func (r *GormRepo) DeleteUser(ctx context.Context, id string) error {
	res := r.db(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
