package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/portfolio/internal/models"
)

func (r *GormRepo) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	if err := r.db(ctx).Order("created_at asc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormRepo) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := r.db(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *GormRepo) ProjectTitleExists(ctx context.Context, title string) (bool, error) {
	var n int64
	if err := r.db(ctx).Model(&models.Project{}).Where("title = ?", title).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateProject(ctx context.Context, p *models.Project) error {
	return translate(r.db(ctx).Create(p).Error)
}

// CreateProjects inserts ps in one transaction: either all rows are stored or
// none are.
func (r *GormRepo) CreateProjects(ctx context.Context, ps []models.Project) error {
	return r.db(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range ps {
			if err := tx.Create(&ps[i]).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func (r *GormRepo) SaveProject(ctx context.Context, p *models.Project) error {
	return translate(r.db(ctx).Save(p).Error)
}

func (r *GormRepo) DeleteProject(ctx context.Context, id string) error {
	res := r.db(ctx).Where("id = ?", id).Delete(&models.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
