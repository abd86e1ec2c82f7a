package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/portfolio/internal/models"
)

func (r *GormRepo) ListSkills(ctx context.Context) ([]models.Skill, error) {
	skills := []models.Skill{}
	if err := r.db(ctx).Order("category asc, name asc").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

// UpsertSkill inserts s, or overwrites the row that already has its id.
func (r *GormRepo) UpsertSkill(ctx context.Context, s *models.Skill) error {
	return r.db(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(s).Error
}

func (r *GormRepo) DeleteSkill(ctx context.Context, id string) error {
	return r.db(ctx).Where("id = ?", id).Delete(&models.Skill{}).Error
}

func (r *GormRepo) DeleteAllSkills(ctx context.Context) (int64, error) {
	res := r.db(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Skill{})
	return res.RowsAffected, res.Error
}
