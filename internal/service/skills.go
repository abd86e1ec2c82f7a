package service

import (
	"context"

	"github.com/Skotchmaster/portfolio/internal/models"
)

type SkillStore interface {
	ListSkills(ctx context.Context) ([]models.Skill, error)
	UpsertSkill(ctx context.Context, s *models.Skill) error
	DeleteSkill(ctx context.Context, id string) error
	DeleteAllSkills(ctx context.Context) (int64, error)
}

type SkillService struct {
	Store SkillStore
}

func (s *SkillService) List(ctx context.Context) ([]models.Skill, error) {
	return s.Store.ListSkills(ctx)
}

// Save upserts entries that carry an id and creates the rest, returning them
// in input order.
func (s *SkillService) Save(ctx context.Context, in []models.Skill) ([]models.Skill, error) {
	out := make([]models.Skill, 0, len(in))
	for _, sk := range in {
		if err := s.Store.UpsertSkill(ctx, &sk); err != nil {
			return nil, err
		}
		out = append(out, sk)
	}
	return out, nil
}

func (s *SkillService) Delete(ctx context.Context, id string) error {
	return s.Store.DeleteSkill(ctx, id)
}

func (s *SkillService) DeleteAll(ctx context.Context) (int64, error) {
	return s.Store.DeleteAllSkills(ctx)
}
