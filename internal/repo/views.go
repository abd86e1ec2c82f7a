package repo

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/portfolio/internal/models"
)

// GormViews keeps page views in the relational database when no document
// store is configured.
type GormViews struct {
	DB *gorm.DB
}

func (s *GormViews) scope(ctx context.Context, projectID *string) *gorm.DB {
	tx := s.DB.WithContext(ctx).Model(&models.View{})
	if projectID == nil {
		return tx.Where("project_id IS NULL")
	}
	return tx.Where("project_id = ?", *projectID)
}

func (s *GormViews) Record(ctx context.Context, v *models.View) error {
	return s.DB.WithContext(ctx).Create(v).Error
}

func (s *GormViews) List(ctx context.Context, projectID *string) ([]models.View, error) {
	out := []models.View{}
	if err := s.scope(ctx, projectID).Order("viewed_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormViews) Count(ctx context.Context, projectID *string) (int64, error) {
	var n int64
	err := s.scope(ctx, projectID).Count(&n).Error
	return n, err
}

// Daily groups views since the given instant by UTC calendar day.
func (s *GormViews) Daily(ctx context.Context, projectID *string, since time.Time) ([]models.DailyCount, error) {
	var stamps []time.Time
	if err := s.scope(ctx, projectID).Where("viewed_at >= ?", since.UTC()).Pluck("viewed_at", &stamps).Error; err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	for _, ts := range stamps {
		counts[ts.UTC().Format(time.DateOnly)]++
	}
	out := make([]models.DailyCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, models.DailyCount{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (s *GormViews) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
