package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/portfolio/internal/models"
)

func (r *GormRepo) ListTimeline(ctx context.Context) ([]models.TimelineElement, error) {
	els := []models.TimelineElement{}
	if err := r.db(ctx).Order("position asc").Find(&els).Error; err != nil {
		return nil, err
	}
	return els, nil
}

func (r *GormRepo) GetTimelineElement(ctx context.Context, id string) (*models.TimelineElement, error) {
	var el models.TimelineElement
	if err := r.db(ctx).Where("id = ?", id).First(&el).Error; err != nil {
		return nil, translate(err)
	}
	return &el, nil
}

func nextOrder(tx *gorm.DB) (int, error) {
	var last models.TimelineElement
	err := tx.Order("position desc").Limit(1).Find(&last).Error
	if err != nil {
		return 0, err
	}
	if last.ID == "" {
		return 0, nil
	}
	return last.Order + 1, nil
}

// AppendTimeline stores els after the current last element, in the given order.
// Incoming ids are discarded.
func (r *GormRepo) AppendTimeline(ctx context.Context, els []models.TimelineElement) error {
	return r.db(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := nextOrder(tx)
		if err != nil {
			return err
		}
		for i := range els {
			els[i].ID = ""
			els[i].Order = order
			order++
			if err := tx.Create(&els[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReorderTimeline sets each element's order to its index in ids.
func (r *GormRepo) ReorderTimeline(ctx context.Context, ids []string) error {
	return r.db(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if id == "" {
				return fmt.Errorf("element at index %d is missing _id: %w", i, ErrNotFound)
			}
			res := tx.Model(&models.TimelineElement{}).Where("id = ?", id).Update("position", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("element with id %s: %w", id, ErrNotFound)
			}
		}
		return nil
	})
}

func (r *GormRepo) SaveTimelineElement(ctx context.Context, el *models.TimelineElement) error {
	return translate(r.db(ctx).Save(el).Error)
}

func (r *GormRepo) DeleteTimelineElement(ctx context.Context, id string) error {
	res := r.db(ctx).Where("id = ?", id).Delete(&models.TimelineElement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
