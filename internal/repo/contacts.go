package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/portfolio/internal/models"
)

type ContactQuery struct {
	SortColumn string
	Desc       bool
	Read       *bool
}

func (r *GormRepo) CreateContact(ctx context.Context, c *models.Contact) error {
	return r.db(ctx).Create(c).Error
}

func (r *GormRepo) ListContacts(ctx context.Context, q ContactQuery) ([]models.Contact, error) {
	tx := r.db(ctx).Model(&models.Contact{})
	if q.Read != nil {
		tx = tx.Where("read = ?", *q.Read)
	}
	col := q.SortColumn
	if col == "" {
		col = "created_at"
	}
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: q.Desc})

	out := []models.Contact{}
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) CountUnreadContacts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db(ctx).Model(&models.Contact{}).Where("read = ?", false).Count(&n).Error
	return n, err
}

func (r *GormRepo) SetContactsRead(ctx context.Context, ids []string, read bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db(ctx).Model(&models.Contact{}).Where("id IN ?", ids).Update("read", read)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteContacts(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db(ctx).Where("id IN ?", ids).Delete(&models.Contact{})
	return res.RowsAffected, res.Error
}
