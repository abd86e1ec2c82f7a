package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/portfolio/internal/models"
	"github.com/Skotchmaster/portfolio/internal/repo"
)

type TimelineStore interface {
	ListTimeline(ctx context.Context) ([]models.TimelineElement, error)
	GetTimelineElement(ctx context.Context, id string) (*models.TimelineElement, error)
	AppendTimeline(ctx context.Context, els []models.TimelineElement) error
	ReorderTimeline(ctx context.Context, ids []string) error
	SaveTimelineElement(ctx context.Context, el *models.TimelineElement) error
	DeleteTimelineElement(ctx context.Context, id string) error
}

type TimelineService struct {
	Store TimelineStore
}

func validateTimeline(el *models.TimelineElement) error {
	if !models.ValidTimelineType(el.Type) {
		return fmt.Errorf("%w: unknown timeline type %q", ErrValidation, el.Type)
	}
	return nil
}

func (s *TimelineService) List(ctx context.Context) ([]models.TimelineElement, error) {
	return s.Store.ListTimeline(ctx)
}

func (s *TimelineService) Create(ctx context.Context, el models.TimelineElement) (*models.TimelineElement, error) {
	if err := validateTimeline(&el); err != nil {
		return nil, err
	}
	els := []models.TimelineElement{el}
	if err := s.Store.AppendTimeline(ctx, els); err != nil {
		return nil, err
	}
	return &els[0], nil
}

func (s *TimelineService) Bulk(ctx context.Context, els []models.TimelineElement) ([]models.TimelineElement, error) {
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: Invalid elements array", ErrValidation)
	}
	for i := range els {
		if err := validateTimeline(&els[i]); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	if err := s.Store.AppendTimeline(ctx, els); err != nil {
		return nil, err
	}
	return els, nil
}

func (s *TimelineService) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: Invalid elements array", ErrValidation)
	}
	if err := s.Store.ReorderTimeline(ctx, ids); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return err
	}
	return nil
}

func (s *TimelineService) Update(ctx context.Context, id string, p TimelinePatch) (*models.TimelineElement, error) {
	el, err := s.Store.GetTimelineElement(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	set(&el.Type, p.Type)
	if p.Year != nil {
		el.Year = p.Year
	}
	set(&el.Title, p.Title)
	set(&el.Icon, p.Icon)
	set(&el.ShortDescription, p.ShortDescription)
	set(&el.LongDescription, p.LongDescription)
	set(&el.AboutMe, p.AboutMe)
	set(&el.Hobbies, p.Hobbies)
	set(&el.Interests, p.Interests)
	set(&el.Order, p.Order)

	if err := validateTimeline(el); err != nil {
		return nil, err
	}
	if err := s.Store.SaveTimelineElement(ctx, el); err != nil {
		return nil, err
	}
	return el, nil
}

func (s *TimelineService) Delete(ctx context.Context, id string) error {
	if err := s.Store.DeleteTimelineElement(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
