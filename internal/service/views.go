package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/portfolio/internal/models"
)

const (
	defaultDailyWindow = 30
	maxDailyWindow     = 365
)

type ViewStore interface {
	Record(ctx context.Context, v *models.View) error
	List(ctx context.Context, projectID *string) ([]models.View, error)
	Count(ctx context.Context, projectID *string) (int64, error)
	Daily(ctx context.Context, projectID *string, since time.Time) ([]models.DailyCount, error)
}

type ViewService struct {
	Store ViewStore
	Now   func() time.Time
}

func (s *ViewService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// optionalID maps an empty project id to nil, which selects site-wide views.
func optionalID(projectID string) *string {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil
	}
	return &projectID
}

func (s *ViewService) Record(ctx context.Context, projectID, sessionID string) (*models.View, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrValidation)
	}
	v := &models.View{
		ProjectID: optionalID(projectID),
		SessionID: sessionID,
		Timestamp: s.now().UTC(),
	}
	if err := s.Store.Record(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *ViewService) List(ctx context.Context, projectID string) ([]models.View, error) {
	return s.Store.List(ctx, optionalID(projectID))
}

func (s *ViewService) Total(ctx context.Context, projectID string) (int64, error) {
	return s.Store.Count(ctx, optionalID(projectID))
}

func (s *ViewService) ForProject(ctx context.Context, projectID string) (int64, error) {
	if strings.TrimSpace(projectID) == "" {
		return 0, fmt.Errorf("%w: projectId is required", ErrValidation)
	}
	return s.Store.Count(ctx, optionalID(projectID))
}

// Daily returns per-day view counts for the last days days, today included.
func (s *ViewService) Daily(ctx context.Context, projectID string, days int) ([]models.DailyCount, error) {
	if days <= 0 {
		days = defaultDailyWindow
	}
	if days > maxDailyWindow {
		days = maxDailyWindow
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(days - 1))
	return s.Store.Daily(ctx, optionalID(projectID), since)
}
