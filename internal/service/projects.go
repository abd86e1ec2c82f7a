package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/portfolio/internal/events"
	"github.com/Skotchmaster/portfolio/internal/models"
	"github.com/Skotchmaster/portfolio/internal/repo"
	"github.com/Skotchmaster/portfolio/internal/search"
	"github.com/Skotchmaster/portfolio/pkg/logging"
)

type ProjectStore interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ProjectTitleExists(ctx context.Context, title string) (bool, error)
	CreateProject(ctx context.Context, p *models.Project) error
	CreateProjects(ctx context.Context, ps []models.Project) error
	SaveProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id string) error
}

type ProjectIndex interface {
	IndexProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id string) error
	Search(ctx context.Context, q string, from, size int) (int64, []models.Project, error)
}

type ProjectService struct {
	Store  ProjectStore
	Index  ProjectIndex
	Events events.Publisher
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.Store.ListProjects(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.Store.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func normalizeProject(p *models.Project) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	if p.Title == "" || p.Description == "" {
		return fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if p.Status == "" {
		p.Status = models.StatusPlanned
	}
	if !models.ValidProjectStatus(p.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, p.Status)
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Media == nil {
		p.Media = []models.Media{}
	}
	return nil
}

func (s *ProjectService) Create(ctx context.Context, p models.Project) (*models.Project, error) {
	p.ID = ""
	if err := normalizeProject(&p); err != nil {
		return nil, err
	}
	if err := s.Store.CreateProject(ctx, &p); err != nil {
		return nil, err
	}
	s.mirror(ctx, &p)
	publish(ctx, s.Events, events.Event{Type: events.ProjectCreated, Subject: p.ID, Data: map[string]string{"title": p.Title}})
	return &p, nil
}

// Bulk creates projects in order, skipping any whose title already exists in
// the store or earlier in the same batch. Every entry is validated before the
// first insert, and the inserts share one transaction, so a rejected batch
// stores nothing.
func (s *ProjectService) Bulk(ctx context.Context, in []models.Project) (*BulkResult, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: empty projects array", ErrValidation)
	}

	batch := make([]models.Project, len(in))
	for i, p := range in {
		p.ID = ""
		if err := normalizeProject(&p); err != nil {
			return nil, fmt.Errorf("%w (entry %d)", err, i)
		}
		batch[i] = p
	}

	res := &BulkResult{Created: []models.Project{}, Duplicates: []string{}}
	seen := map[string]bool{}
	for _, p := range batch {
		if seen[p.Title] {
			res.Duplicates = append(res.Duplicates, p.Title)
			continue
		}
		exists, err := s.Store.ProjectTitleExists(ctx, p.Title)
		if err != nil {
			return nil, err
		}
		if exists {
			res.Duplicates = append(res.Duplicates, p.Title)
			continue
		}
		seen[p.Title] = true
		res.Created = append(res.Created, p)
	}

	if len(res.Created) > 0 {
		if err := s.Store.CreateProjects(ctx, res.Created); err != nil {
			return nil, err
		}
	}
	for i := range res.Created {
		p := &res.Created[i]
		s.mirror(ctx, p)
		publish(ctx, s.Events, events.Event{Type: events.ProjectCreated, Subject: p.ID, Data: map[string]string{"title": p.Title}})
	}
	return res, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	set(&p.Title, patch.Title)
	set(&p.Description, patch.Description)
	set(&p.Details, patch.Details)
	set(&p.Timeline, patch.Timeline)
	set(&p.Skills, patch.Skills)
	set(&p.Learned, patch.Learned)
	set(&p.Status, patch.Status)
	set(&p.Image, patch.Image)
	set(&p.Public, patch.Public)
	set(&p.Media, patch.Media)
	set(&p.Github, patch.Github)
	set(&p.Live, patch.Live)
	set(&p.Featured, patch.Featured)

	if err := normalizeProject(p); err != nil {
		return nil, err
	}
	if err := s.Store.SaveProject(ctx, p); err != nil {
		return nil, err
	}
	s.mirror(ctx, p)
	publish(ctx, s.Events, events.Event{Type: events.ProjectUpdated, Subject: p.ID, Data: map[string]string{"title": p.Title}})
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.Store.DeleteProject(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteProject(ctx, id); err != nil && !errors.Is(err, search.ErrUnavailable) {
			logging.FromContext(ctx).Warn("search_unindex_failed", "project_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.Event{Type: events.ProjectDeleted, Subject: id})
	return nil
}

func (s *ProjectService) Search(ctx context.Context, q string, page, size int) (int64, []models.Project, error) {
	if strings.TrimSpace(q) == "" {
		return 0, nil, fmt.Errorf("%w: empty query", ErrValidation)
	}
	if s.Index == nil {
		return 0, nil, ErrSearchUnavailable
	}
	from, limit := search.Page(page, size)
	total, out, err := s.Index.Search(ctx, q, from, limit)
	if err != nil {
		if errors.Is(err, search.ErrUnavailable) {
			return 0, nil, ErrSearchUnavailable
		}
		return 0, nil, err
	}
	return total, out, nil
}

// mirror copies p into the search index. The relational store stays the
// source of truth, so a failure is only logged.
func (s *ProjectService) mirror(ctx context.Context, p *models.Project) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProject(ctx, p); err != nil && !errors.Is(err, search.ErrUnavailable) {
		logging.FromContext(ctx).Warn("search_index_failed", "project_id", p.ID, "error", err)
	}
}
