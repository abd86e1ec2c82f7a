package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/portfolio/internal/events"
	"github.com/Skotchmaster/portfolio/internal/models"
	"github.com/Skotchmaster/portfolio/internal/repo"
)

type ContactStore interface {
	CreateContact(ctx context.Context, c *models.Contact) error
	ListContacts(ctx context.Context, q repo.ContactQuery) ([]models.Contact, error)
	CountUnreadContacts(ctx context.Context) (int64, error)
	SetContactsRead(ctx context.Context, ids []string, read bool) (int64, error)
	DeleteContacts(ctx context.Context, ids []string) (int64, error)
}

// sortColumns maps the accepted sortBy values to columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"read":      "read",
}

type ContactService struct {
	Store  ContactStore
	Events events.Publisher
}

func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.Contact, error) {
	c := &models.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: strings.TrimSpace(in.Message),
	}
	if c.Name == "" || c.Email == "" || c.Message == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", ErrValidation)
	}
	if err := s.Store.CreateContact(ctx, c); err != nil {
		return nil, err
	}
	publish(ctx, s.Events, events.Event{Type: events.ContactSubmitted, Subject: c.ID, Data: map[string]string{"email": c.Email}})
	return c, nil
}

func parseContactQuery(q ContactListQuery) (repo.ContactQuery, error) {
	var out repo.ContactQuery

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	col, ok := sortColumns[sortBy]
	if !ok {
		return out, fmt.Errorf("%w: cannot sort by %q", ErrValidation, q.SortBy)
	}
	out.SortColumn = col

	switch strings.ToLower(q.SortOrder) {
	case "", "desc", "descending", "-1":
		out.Desc = true
	case "asc", "ascending", "1":
		out.Desc = false
	default:
		return out, fmt.Errorf("%w: unknown sort order %q", ErrValidation, q.SortOrder)
	}

	switch q.Filter {
	case "", "all":
	case "read":
		read := true
		out.Read = &read
	case "unread":
		read := false
		out.Read = &read
	default:
		return out, fmt.Errorf("%w: unknown filter %q", ErrValidation, q.Filter)
	}
	return out, nil
}

func (s *ContactService) List(ctx context.Context, q ContactListQuery) ([]models.Contact, error) {
	rq, err := parseContactQuery(q)
	if err != nil {
		return nil, err
	}
	return s.Store.ListContacts(ctx, rq)
}

func (s *ContactService) UnreadCount(ctx context.Context) (int64, error) {
	return s.Store.CountUnreadContacts(ctx)
}

func (s *ContactService) SetRead(ctx context.Context, ids []string, read bool) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids are required", ErrValidation)
	}
	return s.Store.SetContactsRead(ctx, ids, read)
}

func (s *ContactService) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids are required", ErrValidation)
	}
	return s.Store.DeleteContacts(ctx, ids)
}
