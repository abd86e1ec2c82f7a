package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/portfolio/internal/events"
	"github.com/Skotchmaster/portfolio/internal/models"
	"github.com/Skotchmaster/portfolio/internal/repo"
	"github.com/Skotchmaster/portfolio/pkg/hash"
	"github.com/Skotchmaster/portfolio/pkg/logging"
)

type UserService struct {
	Users  UserStore
	Events events.Publisher
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Users.ListUsers(ctx)
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.create")

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	pw, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Username: strings.TrimSpace(in.Username), Email: in.Email, Password: pw}

	if err := s.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			l.Warn("create_user_failed", "status", 400, "reason", "email taken")
			return nil, ErrUserExists
		}
		return nil, err
	}

	publish(ctx, s.Events, events.Event{Type: events.UserCreated, Subject: u.ID})
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, p UserPatch) (*models.User, error) {
	u, err := s.Users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if p.Username != nil && *p.Username != "" {
		u.Username = *p.Username
	}
	if p.Email != nil && *p.Email != "" {
		u.Email = strings.TrimSpace(*p.Email)
	}
	if p.Password != nil && *p.Password != "" {
		pw, err := hash.HashPassword(*p.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.Password = pw
	}

	if err := s.Users.SaveUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	publish(ctx, s.Events, events.Event{Type: events.UserUpdated, Subject: u.ID})
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	publish(ctx, s.Events, events.Event{Type: events.UserDeleted, Subject: id})
	return nil
}
