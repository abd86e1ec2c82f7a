package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/portfolio/internal/events"
	"github.com/Skotchmaster/portfolio/internal/metrics"
	"github.com/Skotchmaster/portfolio/internal/repo"
	"github.com/Skotchmaster/portfolio/pkg/hash"
	"github.com/Skotchmaster/portfolio/pkg/logging"
	"github.com/Skotchmaster/portfolio/pkg/tokens"
)

type AuthService struct {
	Users   UserStore
	Tokens  *tokens.Issuer
	Revoked RevocationStore
	Events  events.Publisher
	Metrics *metrics.Metrics
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	UserID       string
}

// ProbeResult is the answer of the validity probe.
type ProbeResult struct {
	IsValid        bool   `json:"isValid"`
	NeedsRefresh   bool   `json:"needsRefresh,omitempty"`
	RefreshedToken string `json:"refreshedToken,omitempty"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 400, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !hash.CheckPassword(user.Password, password) {
		l.Warn("login_failed", "status", 400, "reason", "password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	access, err := s.Tokens.Issue(user.ID, tokens.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.Tokens.Issue(user.ID, tokens.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	s.Metrics.TokenIssued(string(tokens.KindAccess), "login")
	s.Metrics.TokenIssued(string(tokens.KindRefresh), "login")

	publish(ctx, s.Events, events.Event{Type: events.UserLoggedIn, Subject: user.ID})
	l.Info("login_successful", "user_id", user.ID)

	return &LoginResult{
		AccessToken:  access.Value,
		RefreshToken: refresh.Value,
		AccessExp:    access.ExpiresAt,
		RefreshExp:   refresh.ExpiresAt,
		UserID:       user.ID,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh token
// itself is not rotated and the credential store is only read.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*tokens.Token, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if raw == "" {
		return nil, ErrMissingRefreshToken
	}

	claims, err := s.Tokens.Verify(raw, tokens.KindRefresh)
	if err != nil {
		if errors.Is(err, tokens.ErrMissingSecret) {
			return nil, err
		}
		l.Warn("refresh_rejected", "status", 403, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	if s.Revoked != nil {
		revoked, err := s.Revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			l.Warn("refresh_rejected", "status", 403, "reason", "revoked", "jti", claims.ID)
			return nil, fmt.Errorf("%w: revoked", ErrInvalidRefreshToken)
		}
	}

	user, err := s.Users.FindUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_rejected", "status", 404, "reason", "unknown subject", "user_id", claims.Subject)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	access, err := s.Tokens.Issue(user.ID, tokens.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	s.Metrics.TokenIssued(string(tokens.KindAccess), "refresh")

	publish(ctx, s.Events, events.Event{Type: events.TokenRefreshed, Subject: user.ID})
	return access, nil
}

// Logout revokes the refresh token's id until its own expiry. It reports
// whether anything was recorded; invalid or expired tokens need no entry.
func (s *AuthService) Logout(ctx context.Context, raw string) (bool, error) {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if raw == "" {
		return false, nil
	}
	claims, err := s.Tokens.Verify(raw, tokens.KindRefresh)
	if err != nil {
		if errors.Is(err, tokens.ErrMissingSecret) {
			return false, err
		}
		l.Info("logout_noop", "reason", "token not usable", "error", err)
		return false, nil
	}

	if s.Revoked == nil {
		l.Warn("logout_noop", "reason", "revocation store disabled", "user_id", claims.Subject)
		return false, nil
	}
	if err := s.Revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return false, fmt.Errorf("revoke: %w", err)
	}

	publish(ctx, s.Events, events.Event{Type: events.UserLoggedOut, Subject: claims.Subject})
	return true, nil
}

// Probe classifies an access token without touching any store.
// Only a missing signing secret is returned as an error.
func (s *AuthService) Probe(ctx context.Context, raw string) (ProbeResult, error) {
	if raw == "" {
		s.Metrics.ProbeResult(metrics.ProbeNone)
		return ProbeResult{}, nil
	}

	claims, err := s.Tokens.Verify(raw, tokens.KindAccess)
	switch {
	case errors.Is(err, tokens.ErrMissingSecret):
		return ProbeResult{}, err
	case errors.Is(err, tokens.ErrExpired):
		s.Metrics.ProbeResult(metrics.ProbeExpired)
		return ProbeResult{NeedsRefresh: true}, nil
	case err != nil:
		s.Metrics.ProbeResult(metrics.ProbeInvalid)
		return ProbeResult{}, nil
	}

	if !s.Tokens.NearExpiry(claims) {
		s.Metrics.ProbeResult(metrics.ProbeValid)
		return ProbeResult{IsValid: true}, nil
	}

	fresh, err := s.Tokens.Issue(claims.Subject, tokens.KindAccess)
	if err != nil {
		return ProbeResult{}, err
	}
	s.Metrics.ProbeResult(metrics.ProbeRenewed)
	s.Metrics.TokenIssued(string(tokens.KindAccess), "probe")
	logging.FromContext(ctx).Info("probe_renewed", "user_id", claims.Subject)
	return ProbeResult{IsValid: true, RefreshedToken: fresh.Value}, nil
}
