package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/portfolio/internal/events"
	"github.com/Skotchmaster/portfolio/internal/metrics"
	"github.com/Skotchmaster/portfolio/internal/models"
	"github.com/Skotchmaster/portfolio/internal/repo"
	"github.com/Skotchmaster/portfolio/internal/service/mocks"
	"github.com/Skotchmaster/portfolio/pkg/hash"
	"github.com/Skotchmaster/portfolio/pkg/tokens"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

type authEnv struct {
	svc     *AuthService
	users   *mocks.MockUserStore
	revoked *mocks.MockRevocationStore
	events  *events.Recorder
	clock   *clock
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	clk := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	iss, err := tokens.NewIssuer([]byte("test-jwt-secret"), []byte("test-refresh-secret"), tokens.WithClock(clk.Now))
	require.NoError(t, err)

	env := &authEnv{
		users:   mocks.NewMockUserStore(ctrl),
		revoked: mocks.NewMockRevocationStore(ctrl),
		events:  &events.Recorder{},
		clock:   clk,
	}
	env.svc = &AuthService{
		Users:   env.users,
		Tokens:  iss,
		Revoked: env.revoked,
		Events:  env.events,
		Metrics: metrics.New(),
	}
	return env
}

func testUser(t *testing.T) *models.User {
	t.Helper()
	pw, err := hash.HashPassword("Secret123")
	require.NoError(t, err)
	return &models.User{ID: "u-1", Username: "ann", Email: "ann@example.org", Password: pw}
}

func TestAuthService_Login_Success(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	user := testUser(t)

	env.users.EXPECT().FindUserByEmail(gomock.Any(), "ann@example.org").Return(user, nil)

	res, err := env.svc.Login(ctx, "ann@example.org", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "u-1", res.UserID)

	access, err := env.svc.Tokens.VerifyAccess(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", access.Subject)

	refresh, err := env.svc.Tokens.VerifyRefresh(res.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", refresh.Subject)

	assert.Equal(t, []string{events.UserLoggedIn}, env.events.Types())
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	user := testUser(t)

	env.users.EXPECT().FindUserByEmail(gomock.Any(), "ann@example.org").Return(user, nil)
	_, err := env.svc.Login(ctx, "ann@example.org", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	env.users.EXPECT().FindUserByEmail(gomock.Any(), "nobody@example.org").Return(nil, repo.ErrNotFound)
	_, err = env.svc.Login(ctx, "nobody@example.org", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.svc.Login(ctx, "", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Empty(t, env.events.Events())
}

func TestAuthService_Refresh_Success(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	refresh, err := env.svc.Tokens.Issue("u-1", tokens.KindRefresh)
	require.NoError(t, err)

	env.revoked.EXPECT().IsRevoked(gomock.Any(), refresh.ID).Return(false, nil)
	env.users.EXPECT().FindUserByID(gomock.Any(), "u-1").Return(&models.User{ID: "u-1"}, nil)

	access, err := env.svc.Refresh(ctx, refresh.Value)
	require.NoError(t, err)

	claims, err := env.svc.Tokens.VerifyAccess(access.Value)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, tokens.AccessTTL, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))
	assert.Equal(t, []string{events.TokenRefreshed}, env.events.Types())
}

func TestAuthService_Refresh_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		env := newAuthEnv(t)
		_, err := env.svc.Refresh(ctx, "")
		assert.ErrorIs(t, err, ErrMissingRefreshToken)
	})

	t.Run("access token presented", func(t *testing.T) {
		env := newAuthEnv(t)
		access, err := env.svc.Tokens.Issue("u-1", tokens.KindAccess)
		require.NoError(t, err)

		_, err = env.svc.Refresh(ctx, access.Value)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("expired", func(t *testing.T) {
		env := newAuthEnv(t)
		refresh, err := env.svc.Tokens.Issue("u-1", tokens.KindRefresh)
		require.NoError(t, err)
		env.clock.t = env.clock.t.Add(tokens.RefreshTTL + time.Second)

		_, err = env.svc.Refresh(ctx, refresh.Value)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("revoked", func(t *testing.T) {
		env := newAuthEnv(t)
		refresh, err := env.svc.Tokens.Issue("u-1", tokens.KindRefresh)
		require.NoError(t, err)
		env.revoked.EXPECT().IsRevoked(gomock.Any(), refresh.ID).Return(true, nil)

		_, err = env.svc.Refresh(ctx, refresh.Value)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("unknown subject", func(t *testing.T) {
		env := newAuthEnv(t)
		refresh, err := env.svc.Tokens.Issue("ghost", tokens.KindRefresh)
		require.NoError(t, err)
		env.revoked.EXPECT().IsRevoked(gomock.Any(), refresh.ID).Return(false, nil)
		env.users.EXPECT().FindUserByID(gomock.Any(), "ghost").Return(nil, repo.ErrNotFound)

		_, err = env.svc.Refresh(ctx, refresh.Value)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		env := newAuthEnv(t)
		refresh, err := env.svc.Tokens.Issue("u-1", tokens.KindRefresh)
		require.NoError(t, err)
		boom := errors.New("connection reset")
		env.revoked.EXPECT().IsRevoked(gomock.Any(), refresh.ID).Return(false, nil)
		// Exactly one lookup: failures are not retried.
		env.users.EXPECT().FindUserByID(gomock.Any(), "u-1").Return(nil, boom).Times(1)

		_, err = env.svc.Refresh(ctx, refresh.Value)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAuthService_Refresh_WithoutRevocationStore(t *testing.T) {
	env := newAuthEnv(t)
	env.svc.Revoked = nil

	refresh, err := env.svc.Tokens.Issue("u-1", tokens.KindRefresh)
	require.NoError(t, err)
	env.users.EXPECT().FindUserByID(gomock.Any(), "u-1").Return(&models.User{ID: "u-1"}, nil)

	_, err = env.svc.Refresh(context.Background(), refresh.Value)
	require.NoError(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	refresh, err := env.svc.Tokens.Issue("u-1", tokens.KindRefresh)
	require.NoError(t, err)

	env.revoked.EXPECT().Revoke(gomock.Any(), refresh.ID, gomock.Any()).
		Do(func(_ context.Context, _ string, exp time.Time) {
			assert.True(t, exp.Equal(refresh.ExpiresAt))
		}).
		Return(nil)
	revoked, err := env.svc.Logout(ctx, refresh.Value)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, []string{events.UserLoggedOut}, env.events.Types())

	revoked, err = env.svc.Logout(ctx, "garbage")
	require.NoError(t, err)
	assert.False(t, revoked)

	env.svc.Revoked = nil
	revoked, err = env.svc.Logout(ctx, refresh.Value)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAuthService_Logout_StoreFailure(t *testing.T) {
	env := newAuthEnv(t)
	refresh, err := env.svc.Tokens.Issue("u-1", tokens.KindRefresh)
	require.NoError(t, err)

	env.revoked.EXPECT().Revoke(gomock.Any(), refresh.ID, gomock.Any()).Return(errors.New("redis down"))
	_, err = env.svc.Logout(context.Background(), refresh.Value)
	require.Error(t, err)
}

func TestAuthService_Probe(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	res, err := env.svc.Probe(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, ProbeResult{}, res)

	res, err = env.svc.Probe(ctx, "not-a-jwt")
	require.NoError(t, err)
	assert.Equal(t, ProbeResult{}, res)

	access, err := env.svc.Tokens.Issue("u-1", tokens.KindAccess)
	require.NoError(t, err)

	res, err = env.svc.Probe(ctx, access.Value)
	require.NoError(t, err)
	assert.Equal(t, ProbeResult{IsValid: true}, res)

	env.clock.t = env.clock.t.Add(tokens.AccessTTL - time.Minute)
	res, err = env.svc.Probe(ctx, access.Value)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	require.NotEmpty(t, res.RefreshedToken)
	fresh, err := env.svc.Tokens.VerifyAccess(res.RefreshedToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", fresh.Subject)

	env.clock.t = env.clock.t.Add(2 * time.Minute)
	res, err = env.svc.Probe(ctx, access.Value)
	require.NoError(t, err)
	assert.Equal(t, ProbeResult{NeedsRefresh: true}, res)
}

func TestAuthService_Probe_MissingSecret(t *testing.T) {
	svc := &AuthService{}
	_, err := svc.Probe(context.Background(), "x.y.z")
	assert.ErrorIs(t, err, tokens.ErrMissingSecret)
}
