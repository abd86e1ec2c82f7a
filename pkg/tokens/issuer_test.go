package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAccessSecret  = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestIssuer(t *testing.T) (*Issuer, *fakeClock) {
	t.Helper()

	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	iss, err := NewIssuer(testAccessSecret, testRefreshSecret, WithClock(clock.Now))
	require.NoError(t, err)
	return iss, clock
}

func TestNewIssuer_RejectsBadSecrets(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer(nil, testRefreshSecret)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewIssuer(testAccessSecret, []byte(""))
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewIssuer([]byte("same"), []byte("same"))
	assert.ErrorIs(t, err, ErrSharedSecret)
}

func TestIssue_Lifetimes(t *testing.T) {
	t.Parallel()

	iss, _ := newTestIssuer(t)
	userID := uuid.NewString()

	tests := []struct {
		kind Kind
		ttl  time.Duration
	}{
		{kind: KindAccess, ttl: 900 * time.Second},
		{kind: KindRefresh, ttl: 604800 * time.Second},
	}

	for _, tt := range tests {
		tok, err := iss.Issue(userID, tt.kind)
		require.NoError(t, err)
		require.NotEmpty(t, tok.Value)
		require.NotEmpty(t, tok.ID)

		claims, err := iss.Verify(tok.Value, tt.kind)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.Subject)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, tt.kind, claims.Kind)
		assert.Equal(t, tok.ID, claims.ID)
		assert.Equal(t, tt.ttl, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))
	}
}

func TestIssue_EmptySubject(t *testing.T) {
	t.Parallel()

	iss, _ := newTestIssuer(t)
	_, err := iss.Issue("", KindAccess)
	require.Error(t, err)
}

func TestVerify_RefreshNeverPassesAsAccess(t *testing.T) {
	t.Parallel()

	iss, _ := newTestIssuer(t)
	refresh, err := iss.Issue("u1", KindRefresh)
	require.NoError(t, err)
	access, err := iss.Issue("u1", KindAccess)
	require.NoError(t, err)

	_, err = iss.VerifyAccess(refresh.Value)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = iss.VerifyRefresh(access.Value)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_KindClaimGuard(t *testing.T) {
	t.Parallel()

	iss, clock := newTestIssuer(t)
	// Signed with the access secret but labelled as a refresh token.
	claims := Claims{
		UserID: "u1",
		Kind:   KindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(clock.Now()),
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testAccessSecret)
	require.NoError(t, err)

	_, err = iss.VerifyAccess(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	iss, clock := newTestIssuer(t)
	tok, err := iss.Issue("u1", KindAccess)
	require.NoError(t, err)

	clock.Advance(AccessTTL + time.Second)

	_, err = iss.VerifyAccess(tok.Value)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_ExpiredWithForeignSignatureIsInvalid(t *testing.T) {
	t.Parallel()

	iss, clock := newTestIssuer(t)
	other, err := NewIssuer([]byte("another-secret"), []byte("another-refresh"), WithClock(clock.Now))
	require.NoError(t, err)

	tok, err := other.Issue("u1", KindAccess)
	require.NoError(t, err)
	clock.Advance(time.Hour)

	_, err = iss.VerifyAccess(tok.Value)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.NotErrorIs(t, err, ErrExpired)
}

func TestVerify_Tampered(t *testing.T) {
	t.Parallel()

	iss, _ := newTestIssuer(t)
	tok, err := iss.Issue("u1", KindAccess)
	require.NoError(t, err)

	tampered := tok.Value[:len(tok.Value)-2] + "xx"
	_, err = iss.VerifyAccess(tampered)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = iss.VerifyAccess("not-a-valid-jwt")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = iss.VerifyAccess("")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	iss, clock := newTestIssuer(t)
	claims := Claims{
		UserID: "u1",
		Kind:   KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testAccessSecret)
	require.NoError(t, err)

	_, err = iss.VerifyAccess(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_MissingSubject(t *testing.T) {
	t.Parallel()

	iss, clock := newTestIssuer(t)
	claims := Claims{
		Kind: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testAccessSecret)
	require.NoError(t, err)

	_, err = iss.VerifyAccess(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_NilIssuer(t *testing.T) {
	t.Parallel()

	var iss *Issuer
	_, err := iss.VerifyAccess("x")
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = iss.Issue("u1", KindAccess)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestNearExpiry(t *testing.T) {
	t.Parallel()

	iss, clock := newTestIssuer(t)
	tok, err := iss.Issue("u1", KindAccess)
	require.NoError(t, err)
	claims, err := iss.VerifyAccess(tok.Value)
	require.NoError(t, err)

	assert.False(t, iss.NearExpiry(claims))
	assert.Equal(t, AccessTTL, iss.Remaining(claims))

	clock.Advance(AccessTTL - RenewWindow)
	assert.False(t, iss.NearExpiry(claims))

	clock.Advance(time.Second)
	assert.True(t, iss.NearExpiry(claims))
}
