package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour

	// RenewWindow is the tail of an access token's life during which a
	// replacement is minted on the way out.
	RenewWindow = 300 * time.Second
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrMissingSecret = errors.New("tokens: signing secret is not configured")
	ErrSharedSecret  = errors.New("tokens: access and refresh secrets must differ")
	ErrExpired       = errors.New("tokens: token expired")
	ErrInvalid       = errors.New("tokens: token is not valid")
)

// Claims is the payload of both token kinds. UserID mirrors Subject under the
// "userId" key that browser clients already read.
type Claims struct {
	UserID string `json:"userId"`
	Kind   Kind   `json:"typ"`
	jwt.RegisteredClaims
}

type Token struct {
	Value     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

type Option func(*Issuer)

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewIssuer(accessSecret, refreshSecret []byte, opts ...Option) (*Issuer, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, ErrMissingSecret
	}
	if string(accessSecret) == string(refreshSecret) {
		return nil, ErrSharedSecret
	}

	i := &Issuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

func (i *Issuer) Now() time.Time {
	if i == nil || i.now == nil {
		return time.Now()
	}
	return i.now()
}

func (i *Issuer) secret(kind Kind) ([]byte, time.Duration, error) {
	if i == nil {
		return nil, 0, ErrMissingSecret
	}
	switch kind {
	case KindAccess:
		if len(i.accessSecret) == 0 {
			return nil, 0, ErrMissingSecret
		}
		return i.accessSecret, AccessTTL, nil
	case KindRefresh:
		if len(i.refreshSecret) == 0 {
			return nil, 0, ErrMissingSecret
		}
		return i.refreshSecret, RefreshTTL, nil
	default:
		return nil, 0, fmt.Errorf("tokens: unknown kind %q", kind)
	}
}

// Issue signs a token of the given kind for userID. It performs no I/O.
func (i *Issuer) Issue(userID string, kind Kind) (*Token, error) {
	if userID == "" {
		return nil, fmt.Errorf("tokens: empty subject")
	}
	secret, ttl, err := i.secret(kind)
	if err != nil {
		return nil, err
	}

	now := i.Now()
	jti := uuid.NewString()
	claims := Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("tokens: sign %s token: %w", kind, err)
	}

	return &Token{
		Value:     signed,
		ID:        jti,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Remaining reports how long the token described by claims stays valid.
func (i *Issuer) Remaining(claims *Claims) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Time.Sub(i.Now())
}

func (i *Issuer) NearExpiry(claims *Claims) bool {
	return i.Remaining(claims) < RenewWindow
}
