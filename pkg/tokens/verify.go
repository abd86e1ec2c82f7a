package tokens

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verify checks raw against the secret for kind and returns its claims.
// Signature errors are reported before claim errors, so ErrExpired is only
// returned for a token this issuer really signed.
func (i *Issuer) Verify(raw string, kind Kind) (*Claims, error) {
	secret, _, err := i.secret(kind)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalid)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalid
	}

	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: want %s token, got %q", ErrInvalid, kind, claims.Kind)
	}
	if claims.Subject == "" {
		claims.Subject = claims.UserID
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalid)
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

func (i *Issuer) VerifyAccess(raw string) (*Claims, error) {
	return i.Verify(raw, KindAccess)
}

func (i *Issuer) VerifyRefresh(raw string) (*Claims, error) {
	return i.Verify(raw, KindRefresh)
}
