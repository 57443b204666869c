package service

import (
	"context"
	"strings"
	"time"

	"reuseu/pkg/errors"
)

const DefaultClockSkew = 10 * time.Second

// TokenClaims are the time and identity claims of a decoded bearer token.
// Zero times mean the claim was absent.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	NotBefore time.Time
	Expires   time.Time
}

// TokenProvider decodes a raw token against the identity provider. Errors
// are already classified as TOKEN_EXPIRED, TOKEN_INVALID or
// UPSTREAM_FAILURE.
type TokenProvider interface {
	Decode(ctx context.Context, token string) (TokenClaims, error)
}

type IdentityVerifier struct {
	provider TokenProvider
	skew     time.Duration
	now      func() time.Time
}

func NewIdentityVerifier(provider TokenProvider, skew time.Duration) *IdentityVerifier {
	if skew < 0 {
		skew = DefaultClockSkew
	}
	return &IdentityVerifier{provider: provider, skew: skew, now: time.Now}
}

// WithClock replaces the time source.
func (v *IdentityVerifier) WithClock(now func() time.Time) *IdentityVerifier {
	v.now = now
	return v
}

// Verify extracts the bearer token from an Authorization header value and
// returns the subject id it was issued to.
func (v *IdentityVerifier) Verify(ctx context.Context, header string) (string, error) {
	token, err := bearerToken(header)
	if err != nil {
		return "", err
	}
	return v.VerifyToken(ctx, token)
}

// VerifyToken checks a raw token, as delivered on the websocket query
// string.
func (v *IdentityVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", errors.TokenMalformed("Token is missing")
	}

	claims, err := v.provider.Decode(ctx, token)
	if err != nil {
		return "", err
	}

	now := v.now()
	if !claims.NotBefore.IsZero() && claims.NotBefore.After(now.Add(v.skew)) {
		return "", errors.TokenInvalid(nil)
	}
	if !claims.IssuedAt.IsZero() && claims.IssuedAt.After(now.Add(v.skew)) {
		return "", errors.TokenInvalid(nil)
	}
	if !claims.Expires.IsZero() && claims.Expires.Before(now.Add(-v.skew)) {
		return "", errors.TokenExpired(nil)
	}
	if claims.Subject == "" {
		return "", errors.TokenInvalid(nil)
	}
	return claims.Subject, nil
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.TokenMalformed("Authorization header is missing")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.TokenMalformed("Authorization header must use the Bearer scheme")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.TokenMalformed("Token is missing")
	}
	return token, nil
}
