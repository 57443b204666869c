package firebase

import (
	"context"
	"time"

	"firebase.google.com/go/v4/auth"

	"reuseu/internal/domain/service"
	"reuseu/pkg/errors"
)

// IDTokenVerifier is the part of *auth.Client the provider needs.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AdminTokenProvider decodes Firebase ID tokens with the Admin SDK.
type AdminTokenProvider struct {
	client IDTokenVerifier
}

func NewAdminTokenProvider(client IDTokenVerifier) *AdminTokenProvider {
	return &AdminTokenProvider{
		client: client,
	}
}

func (p *AdminTokenProvider) Decode(ctx context.Context, token string) (service.TokenClaims, error) {
	result, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		return service.TokenClaims{}, classifyAdminError(err)
	}

	subject := result.UID
	if subject == "" {
		subject = result.Subject
	}
	return service.TokenClaims{
		Subject:  subject,
		IssuedAt: unixOrZero(result.IssuedAt),
		Expires:  unixOrZero(result.Expires),
	}, nil
}

func classifyAdminError(err error) error {
	switch {
	case auth.IsIDTokenExpired(err):
		return errors.TokenExpired(err)
	case auth.IsIDTokenInvalid(err), auth.IsIDTokenRevoked(err), auth.IsUserDisabled(err):
		return errors.TokenInvalid(err)
	default:
		return errors.Upstream("Identity provider unavailable", err)
	}
}

func unixOrZero(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
