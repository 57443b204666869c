package firebase

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"

	"reuseu/internal/domain/service"
	"reuseu/pkg/errors"
	"reuseu/pkg/logger"
)

const googleSecureTokenJWKS = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// JWKSTokenProvider verifies Firebase ID tokens locally against Google's
// published signing keys. Time claims are left to the IdentityVerifier so
// the configured clock skew applies.
type JWKSTokenProvider struct {
	projectID string
	keyfunc   jwt.Keyfunc
	parser    *jwt.Parser
}

// NewJWKSTokenProvider fetches the key set and keeps it refreshed until ctx
// is done.
func NewJWKSTokenProvider(ctx context.Context, projectID string) (*JWKSTokenProvider, error) {
	jwks, err := keyfunc.Get(googleSecureTokenJWKS, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("Refreshing signing keys failed: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("loading signing keys: %w", err)
	}
	return NewJWKSTokenProviderWithKeyfunc(projectID, jwks.Keyfunc), nil
}

func NewJWKSTokenProviderWithKeyfunc(projectID string, kf jwt.Keyfunc) *JWKSTokenProvider {
	return &JWKSTokenProvider{
		projectID: projectID,
		keyfunc:   kf,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

func (p *JWKSTokenProvider) Decode(ctx context.Context, token string) (service.TokenClaims, error) {
	var claims jwt.RegisteredClaims
	if _, err := p.parser.ParseWithClaims(token, &claims, p.keyfunc); err != nil {
		return service.TokenClaims{}, errors.TokenInvalid(err)
	}

	if claims.Issuer != "https://securetoken.google.com/"+p.projectID {
		return service.TokenClaims{}, errors.TokenInvalid(fmt.Errorf("unexpected issuer %q", claims.Issuer))
	}
	if !claims.VerifyAudience(p.projectID, true) {
		return service.TokenClaims{}, errors.TokenInvalid(fmt.Errorf("unexpected audience %v", claims.Audience))
	}

	return service.TokenClaims{
		Subject:   claims.Subject,
		IssuedAt:  numericTime(claims.IssuedAt),
		NotBefore: numericTime(claims.NotBefore),
		Expires:   numericTime(claims.ExpiresAt),
	}, nil
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
