package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reuseu/pkg/errors"
)

type stubProvider struct {
	claims TokenClaims
	err    error
	calls  int
}

func (p *stubProvider) Decode(ctx context.Context, token string) (TokenClaims, error) {
	p.calls++
	return p.claims, p.err
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newVerifier(p TokenProvider) *IdentityVerifier {
	return NewIdentityVerifier(p, DefaultClockSkew).WithClock(func() time.Time { return fixedNow })
}

func TestVerifyMalformedHeaders(t *testing.T) {
	p := &stubProvider{}
	v := newVerifier(p)
	for _, h := range []string{"", "   ", "Token abc", "Bearer", "Bearer   ", "abc"} {
		_, err := v.Verify(context.Background(), h)
		assert.True(t, errors.Is(err, errors.CodeTokenMalformed), "header %q", h)
	}
	assert.Zero(t, p.calls)
}

func TestVerifyAcceptsCaseInsensitiveScheme(t *testing.T) {
	p := &stubProvider{claims: TokenClaims{Subject: "uid-1", Expires: fixedNow.Add(time.Hour)}}
	sub, err := newVerifier(p).Verify(context.Background(), "bearer tok")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", sub)
}

func TestVerifyExpiredBeyondSkew(t *testing.T) {
	p := &stubProvider{claims: TokenClaims{Subject: "uid-1", Expires: fixedNow.Add(-11 * time.Second)}}
	_, err := newVerifier(p).Verify(context.Background(), "Bearer tok")
	assert.True(t, errors.Is(err, errors.CodeTokenExpired))
}

func TestVerifyExpiredWithinSkewIsAccepted(t *testing.T) {
	p := &stubProvider{claims: TokenClaims{Subject: "uid-1", Expires: fixedNow.Add(-5 * time.Second)}}
	_, err := newVerifier(p).Verify(context.Background(), "Bearer tok")
	assert.NoError(t, err)
}

func TestVerifyNotYetValid(t *testing.T) {
	within := &stubProvider{claims: TokenClaims{Subject: "uid-1", NotBefore: fixedNow.Add(5 * time.Second), IssuedAt: fixedNow.Add(5 * time.Second)}}
	_, err := newVerifier(within).Verify(context.Background(), "Bearer tok")
	assert.NoError(t, err)

	beyond := &stubProvider{claims: TokenClaims{Subject: "uid-1", NotBefore: fixedNow.Add(30 * time.Second)}}
	_, err = newVerifier(beyond).Verify(context.Background(), "Bearer tok")
	assert.True(t, errors.Is(err, errors.CodeTokenInvalid))
}

func TestVerifyPropagatesProviderClassification(t *testing.T) {
	p := &stubProvider{err: errors.Upstream("identity provider unreachable", nil)}
	_, err := newVerifier(p).Verify(context.Background(), "Bearer tok")
	assert.True(t, errors.Is(err, errors.CodeUpstreamFailure))
}

func TestVerifyRejectsEmptySubject(t *testing.T) {
	p := &stubProvider{claims: TokenClaims{Expires: fixedNow.Add(time.Hour)}}
	_, err := newVerifier(p).Verify(context.Background(), "Bearer tok")
	assert.True(t, errors.Is(err, errors.CodeTokenInvalid))
}
