package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/pkg/errors"
)

type stubVerifier struct {
	subject string
	err     error
}

func (v stubVerifier) Verify(ctx context.Context, header string) (string, error) {
	if header == "" {
		return "", errors.TokenMalformed("Authorization header is missing")
	}
	return v.VerifyToken(ctx, header)
}

func (v stubVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	if v.err != nil {
		return "", v.err
	}
	return v.subject, nil
}

func TestSessionBuildsFromAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.accounts.Create(ctx, &entity.Account{UserID: "u1", Email: "a@umass.edu", Marketplace: umass}))

	uc := NewSessionUseCase(stubVerifier{subject: "u1"}, f.accounts, nil, nil)
	s, err := uc.Build(ctx, SessionRequest{Method: http.MethodGet, AuthorizationHeader: "Bearer t"})
	require.NoError(t, err)
	assert.Equal(t, session("u1", umass), s)
}

func TestSessionPreflightIsAnonymous(t *testing.T) {
	f := newFixture()
	uc := NewSessionUseCase(stubVerifier{err: errors.TokenInvalid(nil)}, f.accounts, nil, nil)
	s, err := uc.Build(context.Background(), SessionRequest{Method: http.MethodOptions})
	require.NoError(t, err)
	assert.True(t, s.Anonymous())
	assert.Zero(t, f.store.calls.Load())
}

func TestSessionTokenErrorsPropagate(t *testing.T) {
	f := newFixture()
	uc := NewSessionUseCase(stubVerifier{err: errors.TokenExpired(nil)}, f.accounts, nil, nil)

	_, err := uc.Build(context.Background(), SessionRequest{Method: http.MethodGet, AuthorizationHeader: "Bearer old"})
	assert.True(t, errors.Is(err, errors.CodeTokenExpired))

	_, err = uc.Build(context.Background(), SessionRequest{Method: http.MethodGet})
	assert.True(t, errors.Is(err, errors.CodeTokenMalformed))
	assert.Zero(t, f.store.calls.Load())
}

func TestSessionMissingAccount(t *testing.T) {
	f := newFixture()
	uc := NewSessionUseCase(stubVerifier{subject: "ghost"}, f.accounts, nil, nil)

	_, err := uc.Build(context.Background(), SessionRequest{Method: http.MethodGet, AuthorizationHeader: "Bearer t"})
	assert.True(t, errors.Is(err, errors.CodeAccountMissing))

	s, err := uc.Build(context.Background(), SessionRequest{Method: http.MethodPost, AuthorizationHeader: "Bearer t", Onboarding: true})
	require.NoError(t, err)
	assert.Equal(t, "ghost", s.SubjectID)
	assert.Empty(t, s.MarketplaceID)
}

func TestSessionBackfillIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.accounts.Create(ctx, &entity.Account{UserID: "legacy", LegacyEmail: "old@Smith.EDU"}))

	uc := NewSessionUseCase(stubVerifier{subject: "legacy"}, f.accounts, nil, nil)
	for i := 0; i < 2; i++ {
		s, err := uc.Build(ctx, SessionRequest{Method: http.MethodGet, AuthorizationHeader: "Bearer t"})
		require.NoError(t, err)
		assert.Equal(t, smith, s.MarketplaceID)
	}

	stored, err := f.accounts.GetByID(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, smith, stored.Marketplace)
}

func TestSessionUnresolvableMarketplace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.accounts.Create(ctx, &entity.Account{UserID: "u2", Email: "someone@gmail.com"}))

	uc := NewSessionUseCase(stubVerifier{subject: "u2"}, f.accounts, nil, nil)
	_, err := uc.Build(ctx, SessionRequest{Method: http.MethodGet, AuthorizationHeader: "Bearer t"})
	assert.True(t, errors.Is(err, errors.CodeMarketplaceUnresolved))
}

func TestSessionCancelledBeforeAccountLookup(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.accounts.Create(context.Background(), &entity.Account{UserID: "u3", Email: "x@umass.edu"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uc := NewSessionUseCase(stubVerifier{subject: "u3"}, f.accounts, nil, nil)
	_, err := uc.Build(ctx, SessionRequest{Method: http.MethodGet, AuthorizationHeader: "Bearer t"})
	assert.True(t, errors.Is(err, errors.CodeMarketplaceUnresolved))
	assert.ErrorIs(t, err, context.Canceled)
}

// cancelAfterRead cancels the request once the account has been loaded.
type cancelAfterRead struct {
	repository.AccountRepository
	cancel context.CancelFunc
}

func (r cancelAfterRead) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	account, err := r.AccountRepository.GetByID(ctx, id)
	r.cancel()
	return account, err
}

func TestSessionCancelledBeforeBackfill(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.accounts.Create(context.Background(), &entity.Account{UserID: "u3", Email: "x@umass.edu"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	accounts := cancelAfterRead{AccountRepository: f.accounts, cancel: cancel}
	uc := NewSessionUseCase(stubVerifier{subject: "u3"}, accounts, nil, nil)
	_, err := uc.Build(ctx, SessionRequest{Method: http.MethodGet, AuthorizationHeader: "Bearer t"})
	assert.True(t, errors.Is(err, errors.CodeMarketplaceUnresolved))
	assert.ErrorIs(t, err, context.Canceled)

	stored, err := f.accounts.GetByID(context.Background(), "u3")
	require.NoError(t, err)
	assert.Empty(t, stored.Marketplace)
}
