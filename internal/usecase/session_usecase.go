package usecase

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/domain/service"
	"reuseu/internal/infrastructure/metrics"
	"reuseu/pkg/errors"
)

type SessionRequest struct {
	Method              string
	AuthorizationHeader string
	// Onboarding marks the account-creation route, where the account does
	// not exist yet.
	Onboarding bool
}

// SessionUseCase turns request credentials into a tenant-scoped session.
type SessionUseCase struct {
	verifier TokenVerifier
	accounts repository.AccountRepository
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewSessionUseCase(verifier TokenVerifier, accounts repository.AccountRepository, m *metrics.Metrics, log *zap.Logger) *SessionUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionUseCase{
		verifier: verifier,
		accounts: accounts,
		metrics:  m,
		log:      log,
	}
}

func (uc *SessionUseCase) Build(ctx context.Context, req SessionRequest) (entity.Session, error) {
	if req.Method == http.MethodOptions {
		return entity.Session{}, nil
	}

	subject, err := uc.verifier.Verify(ctx, req.AuthorizationHeader)
	if err != nil {
		uc.record(err)
		return entity.Session{}, err
	}
	return uc.forSubject(ctx, subject, req.Onboarding)
}

// BuildFromToken authenticates a raw token, as sent by websocket clients.
func (uc *SessionUseCase) BuildFromToken(ctx context.Context, token string) (entity.Session, error) {
	subject, err := uc.verifier.VerifyToken(ctx, token)
	if err != nil {
		uc.record(err)
		return entity.Session{}, err
	}
	return uc.forSubject(ctx, subject, false)
}

func (uc *SessionUseCase) forSubject(ctx context.Context, subject string, onboarding bool) (entity.Session, error) {
	if onboarding {
		uc.record(nil)
		return entity.Session{SubjectID: subject}, nil
	}

	account, err := uc.accounts.GetByID(ctx, subject)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// The client went away; the store did not fail.
			uc.log.Info("request cancelled before account lookup", zap.String("uid", subject), zap.Error(ctxErr))
			uc.metrics.AuthOutcome("cancelled")
			return entity.Session{}, errors.MarketplaceUnresolved(ctxErr)
		}
		if errors.Is(err, errors.CodeNotFound) {
			err = errors.AccountMissing(err)
		} else if !errors.Is(err, errors.CodeUpstreamFailure) {
			err = errors.Upstream("Failed to load account", err)
		}
		uc.record(err)
		return entity.Session{}, err
	}

	marketplace := account.Marketplace
	if marketplace == "" {
		marketplace, err = uc.backfill(ctx, account)
		if err != nil {
			uc.record(err)
			return entity.Session{}, err
		}
	}

	uc.record(nil)
	return entity.Session{SubjectID: subject, MarketplaceID: marketplace}, nil
}

// backfill repairs a legacy account that predates marketplace ids. The
// write is idempotent, so repeating it is harmless.
func (uc *SessionUseCase) backfill(ctx context.Context, account *entity.Account) (string, error) {
	log := uc.log.With(zap.String("uid", account.UserID))

	marketplace, ok := service.ResolveMarketplace(account.ContactEmail())
	if !ok {
		log.Warn("account has no resolvable marketplace")
		uc.metrics.Backfill("unresolvable")
		return "", errors.MarketplaceUnresolved(nil)
	}
	if err := ctx.Err(); err != nil {
		log.Info("request cancelled before marketplace backfill", zap.Error(err))
		uc.metrics.Backfill("cancelled")
		return "", errors.MarketplaceUnresolved(err)
	}
	if err := uc.accounts.SetMarketplace(ctx, account.UserID, marketplace); err != nil {
		log.Error("marketplace backfill failed", zap.String("marketplace_id", marketplace), zap.Error(err))
		uc.metrics.Backfill(metrics.LabelFailure)
		return "", errors.MarketplaceUnresolved(err)
	}

	log.Info("backfilled marketplace", zap.String("marketplace_id", marketplace))
	uc.metrics.Backfill(metrics.LabelSuccess)
	return marketplace, nil
}

func (uc *SessionUseCase) record(err error) {
	outcome := "ok"
	if err != nil {
		outcome = errors.KindOf(err)
	}
	uc.metrics.AuthOutcome(outcome)
}
