package usecase

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/pkg/errors"
)

// flakyCascade fails the first n removals before delegating.
type flakyCascade struct {
	repository.CascadeRepository
	failures int
}

func (c *flakyCascade) RemoveListing(ctx context.Context, listingID string, reportIDs []string) ([]string, error) {
	if c.failures > 0 {
		c.failures--
		return nil, errors.Upstream("Failed to delete listing", stderrors.New("network down"))
	}
	return c.CascadeRepository.RemoveListing(ctx, listingID, reportIDs)
}

type failingAudit struct{ repository.AuditRepository }

func (failingAudit) Record(ctx context.Context, entry *entity.AuditEntry) error {
	return stderrors.New("firestore unavailable")
}

func TestReportListingAndAdminGate(t *testing.T) {
	f := newFixture()
	uc := f.reportUseCase()
	ctx := context.Background()
	l := f.seedListing(t, "seller", umass)

	_, err := uc.ReportListing(ctx, session("buyer", umass), l.ListingID, "   ", "")
	assert.True(t, errors.Is(err, errors.CodeValidation))

	_, err = uc.ReportListing(ctx, session("buyer", smith), l.ListingID, "spam", "")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	report, err := uc.ReportListing(ctx, session("buyer", umass), l.ListingID, "spam", "posted twice")
	require.NoError(t, err)
	assert.NotEmpty(t, report.ReportID)
	assert.Equal(t, umass, report.MarketplaceID)
	assert.Equal(t, "buyer", report.UserID)

	calls := f.store.calls.Load()
	_, err = uc.ListReports(ctx, session("buyer", umass), "")
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	_, err = uc.DeleteReportAndListing(ctx, session("buyer", umass), report.ReportID, l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	assert.True(t, errors.Is(uc.DismissReport(ctx, session("buyer", umass), report.ReportID), errors.CodeForbidden))
	assert.Equal(t, calls, f.store.calls.Load())

	reports, err := uc.ListReports(ctx, session(adminUID, ""), umass)
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	require.NoError(t, uc.DismissReport(ctx, session(adminUID, ""), report.ReportID))
	_, err = f.listings.GetByID(ctx, l.ListingID)
	assert.NoError(t, err)
	assert.True(t, errors.Is(uc.DismissReport(ctx, session(adminUID, ""), report.ReportID), errors.CodeNotFound))
}

func TestDeleteReportAndListingCascade(t *testing.T) {
	f := newFixture()
	uc := f.reportUseCase()
	ctx := context.Background()
	admin := session(adminUID, "")
	l := f.seedListing(t, "seller", umass)
	other := f.seedListing(t, "seller", umass)

	r1, err := uc.ReportListing(ctx, session("a", umass), l.ListingID, "spam", "")
	require.NoError(t, err)
	_, err = uc.ReportListing(ctx, session("b", umass), l.ListingID, "scam", "")
	require.NoError(t, err)
	rOther, err := uc.ReportListing(ctx, session("c", umass), other.ListingID, "rude", "")
	require.NoError(t, err)
	require.NoError(t, f.reviews.Create(ctx, &entity.Review{ListingID: l.ListingID, Rating: 2, ReviewerID: "a", SellerID: "seller"}))

	_, err = uc.DeleteReportAndListing(ctx, admin, r1.ReportID, other.ListingID)
	assert.True(t, errors.Is(err, errors.CodeValidation))

	res, err := uc.DeleteReportAndListing(ctx, admin, r1.ReportID, l.ListingID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditOutcomeDeleted, res.Outcome)
	assert.Len(t, res.Removed, 5)

	_, err = f.listings.GetByID(ctx, l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	_, err = f.reviews.GetByListing(ctx, l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	remaining, err := f.reports.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, rOther.ReportID, remaining[0].ReportID)

	_, err = uc.DeleteReportAndListing(ctx, admin, r1.ReportID, l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	audit, err := uc.ListAudit(ctx, admin, 10)
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, entity.AuditOutcomeDeleted, audit[0].Outcome)
	assert.Equal(t, adminUID, audit[0].AdminID)
}

func TestDeleteReportAndListingRetryAfterFailure(t *testing.T) {
	f := newFixture()
	flaky := &flakyCascade{CascadeRepository: f.cascade, failures: 1}
	uc := NewReportUseCase(ReportDeps{
		Reports:  f.reports,
		Listings: f.listings,
		Cascade:  flaky,
		Images:   f.blobs,
		Audit:    f.audit,
		Admins:   f.admins,
	})
	ctx := context.Background()
	admin := session(adminUID, "")
	l := f.seedListing(t, "seller", umass)
	r, err := uc.ReportListing(ctx, session("a", umass), l.ListingID, "spam", "")
	require.NoError(t, err)

	_, err = uc.DeleteReportAndListing(ctx, admin, r.ReportID, l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeUpstreamFailure))
	_, err = f.listings.GetByID(ctx, l.ListingID)
	require.NoError(t, err, "a failed batch leaves everything in place")

	res, err := uc.DeleteReportAndListing(ctx, admin, r.ReportID, l.ListingID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditOutcomeDeleted, res.Outcome)

	audit, err := uc.ListAudit(ctx, admin, 0)
	require.NoError(t, err)
	require.Len(t, audit, 2)
	assert.Equal(t, entity.AuditOutcomeDeleted, audit[0].Outcome)
	assert.Equal(t, entity.AuditOutcomeFailed, audit[1].Outcome)
}

func TestDeleteReportAndListingResumesWithoutReport(t *testing.T) {
	f := newFixture()
	uc := f.reportUseCase()
	ctx := context.Background()
	admin := session(adminUID, "")
	l := f.seedListing(t, "seller", umass)
	r, err := uc.ReportListing(ctx, session("a", umass), l.ListingID, "spam", "")
	require.NoError(t, err)
	require.NoError(t, f.reports.Delete(ctx, r.ReportID))

	res, err := uc.DeleteReportAndListing(ctx, admin, r.ReportID, l.ListingID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditOutcomePartial, res.Outcome)
	_, err = f.listings.GetByID(ctx, l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestDeleteReportAndListingAuditFailureKeepsSuccess(t *testing.T) {
	f := newFixture()
	uc := NewReportUseCase(ReportDeps{
		Reports:  f.reports,
		Listings: f.listings,
		Cascade:  f.cascade,
		Images:   f.blobs,
		Audit:    failingAudit{},
		Admins:   f.admins,
	})
	ctx := context.Background()
	l := f.seedListing(t, "seller", umass)
	r, err := uc.ReportListing(ctx, session("a", umass), l.ListingID, "spam", "")
	require.NoError(t, err)

	res, err := uc.DeleteReportAndListing(ctx, session(adminUID, ""), r.ReportID, l.ListingID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditOutcomeDeleted, res.Outcome)
}
