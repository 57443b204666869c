package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/domain/service"
	"reuseu/internal/infrastructure/metrics"
	"reuseu/pkg/errors"
)

const defaultAuditLimit = 50

type ReportUseCase struct {
	reports  repository.ReportRepository
	listings repository.ListingRepository
	cascade  repository.CascadeRepository
	images   service.BlobStore
	audit    repository.AuditRepository
	admins   AdminChecker
	metrics  *metrics.Metrics
	log      *zap.Logger
}

type ReportDeps struct {
	Reports  repository.ReportRepository
	Listings repository.ListingRepository
	Cascade  repository.CascadeRepository
	Images   service.BlobStore
	Audit    repository.AuditRepository // optional
	Admins   AdminChecker
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

func NewReportUseCase(d ReportDeps) *ReportUseCase {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &ReportUseCase{
		reports:  d.Reports,
		listings: d.Listings,
		cascade:  d.Cascade,
		images:   d.Images,
		audit:    d.Audit,
		admins:   d.Admins,
		metrics:  d.Metrics,
		log:      d.Log,
	}
}

// CascadeResult describes what a moderation delete removed.
type CascadeResult struct {
	ReportID  string   `json:"report_id"`
	ListingID string   `json:"listing_id"`
	Outcome   string   `json:"outcome"`
	Removed   []string `json:"removed"`
}

func (uc *ReportUseCase) ReportListing(ctx context.Context, session entity.Session, listingID, reason, description string) (*entity.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errors.Validation("A reason is required")
	}
	listing, err := uc.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !visible(session, listing.MarketplaceID, uc.admins) {
		return nil, errors.NotFound("Listing", nil)
	}

	report := &entity.Report{
		MarketplaceID: listing.MarketplaceID,
		ListingID:     listing.ListingID,
		UserID:        session.SubjectID,
		Reason:        reason,
		Description:   strings.TrimSpace(description),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := uc.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	uc.log.Info("listing reported",
		zap.String("report_id", report.ReportID),
		zap.String("listing_id", listingID),
		zap.String("reporter", session.SubjectID))
	return report, nil
}

func (uc *ReportUseCase) ListReports(ctx context.Context, session entity.Session, marketplaceID string) ([]*entity.Report, error) {
	if err := uc.requireAdmin(session); err != nil {
		return nil, err
	}
	return uc.reports.List(ctx, marketplaceID)
}

// DismissReport removes only the report; the listing stays.
func (uc *ReportUseCase) DismissReport(ctx context.Context, session entity.Session, reportID string) error {
	if err := uc.requireAdmin(session); err != nil {
		return err
	}
	if _, err := uc.reports.GetByID(ctx, reportID); err != nil {
		return err
	}
	if err := uc.reports.Delete(ctx, reportID); err != nil {
		return err
	}
	uc.log.Info("report dismissed", zap.String("admin", session.SubjectID), zap.String("report_id", reportID))
	return nil
}

func (uc *ReportUseCase) ListAudit(ctx context.Context, session entity.Session, limit int) ([]*entity.AuditEntry, error) {
	if err := uc.requireAdmin(session); err != nil {
		return nil, err
	}
	if uc.audit == nil {
		return []*entity.AuditEntry{}, nil
	}
	if limit <= 0 || limit > 500 {
		limit = defaultAuditLimit
	}
	return uc.audit.List(ctx, limit)
}

// DeleteReportAndListing removes a reported listing together with its
// review, chat and every report against it. A report that is already gone
// while its listing remains is treated as a retry of an interrupted
// cascade.
func (uc *ReportUseCase) DeleteReportAndListing(ctx context.Context, session entity.Session, reportID, listingID string) (*CascadeResult, error) {
	if err := uc.requireAdmin(session); err != nil {
		return nil, err
	}
	reportID = strings.TrimSpace(reportID)
	listingID = strings.TrimSpace(listingID)
	if reportID == "" || listingID == "" {
		return nil, errors.Validation("report_id and listing_id are required")
	}

	log := uc.log.With(
		zap.String("admin", session.SubjectID),
		zap.String("report_id", reportID),
		zap.String("listing_id", listingID))

	report, err := uc.reports.GetByID(ctx, reportID)
	if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}
	if report != nil && report.ListingID != listingID {
		return nil, errors.Validation("Report does not belong to this listing")
	}
	listing, err := uc.listings.GetByID(ctx, listingID)
	if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}
	if report == nil && listing == nil {
		return nil, errors.NotFound("Report", nil)
	}

	outcome := entity.AuditOutcomeDeleted
	detail := ""
	switch {
	case report == nil:
		outcome = entity.AuditOutcomePartial
		detail = "report already removed; resuming listing cascade"
		log.Warn("resuming partial moderation cascade")
	case listing == nil:
		outcome = entity.AuditOutcomePartial
		detail = "listing already removed; clearing reports"
		log.Warn("listing already gone, removing remaining reports")
	}

	siblings, err := uc.reports.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(siblings)+1)
	if report != nil {
		ids = append(ids, reportID)
	}
	for _, r := range siblings {
		if r.ReportID != reportID {
			ids = append(ids, r.ReportID)
		}
	}

	marketplaceID := ""
	if listing != nil {
		marketplaceID = listing.MarketplaceID
	} else if report != nil {
		marketplaceID = report.MarketplaceID
	}

	removed, err := uc.cascade.RemoveListing(ctx, listingID, ids)
	if err != nil {
		log.Error("moderation cascade failed", zap.Error(err))
		uc.metrics.Cascade(metrics.LabelFailure)
		uc.recordAudit(ctx, log, &entity.AuditEntry{
			AdminID:       session.SubjectID,
			ReportID:      reportID,
			ListingID:     listingID,
			MarketplaceID: marketplaceID,
			Outcome:       entity.AuditOutcomeFailed,
			Detail:        err.Error(),
		})
		return nil, err
	}

	if listing != nil {
		if err := removeImages(ctx, uc.images, listing); err != nil {
			log.Warn("listing images left behind after cascade", zap.Error(err))
			if detail != "" {
				detail += "; "
			}
			detail += "image cleanup incomplete"
		}
	}

	uc.recordAudit(ctx, log, &entity.AuditEntry{
		AdminID:       session.SubjectID,
		ReportID:      reportID,
		ListingID:     listingID,
		MarketplaceID: marketplaceID,
		Outcome:       outcome,
		Removed:       removed,
		Detail:        detail,
	})

	if outcome == entity.AuditOutcomePartial {
		uc.metrics.Cascade(metrics.LabelPartial)
	} else {
		uc.metrics.Cascade(metrics.LabelSuccess)
		log.Info("listing removed by moderation", zap.Int("paths", len(removed)))
	}

	return &CascadeResult{
		ReportID:  reportID,
		ListingID: listingID,
		Outcome:   outcome,
		Removed:   removed,
	}, nil
}

func (uc *ReportUseCase) recordAudit(ctx context.Context, log *zap.Logger, entry *entity.AuditEntry) {
	if uc.audit == nil {
		return
	}
	entry.CreatedAt = time.Now().UTC()
	if err := uc.audit.Record(ctx, entry); err != nil {
		log.Error("moderation audit write failed", zap.String("outcome", entry.Outcome), zap.Error(err))
	}
}

func (uc *ReportUseCase) requireAdmin(session entity.Session) error {
	if uc.admins == nil || !uc.admins.IsAdmin(session.SubjectID) {
		return errors.Forbidden("Admin privileges required", nil)
	}
	return nil
}
