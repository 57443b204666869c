package repository

import (
	"context"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/infrastructure/treestore"
)

type treeReportRepository struct {
	store treestore.Store
}

func NewTreeReportRepository(store treestore.Store) repository.ReportRepository {
	return &treeReportRepository{store: store}
}

func (r *treeReportRepository) Create(ctx context.Context, report *entity.Report) error {
	report.ReportID = ""
	key, err := r.store.Push(ctx, reportRoot, report)
	if err != nil {
		return writeFailed("Report", err)
	}
	report.ReportID = key
	return writeFailed("Report", r.store.Update(ctx, treestore.Join(reportRoot, key),
		map[string]interface{}{"report_id": key}))
}

func (r *treeReportRepository) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	if err := checkKey(id, "Report"); err != nil {
		return nil, err
	}
	var report entity.Report
	if err := read(ctx, r.store, treestore.Join(reportRoot, id), &report, "Report"); err != nil {
		return nil, err
	}
	report.ReportID = id
	return &report, nil
}

func (r *treeReportRepository) List(ctx context.Context, marketplaceID string) ([]*entity.Report, error) {
	return r.filter(ctx, func(rep *entity.Report) bool {
		return marketplaceID == "" || rep.MarketplaceID == marketplaceID
	})
}

func (r *treeReportRepository) ListByListing(ctx context.Context, listingID string) ([]*entity.Report, error) {
	return r.filter(ctx, func(rep *entity.Report) bool {
		return rep.ListingID == listingID
	})
}

func (r *treeReportRepository) filter(ctx context.Context, keep func(*entity.Report) bool) ([]*entity.Report, error) {
	all, err := readChildren[entity.Report](ctx, r.store, reportRoot, "Report")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Report, 0, len(all))
	for _, id := range sortedKeys(all) {
		rep := all[id]
		rep.ReportID = id
		if keep(rep) {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *treeReportRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return writeFailed("Report", r.store.Delete(ctx, treestore.Join(reportRoot, id)))
}
