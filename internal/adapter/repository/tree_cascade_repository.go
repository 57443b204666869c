package repository

import (
	"context"
	"sort"

	"reuseu/internal/domain/repository"
	"reuseu/internal/infrastructure/treestore"
	"reuseu/pkg/errors"
)

type treeCascadeRepository struct {
	store treestore.Store
}

func NewTreeCascadeRepository(store treestore.Store) repository.CascadeRepository {
	return &treeCascadeRepository{store: store}
}

func (r *treeCascadeRepository) RemoveListing(ctx context.Context, listingID string, reportIDs []string) ([]string, error) {
	if err := checkKey(listingID, "Listing"); err != nil {
		return nil, err
	}
	paths := []string{
		treestore.Join(listingRoot, listingID),
		treestore.Join(reviewRoot, listingID),
		treestore.Join(chatRoot, listingID),
	}
	for _, id := range reportIDs {
		if treestore.ValidKey(id) {
			paths = append(paths, treestore.Join(reportRoot, id))
		}
	}
	sort.Strings(paths)

	updates := make(map[string]interface{}, len(paths))
	for _, p := range paths {
		updates[p] = nil
	}
	if err := r.store.Batch(ctx, updates); err != nil {
		return nil, errors.Upstream("Failed to delete listing", err)
	}
	return paths, nil
}
