package repository

import (
	"context"
	stderrors "errors"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/infrastructure/treestore"
	"reuseu/pkg/errors"
)

type treeReviewRepository struct {
	store treestore.Store
}

func NewTreeReviewRepository(store treestore.Store) repository.ReviewRepository {
	return &treeReviewRepository{store: store}
}

// Create relies on the store's create-if-absent so two concurrent reviews of
// the same listing cannot both land.
func (r *treeReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if err := checkKey(review.ListingID, "Listing"); err != nil {
		return err
	}
	err := r.store.Create(ctx, treestore.Join(reviewRoot, review.ListingID), review)
	if stderrors.Is(err, treestore.ErrExists) {
		return errors.Conflict("Review already exists for this listing")
	}
	return writeFailed("Review", err)
}

func (r *treeReviewRepository) GetByListing(ctx context.Context, listingID string) (*entity.Review, error) {
	if err := checkKey(listingID, "Review"); err != nil {
		return nil, err
	}
	var review entity.Review
	if err := read(ctx, r.store, treestore.Join(reviewRoot, listingID), &review, "Review"); err != nil {
		return nil, err
	}
	review.ListingID = listingID
	return &review, nil
}

func (r *treeReviewRepository) List(ctx context.Context, sellerID string) ([]*entity.Review, error) {
	all, err := readChildren[entity.Review](ctx, r.store, reviewRoot, "Review")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Review, 0, len(all))
	for _, id := range sortedKeys(all) {
		rv := all[id]
		rv.ListingID = id
		if sellerID != "" && rv.SellerID != sellerID {
			continue
		}
		out = append(out, rv)
	}
	return out, nil
}

func (r *treeReviewRepository) Delete(ctx context.Context, listingID string) error {
	if _, err := r.GetByListing(ctx, listingID); err != nil {
		return err
	}
	return writeFailed("Review", r.store.Delete(ctx, treestore.Join(reviewRoot, listingID)))
}
