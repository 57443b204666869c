package repository

import (
	"context"
	stderrors "errors"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/infrastructure/treestore"
	"reuseu/pkg/errors"
)

type treeListingRepository struct {
	store treestore.Store
}

func NewTreeListingRepository(store treestore.Store) repository.ListingRepository {
	return &treeListingRepository{store: store}
}

func (r *treeListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	listing.ListingID = ""
	key, err := r.store.Push(ctx, listingRoot, listing)
	if err != nil {
		return writeFailed("Listing", err)
	}
	listing.ListingID = key
	return writeFailed("Listing", r.store.Update(ctx, treestore.Join(listingRoot, key),
		map[string]interface{}{"ListingID": key}))
}

func (r *treeListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	if err := checkKey(id, "Listing"); err != nil {
		return nil, err
	}
	var listing entity.Listing
	if err := read(ctx, r.store, treestore.Join(listingRoot, id), &listing, "Listing"); err != nil {
		return nil, err
	}
	listing.ListingID = id
	return &listing, nil
}

func (r *treeListingRepository) List(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, error) {
	all, err := readChildren[entity.Listing](ctx, r.store, listingRoot, "Listing")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Listing, 0, len(all))
	for _, id := range sortedKeys(all) {
		l := all[id]
		l.ListingID = id
		if filter.MarketplaceID != "" && l.MarketplaceID != filter.MarketplaceID {
			continue
		}
		if filter.OwnerID != "" && l.UserID != filter.OwnerID {
			continue
		}
		if filter.Sold != nil && l.SellStatus != *filter.Sold {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *treeListingRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	return writeFailed("Listing", r.store.Update(ctx, treestore.Join(listingRoot, id), fields))
}

func (r *treeListingRepository) SetImage(ctx context.Context, id, ordinal, key string) error {
	if err := checkKey(id, "Listing"); err != nil {
		return err
	}
	return writeFailed("Listing", r.store.Set(ctx, treestore.Join(listingRoot, id, "Images", ordinal), key))
}

func (r *treeListingRepository) ClaimSale(ctx context.Context, id, buyerID string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	err := r.store.Create(ctx, treestore.Join(listingRoot, id, "BuyerID"), buyerID)
	if stderrors.Is(err, treestore.ErrExists) {
		return errors.Conflict("Listing has already been sold")
	}
	if err != nil {
		return writeFailed("Listing", err)
	}
	return writeFailed("Listing", r.store.Update(ctx, treestore.Join(listingRoot, id),
		map[string]interface{}{"SellStatus": true}))
}
