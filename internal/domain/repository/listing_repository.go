package repository

import (
	"context"

	"reuseu/internal/domain/entity"
)

type ListingRepository interface {
	// Create assigns a store-generated ListingID.
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// List returns matching listings ordered by id, oldest first.
	List(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	SetImage(ctx context.Context, id, ordinal, key string) error
	// ClaimSale records the buyer and marks the listing sold. It fails with
	// CONFLICT if another buyer already claimed it.
	ClaimSale(ctx context.Context, id, buyerID string) error
}

type ReviewRepository interface {
	// Create fails with CONFLICT when the listing already has a review.
	Create(ctx context.Context, review *entity.Review) error
	GetByListing(ctx context.Context, listingID string) (*entity.Review, error)
	List(ctx context.Context, sellerID string) ([]*entity.Review, error)
	Delete(ctx context.Context, listingID string) error
}

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	// List returns every report, or only one marketplace's when
	// marketplaceID is set.
	List(ctx context.Context, marketplaceID string) ([]*entity.Report, error)
	ListByListing(ctx context.Context, listingID string) ([]*entity.Report, error)
	Delete(ctx context.Context, id string) error
}

// CascadeRepository removes a listing together with everything that hangs
// off it, in one atomic write.
type CascadeRepository interface {
	// RemoveListing deletes the listing, its review, its chat and the given
	// reports. It returns the paths that were removed.
	RemoveListing(ctx context.Context, listingID string, reportIDs []string) ([]string, error)
}
