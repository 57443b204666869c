package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/pkg/errors"
)

type ReviewUseCase struct {
	reviews  repository.ReviewRepository
	listings repository.ListingRepository
	admins   AdminChecker
	log      *zap.Logger
}

func NewReviewUseCase(reviews repository.ReviewRepository, listings repository.ListingRepository, admins AdminChecker, log *zap.Logger) *ReviewUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReviewUseCase{reviews: reviews, listings: listings, admins: admins, log: log}
}

// Add stores the single review of a listing. Field checks run before any
// store access.
func (uc *ReviewUseCase) Add(ctx context.Context, session entity.Session, review entity.Review) (*entity.Review, error) {
	review.ListingID = strings.TrimSpace(review.ListingID)
	review.ReviewerID = strings.TrimSpace(review.ReviewerID)
	review.SellerID = strings.TrimSpace(review.SellerID)
	review.ReviewDate = strings.TrimSpace(review.ReviewDate)

	if review.ListingID == "" || review.ReviewerID == "" || review.SellerID == "" ||
		review.ReviewDate == "" || strings.TrimSpace(review.Review) == "" || review.Rating == 0 {
		return nil, errors.Validation("ListingID, Rating, Review, ReviewDate, ReviewerID and SellerID are required")
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, errors.Validation("Rating must be between 1 and 5")
	}

	listing, err := uc.listings.GetByID(ctx, review.ListingID)
	if err != nil {
		return nil, err
	}
	if !visible(session, listing.MarketplaceID, uc.admins) {
		return nil, errors.NotFound("Listing", nil)
	}
	if review.ReviewerID != session.SubjectID {
		return nil, errors.Forbidden("Reviews can only be written as yourself", nil)
	}
	if review.SellerID != listing.UserID {
		return nil, errors.Validation("SellerID does not match the listing owner")
	}
	if review.ReviewerID == review.SellerID {
		return nil, errors.Forbidden("Sellers cannot review their own listing", nil)
	}

	if err := uc.reviews.Create(ctx, &review); err != nil {
		return nil, err
	}
	uc.log.Info("review added",
		zap.String("listing_id", review.ListingID),
		zap.String("reviewer_id", review.ReviewerID),
		zap.Int("rating", review.Rating))
	return &review, nil
}

func (uc *ReviewUseCase) Get(ctx context.Context, session entity.Session, listingID string) (*entity.Review, error) {
	listing, err := uc.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.NotFound("Review", err)
		}
		return nil, err
	}
	if !visible(session, listing.MarketplaceID, uc.admins) {
		return nil, errors.NotFound("Review", nil)
	}
	return uc.reviews.GetByListing(ctx, listingID)
}

// List returns reviews of listings in the caller's marketplace, optionally
// only those about one seller. Admins see every marketplace.
func (uc *ReviewUseCase) List(ctx context.Context, session entity.Session, sellerID string) ([]*entity.Review, error) {
	reviews, err := uc.reviews.List(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if uc.admins != nil && uc.admins.IsAdmin(session.SubjectID) {
		return reviews, nil
	}

	listings, err := uc.listings.List(ctx, entity.ListingFilter{MarketplaceID: session.MarketplaceID})
	if err != nil {
		return nil, err
	}
	local := make(map[string]struct{}, len(listings))
	for _, l := range listings {
		local[l.ListingID] = struct{}{}
	}

	out := make([]*entity.Review, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := local[r.ListingID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (uc *ReviewUseCase) Delete(ctx context.Context, session entity.Session, listingID string) error {
	review, err := uc.reviews.GetByListing(ctx, listingID)
	if err != nil {
		return err
	}
	if !ownerOrAdmin(session, review.ReviewerID, uc.admins) {
		return errors.Forbidden("Only the reviewer can delete this review", nil)
	}
	return uc.reviews.Delete(ctx, listingID)
}

// SellerRating returns the seller's average rating and the number of
// reviews behind it. The average is nil when there are none.
func (uc *ReviewUseCase) SellerRating(ctx context.Context, session entity.Session, sellerID string) (*float64, int, error) {
	if strings.TrimSpace(sellerID) == "" {
		return nil, 0, errors.Validation("Seller id is required")
	}
	reviews, err := uc.List(ctx, session, sellerID)
	if err != nil {
		return nil, 0, err
	}
	if len(reviews) == 0 {
		return nil, 0, nil
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	avg := float64(total) / float64(len(reviews))
	return &avg, len(reviews), nil
}
