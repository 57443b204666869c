package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/domain/service"
	"reuseu/pkg/errors"
	"reuseu/pkg/utils"
)

const maxImagesPerUpload = 10

type ListingUseCase struct {
	listings   repository.ListingRepository
	reports    repository.ReportRepository
	cascade    repository.CascadeRepository
	images     service.BlobStore
	compressor service.ImageCompressor
	imageMaxKB int
	admins     AdminChecker
	log        *zap.Logger
}

type ListingDeps struct {
	Listings   repository.ListingRepository
	Reports    repository.ReportRepository
	Cascade    repository.CascadeRepository
	Images     service.BlobStore
	Compressor service.ImageCompressor
	ImageMaxKB int
	Admins     AdminChecker
	Log        *zap.Logger
}

func NewListingUseCase(d ListingDeps) *ListingUseCase {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &ListingUseCase{
		listings:   d.Listings,
		reports:    d.Reports,
		cascade:    d.Cascade,
		images:     d.Images,
		compressor: d.Compressor,
		imageMaxKB: d.ImageMaxKB,
		admins:     d.Admins,
		log:        d.Log,
	}
}

type CreateListingInput struct {
	Title       string
	Description string
	Price       int64
	Categories  entity.OrdinalMap
}

type ListingQuery struct {
	Status     string // "", "available" or "sold"
	OwnerID    string
	Pagination utils.PaginationParams
}

func (uc *ListingUseCase) Create(ctx context.Context, session entity.Session, input CreateListingInput) (*entity.Listing, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.Validation("Title is required")
	}
	categories := cleanCategories(input.Categories)
	if len(categories) == 0 {
		return nil, errors.Validation("At least one category is required")
	}
	if input.Price < 0 {
		return nil, errors.Validation("Price cannot be negative")
	}

	listing := &entity.Listing{
		UserID:        session.SubjectID,
		MarketplaceID: session.MarketplaceID,
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price,
		Categories:    categories,
		CreateTime:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := uc.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (uc *ListingUseCase) Get(ctx context.Context, session entity.Session, id string) (*entity.Listing, error) {
	listing, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visible(session, listing.MarketplaceID, uc.admins) {
		return nil, errors.NotFound("Listing", nil)
	}
	return listing, nil
}

// List returns one page of the session marketplace's listings and the
// total number of matches.
func (uc *ListingUseCase) List(ctx context.Context, session entity.Session, q ListingQuery) ([]*entity.Listing, int, error) {
	filter := entity.ListingFilter{MarketplaceID: session.MarketplaceID, OwnerID: q.OwnerID}
	switch q.Status {
	case "":
	case "available":
		sold := false
		filter.Sold = &sold
	case "sold":
		sold := true
		filter.Sold = &sold
	default:
		return nil, 0, errors.Validation("status must be available or sold")
	}

	all, err := uc.listings.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return utils.Page(all, q.Pagination), len(all), nil
}

func (uc *ListingUseCase) Update(ctx context.Context, session entity.Session, id string, patch entity.ListingPatch) (*entity.Listing, error) {
	listing, err := uc.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if listing.UserID != session.SubjectID {
		return nil, errors.Forbidden("Only the seller can edit this listing", nil)
	}

	fields := make(map[string]interface{})
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, errors.Validation("Title cannot be empty")
		}
		fields["Title"] = title
	}
	if patch.Description != nil {
		fields["Description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, errors.Validation("Price cannot be negative")
		}
		fields["Price"] = *patch.Price
	}
	if patch.Categories != nil {
		categories := cleanCategories(patch.Categories)
		if len(categories) == 0 {
			return nil, errors.Validation("At least one category is required")
		}
		fields["Categories"] = categories
	}
	if patch.SellStatus != nil {
		// A claimed sale is permanent; reopening would strand the listing.
		if !*patch.SellStatus && listing.BuyerID != "" {
			return nil, errors.Conflict("Listing has already been sold")
		}
		fields["SellStatus"] = *patch.SellStatus
	}

	if err := uc.listings.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return uc.listings.GetByID(ctx, id)
}

// Delete removes the listing with its review, chat and reports, then its
// images.
func (uc *ListingUseCase) Delete(ctx context.Context, session entity.Session, id string) error {
	listing, err := uc.Get(ctx, session, id)
	if err != nil {
		return err
	}
	if !ownerOrAdmin(session, listing.UserID, uc.admins) {
		return errors.Forbidden("Only the seller can delete this listing", nil)
	}

	reports, err := uc.reports.ListByListing(ctx, id)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ReportID)
	}
	if _, err := uc.cascade.RemoveListing(ctx, id, ids); err != nil {
		return err
	}

	if err := removeImages(ctx, uc.images, listing); err != nil {
		uc.log.Warn("listing images left behind", zap.String("listing_id", id), zap.Error(err))
	}
	return nil
}

// AddImages compresses each payload and attaches it to the listing. It
// returns the new blob keys.
func (uc *ListingUseCase) AddImages(ctx context.Context, session entity.Session, id string, payloads []string) ([]string, error) {
	if len(payloads) == 0 {
		return nil, errors.Validation("At least one image is required")
	}
	if len(payloads) > maxImagesPerUpload {
		return nil, errors.Validation(fmt.Sprintf("At most %d images per upload", maxImagesPerUpload))
	}
	listing, err := uc.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if listing.UserID != session.SubjectID {
		return nil, errors.Forbidden("Only the seller can add images", nil)
	}

	images := make([][]byte, 0, len(payloads))
	for _, p := range payloads {
		data, _, err := decodePayload(p)
		if err != nil {
			return nil, err
		}
		compressed, err := uc.compressor.Compress(data, uc.imageMaxKB)
		if err != nil {
			return nil, err
		}
		images = append(images, compressed)
	}

	next := listing.Images.Next()
	keys := make([]string, 0, len(images))
	for i, data := range images {
		ordinal := strconv.Itoa(next + i)
		key, err := uc.images.Put(ctx, fmt.Sprintf("listings/%s/%s", id, ordinal), "image/jpeg", data)
		if err != nil {
			return keys, err
		}
		if err := uc.listings.SetImage(ctx, id, ordinal, key); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (uc *ListingUseCase) GetImage(ctx context.Context, session entity.Session, id, ordinal string) ([]byte, error) {
	listing, err := uc.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	key, ok := listing.Images[ordinal]
	if !ok || key == "" {
		return nil, errors.NotFound("Image", nil)
	}
	return uc.images.Get(ctx, key)
}

func cleanCategories(in entity.OrdinalMap) entity.OrdinalMap {
	out := make(entity.OrdinalMap, len(in))
	for k, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}

// removeImages deletes every image blob of l, collecting failures.
func removeImages(ctx context.Context, blobs service.BlobStore, l *entity.Listing) error {
	if blobs == nil {
		return nil
	}
	var errs error
	for _, key := range l.Images {
		if key == "" {
			continue
		}
		errs = multierr.Append(errs, blobs.Delete(ctx, key))
	}
	return errs
}
