package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/pkg/errors"
)

type TransactionUseCase struct {
	transactions repository.TransactionRepository
	listings     repository.ListingRepository
	admins       AdminChecker
	log          *zap.Logger
}

func NewTransactionUseCase(transactions repository.TransactionRepository, listings repository.ListingRepository, admins AdminChecker, log *zap.Logger) *TransactionUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &TransactionUseCase{transactions: transactions, listings: listings, admins: admins, log: log}
}

// Create sells the listing to the session subject at its listed price.
func (uc *TransactionUseCase) Create(ctx context.Context, session entity.Session, listingID string) (*entity.Transaction, error) {
	if listingID == "" {
		return nil, errors.Validation("ListingID is required")
	}
	listing, err := uc.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !visible(session, listing.MarketplaceID, uc.admins) {
		return nil, errors.NotFound("Listing", nil)
	}
	if listing.UserID == session.SubjectID {
		return nil, errors.Forbidden("You cannot buy your own listing", nil)
	}
	if listing.SellStatus {
		return nil, errors.Conflict("Listing has already been sold")
	}

	if err := uc.listings.ClaimSale(ctx, listingID, session.SubjectID); err != nil {
		return nil, err
	}

	tx := &entity.Transaction{
		ListingID:     listingID,
		BuyerID:       session.SubjectID,
		SellerID:      listing.UserID,
		MarketplaceID: listing.MarketplaceID,
		Price:         listing.Price,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := uc.transactions.Create(ctx, tx); err != nil {
		uc.log.Error("listing claimed but transaction not recorded",
			zap.String("listing_id", listingID),
			zap.String("buyer_id", session.SubjectID),
			zap.Error(err))
		return nil, err
	}
	uc.log.Info("listing sold",
		zap.String("transaction_id", tx.TransactionID),
		zap.String("listing_id", listingID),
		zap.Int64("price", tx.Price))
	return tx, nil
}

func (uc *TransactionUseCase) Get(ctx context.Context, session entity.Session, id string) (*entity.Transaction, error) {
	tx, err := uc.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !uc.party(session, tx) {
		return nil, errors.NotFound("Transaction", nil)
	}
	return tx, nil
}

// List returns the transactions the caller took part in, optionally for one
// listing only.
func (uc *TransactionUseCase) List(ctx context.Context, session entity.Session, listingID string) ([]*entity.Transaction, error) {
	all, err := uc.transactions.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Transaction, 0, len(all))
	for _, tx := range all {
		if uc.party(session, tx) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (uc *TransactionUseCase) party(session entity.Session, tx *entity.Transaction) bool {
	if session.SubjectID == tx.BuyerID || session.SubjectID == tx.SellerID {
		return true
	}
	return uc.admins != nil && uc.admins.IsAdmin(session.SubjectID)
}
