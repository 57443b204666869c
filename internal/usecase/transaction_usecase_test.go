package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reuseu/pkg/errors"
)

func TestTransactionCreateMarksSold(t *testing.T) {
	f := newFixture()
	uc := NewTransactionUseCase(f.transactions, f.listings, f.admins, nil)
	ctx := context.Background()
	l := f.seedListing(t, "seller", umass)

	tx, err := uc.Create(ctx, session("buyer", umass), l.ListingID)
	require.NoError(t, err)
	assert.NotEmpty(t, tx.TransactionID)
	assert.Equal(t, int64(15), tx.Price)
	assert.Equal(t, "seller", tx.SellerID)

	sold, err := f.listings.GetByID(ctx, l.ListingID)
	require.NoError(t, err)
	assert.True(t, sold.SellStatus)
	assert.Equal(t, "buyer", sold.BuyerID)

	_, err = uc.Create(ctx, session("late", umass), l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeConflict))

	got, err := uc.Get(ctx, session("seller", umass), tx.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, tx.TransactionID, got.TransactionID)
	_, err = uc.Get(ctx, session("late", umass), tx.TransactionID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	_, err = uc.Get(ctx, session(adminUID, ""), tx.TransactionID)
	assert.NoError(t, err)

	mine, err := uc.List(ctx, session("buyer", umass), l.ListingID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := uc.List(ctx, session("late", umass), "")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestTransactionRules(t *testing.T) {
	f := newFixture()
	uc := NewTransactionUseCase(f.transactions, f.listings, f.admins, nil)
	ctx := context.Background()
	l := f.seedListing(t, "seller", umass)

	_, err := uc.Create(ctx, session("seller", umass), l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	_, err = uc.Create(ctx, session("buyer", smith), l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	_, err = uc.Create(ctx, session("buyer", umass), "")
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestTransactionConcurrentBuyersOneSale(t *testing.T) {
	f := newFixture()
	uc := NewTransactionUseCase(f.transactions, f.listings, f.admins, nil)
	l := f.seedListing(t, "seller", umass)

	var sales atomic.Int32
	var wg sync.WaitGroup
	for _, buyer := range []string{"b1", "b2", "b3", "b4", "b5"} {
		wg.Add(1)
		go func(buyer string) {
			defer wg.Done()
			if _, err := uc.Create(context.Background(), session(buyer, umass), l.ListingID); err == nil {
				sales.Add(1)
			} else {
				assert.True(t, errors.Is(err, errors.CodeConflict))
			}
		}(buyer)
	}
	wg.Wait()
	assert.Equal(t, int32(1), sales.Load())

	all, err := f.transactions.ListByListing(context.Background(), l.ListingID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
