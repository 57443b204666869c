package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reuseu/internal/domain/entity"
	"reuseu/internal/infrastructure/treestore"
	"reuseu/pkg/errors"
)

func TestAccountCreateConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewTreeAccountRepository(treestore.NewMemoryStore())

	acct := &entity.Account{UserID: "u1", Email: "a@grinnell.edu", Marketplace: "grinnell"}
	require.NoError(t, repo.Create(ctx, acct))

	err := repo.Create(ctx, &entity.Account{UserID: "u1"})
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestAccountLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewTreeAccountRepository(treestore.NewMemoryStore())
	require.NoError(t, repo.Create(ctx, &entity.Account{UserID: "u1", Username: "Alice"}))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = repo.GetByID(ctx, "../Listing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = repo.GetByUsername(ctx, "")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestAccountSetMarketplaceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewTreeAccountRepository(treestore.NewMemoryStore())
	require.NoError(t, repo.Create(ctx, &entity.Account{UserID: "u1", LegacyEmail: "a@grinnell.edu"}))

	require.NoError(t, repo.SetMarketplace(ctx, "u1", "grinnell"))
	require.NoError(t, repo.SetMarketplace(ctx, "u1", "grinnell"))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "grinnell", got.Marketplace)
	assert.Equal(t, "a@grinnell.edu", got.LegacyEmail)
}

func TestAccountFavorites(t *testing.T) {
	ctx := context.Background()
	repo := NewTreeAccountRepository(treestore.NewMemoryStore())
	require.NoError(t, repo.Create(ctx, &entity.Account{UserID: "u1"}))

	require.NoError(t, repo.SetFavorites(ctx, "u1", []string{"l1", "l2"}))
	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l2"}, got.Favorites)

	require.NoError(t, repo.SetFavorites(ctx, "u1", nil))
	got, err = repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.Favorites)
}

func TestListingIDsAreUniqueUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	repo := NewTreeListingRepository(treestore.NewMemoryStore())

	var wg sync.WaitGroup
	ids := make([]string, 30)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := &entity.Listing{Title: "lamp", MarketplaceID: "grinnell"}
			assert.NoError(t, repo.Create(ctx, l))
			ids[i] = l.ListingID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	all, err := repo.List(ctx, entity.ListingFilter{MarketplaceID: "grinnell"})
	require.NoError(t, err)
	assert.Len(t, all, 30)
}

func TestListingFilterAndClaimSale(t *testing.T) {
	ctx := context.Background()
	repo := NewTreeListingRepository(treestore.NewMemoryStore())
	a := &entity.Listing{Title: "desk", UserID: "s1", MarketplaceID: "grinnell"}
	b := &entity.Listing{Title: "chair", UserID: "s2", MarketplaceID: "grinnell"}
	c := &entity.Listing{Title: "lamp", UserID: "s1", MarketplaceID: "carleton"}
	for _, l := range []*entity.Listing{a, b, c} {
		require.NoError(t, repo.Create(ctx, l))
	}

	require.NoError(t, repo.ClaimSale(ctx, a.ListingID, "buyer"))
	err := repo.ClaimSale(ctx, a.ListingID, "other")
	assert.True(t, errors.Is(err, errors.CodeConflict))

	sold := true
	got, err := repo.List(ctx, entity.ListingFilter{MarketplaceID: "grinnell", Sold: &sold})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "desk", got[0].Title)
	assert.Equal(t, "buyer", got[0].BuyerID)

	mine, err := repo.List(ctx, entity.ListingFilter{OwnerID: "s1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestReviewCreateIsExclusive(t *testing.T) {
	ctx := context.Background()
	repo := NewTreeReviewRepository(treestore.NewMemoryStore())

	rv := &entity.Review{ListingID: "l1", Rating: 5, Review: "great", ReviewerID: "b", SellerID: "s"}
	require.NoError(t, repo.Create(ctx, rv))
	err := repo.Create(ctx, rv)
	assert.True(t, errors.Is(err, errors.CodeConflict))

	bySeller, err := repo.List(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, bySeller, 1)
	none, err := repo.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCascadeRemovesEverythingAtOnce(t *testing.T) {
	ctx := context.Background()
	store := treestore.NewMemoryStore()
	listings := NewTreeListingRepository(store)
	reviews := NewTreeReviewRepository(store)
	reports := NewTreeReportRepository(store)
	chats := NewTreeChatRepository(store)

	l := &entity.Listing{Title: "desk", UserID: "s1", MarketplaceID: "grinnell"}
	require.NoError(t, listings.Create(ctx, l))
	require.NoError(t, reviews.Create(ctx, &entity.Review{ListingID: l.ListingID, Rating: 4}))
	r1 := &entity.Report{ListingID: l.ListingID, Reason: "spam"}
	r2 := &entity.Report{ListingID: l.ListingID, Reason: "scam"}
	other := &entity.Report{ListingID: "elsewhere", Reason: "spam"}
	for _, r := range []*entity.Report{r1, r2, other} {
		require.NoError(t, reports.Create(ctx, r))
	}
	require.NoError(t, chats.AppendMessage(ctx, l.ListingID, &entity.Message{SenderID: "b", Body: "hi"}))

	removed, err := NewTreeCascadeRepository(store).RemoveListing(ctx, l.ListingID, []string{r1.ReportID, r2.ReportID})
	require.NoError(t, err)
	assert.Len(t, removed, 5)

	_, err = listings.GetByID(ctx, l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	_, err = reviews.GetByListing(ctx, l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	_, err = chats.GetByListing(ctx, l.ListingID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	left, err := reports.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, other.ReportID, left[0].ReportID)
}

func TestChatMessagesKeepOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewTreeChatRepository(treestore.NewMemoryStore())
	require.NoError(t, repo.Ensure(ctx, &entity.Chat{ListingID: "l1", MarketplaceID: "grinnell"}))
	require.NoError(t, repo.Ensure(ctx, &entity.Chat{ListingID: "l1", MarketplaceID: "other"}))

	for _, body := range []string{"one", "two", "three"} {
		require.NoError(t, repo.AppendMessage(ctx, "l1", &entity.Message{SenderID: "u", Body: body}))
	}

	msgs, err := repo.ListMessages(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Body)
	assert.Equal(t, "three", msgs[2].Body)

	chat, err := repo.GetByListing(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "grinnell", chat.MarketplaceID)
}

func TestTreeAuditNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewTreeAuditRepository(treestore.NewMemoryStore())
	for _, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, repo.Record(ctx, &entity.AuditEntry{ReportID: id, Outcome: entity.AuditOutcomeDeleted}))
	}

	entries, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "r3", entries[0].ReportID)
	assert.Equal(t, "r2", entries[1].ReportID)
}
