package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	adapter "reuseu/internal/adapter/repository"
	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/domain/service"
	"reuseu/internal/infrastructure/storage"
	"reuseu/internal/infrastructure/treestore"
)

const (
	umass    = "umass"
	smith    = "smith"
	adminUID = "admin-1"
)

// countingStore records how many operations reached the tree store.
type countingStore struct {
	treestore.Store
	calls atomic.Int64
}

func (s *countingStore) Get(ctx context.Context, path string, v interface{}) error {
	s.calls.Add(1)
	return s.Store.Get(ctx, path, v)
}

func (s *countingStore) Set(ctx context.Context, path string, v interface{}) error {
	s.calls.Add(1)
	return s.Store.Set(ctx, path, v)
}

func (s *countingStore) Update(ctx context.Context, path string, children map[string]interface{}) error {
	s.calls.Add(1)
	return s.Store.Update(ctx, path, children)
}

func (s *countingStore) Delete(ctx context.Context, path string) error {
	s.calls.Add(1)
	return s.Store.Delete(ctx, path)
}

func (s *countingStore) Push(ctx context.Context, path string, v interface{}) (string, error) {
	s.calls.Add(1)
	return s.Store.Push(ctx, path, v)
}

func (s *countingStore) Create(ctx context.Context, path string, v interface{}) error {
	s.calls.Add(1)
	return s.Store.Create(ctx, path, v)
}

func (s *countingStore) Batch(ctx context.Context, updates map[string]interface{}) error {
	s.calls.Add(1)
	return s.Store.Batch(ctx, updates)
}

type fixture struct {
	store        *countingStore
	blobs        *storage.MemoryBlobStore
	admins       *service.AdminGate
	accounts     repository.AccountRepository
	listings     repository.ListingRepository
	reviews      repository.ReviewRepository
	reports      repository.ReportRepository
	cascade      repository.CascadeRepository
	chats        repository.ChatRepository
	transactions repository.TransactionRepository
	audit        repository.AuditRepository
}

func newFixture() *fixture {
	store := &countingStore{Store: treestore.NewMemoryStore()}
	return &fixture{
		store:        store,
		blobs:        storage.NewMemoryBlobStore(),
		admins:       service.NewAdminGate([]string{adminUID}),
		accounts:     adapter.NewTreeAccountRepository(store),
		listings:     adapter.NewTreeListingRepository(store),
		reviews:      adapter.NewTreeReviewRepository(store),
		reports:      adapter.NewTreeReportRepository(store),
		cascade:      adapter.NewTreeCascadeRepository(store),
		chats:        adapter.NewTreeChatRepository(store),
		transactions: adapter.NewTreeTransactionRepository(store),
		audit:        adapter.NewTreeAuditRepository(store),
	}
}

func (f *fixture) listingUseCase() *ListingUseCase {
	return NewListingUseCase(ListingDeps{
		Listings:   f.listings,
		Reports:    f.reports,
		Cascade:    f.cascade,
		Images:     f.blobs,
		Compressor: storage.NewJPEGCompressor(),
		ImageMaxKB: 10,
		Admins:     f.admins,
	})
}

func (f *fixture) reportUseCase() *ReportUseCase {
	return NewReportUseCase(ReportDeps{
		Reports:  f.reports,
		Listings: f.listings,
		Cascade:  f.cascade,
		Images:   f.blobs,
		Audit:    f.audit,
		Admins:   f.admins,
	})
}

func session(uid, marketplace string) entity.Session {
	return entity.Session{SubjectID: uid, MarketplaceID: marketplace}
}

func (f *fixture) seedListing(t *testing.T, owner, marketplace string) *entity.Listing {
	t.Helper()
	l := &entity.Listing{
		UserID:        owner,
		MarketplaceID: marketplace,
		Title:         "Desk lamp",
		Price:         15,
		Categories:    entity.OrdinalMap{"1": "Furniture"},
	}
	require.NoError(t, f.listings.Create(context.Background(), l))
	return l
}

func pngPayload(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
