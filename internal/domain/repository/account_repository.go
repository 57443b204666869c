package repository

import (
	"context"

	"reuseu/internal/domain/entity"
)

type AccountRepository interface {
	// Create fails with CONFLICT when an account already exists for the id.
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	// SetMarketplace writes only the marketplace id and may be repeated.
	SetMarketplace(ctx context.Context, id, marketplaceID string) error
	SetFavorites(ctx context.Context, id string, favorites []string) error
	SetProfileImage(ctx context.Context, id, key string) error
	Delete(ctx context.Context, id string) error
}
