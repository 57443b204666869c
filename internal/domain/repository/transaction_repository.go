package repository

import (
	"context"

	"reuseu/internal/domain/entity"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	ListByListing(ctx context.Context, listingID string) ([]*entity.Transaction, error)
}

type AuditRepository interface {
	Record(ctx context.Context, entry *entity.AuditEntry) error
	// List returns the newest entries first.
	List(ctx context.Context, limit int) ([]*entity.AuditEntry, error)
}
