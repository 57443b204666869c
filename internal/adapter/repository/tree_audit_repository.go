package repository

import (
	"context"
	"time"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/infrastructure/treestore"
)

// treeAuditRepository keeps the audit log in the tree store, for deployments
// without Firestore.
type treeAuditRepository struct {
	store treestore.Store
}

func NewTreeAuditRepository(store treestore.Store) repository.AuditRepository {
	return &treeAuditRepository{store: store}
}

func (r *treeAuditRepository) Record(ctx context.Context, entry *entity.AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	key, err := r.store.Push(ctx, auditRoot, entry)
	if err != nil {
		return writeFailed("Audit entry", err)
	}
	entry.ID = key
	return nil
}

func (r *treeAuditRepository) List(ctx context.Context, limit int) ([]*entity.AuditEntry, error) {
	all, err := readChildren[entity.AuditEntry](ctx, r.store, auditRoot, "Audit entry")
	if err != nil {
		return nil, err
	}
	keys := sortedKeys(all)
	out := make([]*entity.AuditEntry, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		e := all[keys[i]]
		e.ID = keys[i]
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
