package repository

import (
	"context"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/infrastructure/treestore"
)

type treeTransactionRepository struct {
	store treestore.Store
}

func NewTreeTransactionRepository(store treestore.Store) repository.TransactionRepository {
	return &treeTransactionRepository{store: store}
}

func (r *treeTransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	tx.TransactionID = ""
	key, err := r.store.Push(ctx, transactionRoot, tx)
	if err != nil {
		return writeFailed("Transaction", err)
	}
	tx.TransactionID = key
	return writeFailed("Transaction", r.store.Update(ctx, treestore.Join(transactionRoot, key),
		map[string]interface{}{"TransactionID": key}))
}

func (r *treeTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	if err := checkKey(id, "Transaction"); err != nil {
		return nil, err
	}
	var tx entity.Transaction
	if err := read(ctx, r.store, treestore.Join(transactionRoot, id), &tx, "Transaction"); err != nil {
		return nil, err
	}
	tx.TransactionID = id
	return &tx, nil
}

func (r *treeTransactionRepository) ListByListing(ctx context.Context, listingID string) ([]*entity.Transaction, error) {
	all, err := readChildren[entity.Transaction](ctx, r.store, transactionRoot, "Transaction")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Transaction, 0)
	for _, id := range sortedKeys(all) {
		tx := all[id]
		tx.TransactionID = id
		if listingID == "" || tx.ListingID == listingID {
			out = append(out, tx)
		}
	}
	return out, nil
}
