package repository

import (
	"context"
	stderrors "errors"
	"strings"

	"reuseu/internal/domain/entity"
	"reuseu/internal/domain/repository"
	"reuseu/internal/infrastructure/treestore"
	"reuseu/pkg/errors"
)

type treeAccountRepository struct {
	store treestore.Store
}

func NewTreeAccountRepository(store treestore.Store) repository.AccountRepository {
	return &treeAccountRepository{store: store}
}

func (r *treeAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	if !treestore.ValidKey(account.UserID) {
		return errors.Validation("UserID is not a valid key")
	}
	err := r.store.Create(ctx, treestore.Join(accountRoot, account.UserID), account)
	if stderrors.Is(err, treestore.ErrExists) {
		return errors.Conflict("Account already exists")
	}
	return writeFailed("Account", err)
}

func (r *treeAccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	if err := checkKey(id, "Account"); err != nil {
		return nil, err
	}
	var account entity.Account
	if err := read(ctx, r.store, treestore.Join(accountRoot, id), &account, "Account"); err != nil {
		return nil, err
	}
	if account.UserID == "" {
		account.UserID = id
	}
	return &account, nil
}

func (r *treeAccountRepository) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.NotFound("Account", nil)
	}
	accounts, err := readChildren[entity.Account](ctx, r.store, accountRoot, "Account")
	if err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(accounts) {
		a := accounts[id]
		if strings.EqualFold(a.Username, username) {
			if a.UserID == "" {
				a.UserID = id
			}
			return a, nil
		}
	}
	return nil, errors.NotFound("Account", nil)
}

func (r *treeAccountRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	return writeFailed("Account", r.store.Update(ctx, treestore.Join(accountRoot, id), fields))
}

func (r *treeAccountRepository) SetMarketplace(ctx context.Context, id, marketplaceID string) error {
	if err := checkKey(id, "Account"); err != nil {
		return err
	}
	return writeFailed("Account", r.store.Update(ctx, treestore.Join(accountRoot, id),
		map[string]interface{}{"marketplace_id": marketplaceID}))
}

func (r *treeAccountRepository) SetFavorites(ctx context.Context, id string, favorites []string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	var value interface{}
	if len(favorites) > 0 {
		value = favorites
	}
	return writeFailed("Account", r.store.Set(ctx, treestore.Join(accountRoot, id, "Favorites"), value))
}

func (r *treeAccountRepository) SetProfileImage(ctx context.Context, id, key string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return writeFailed("Account", r.store.Update(ctx, treestore.Join(accountRoot, id),
		map[string]interface{}{"pfp_key": key}))
}

func (r *treeAccountRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return writeFailed("Account", r.store.Delete(ctx, treestore.Join(accountRoot, id)))
}
