package repository

import (
	"context"
	stderrors "errors"
	"sort"

	"reuseu/internal/infrastructure/treestore"
	"reuseu/pkg/errors"
)

const (
	accountRoot     = "Account"
	listingRoot     = "Listing"
	reviewRoot      = "Review"
	reportRoot      = "Report"
	chatRoot        = "Chat"
	transactionRoot = "Transaction"
	auditRoot       = "Audit"
)

// read loads path into v, classifying absence as NOT_FOUND for resource.
func read(ctx context.Context, store treestore.Store, path string, v interface{}, resource string) error {
	err := store.Get(ctx, path, v)
	if stderrors.Is(err, treestore.ErrNotFound) {
		return errors.NotFound(resource, err)
	}
	if err != nil {
		return errors.Upstream("Failed to read "+resource, err)
	}
	return nil
}

// readChildren loads every child of root keyed by its child key. An empty
// root yields an empty map.
func readChildren[T any](ctx context.Context, store treestore.Store, root, resource string) (map[string]*T, error) {
	children := make(map[string]*T)
	err := store.Get(ctx, root, &children)
	if stderrors.Is(err, treestore.ErrNotFound) {
		return map[string]*T{}, nil
	}
	if err != nil {
		return nil, errors.Upstream("Failed to read "+resource, err)
	}
	for k, v := range children {
		if v == nil {
			delete(children, k)
		}
	}
	return children, nil
}

func sortedKeys[T any](m map[string]*T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkKey(id, resource string) error {
	if !treestore.ValidKey(id) {
		return errors.NotFound(resource, nil)
	}
	return nil
}

func writeFailed(resource string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Upstream("Failed to write "+resource, err)
}
