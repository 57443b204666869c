// Package treestore is the path-addressed hierarchical key-value store that
// holds every durable entity. Paths are slash-separated child keys
// ("Account/uid-1/Favorites").
package treestore

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by Get when nothing is stored at the path.
	ErrNotFound = errors.New("treestore: no value at path")
	// ErrExists is returned by Create when the path already holds a value.
	ErrExists = errors.New("treestore: value already exists at path")
)

// Store is the contract the repositories depend on.
//
// Delete is idempotent. Writing a nil value, at any path or inside Update
// and Batch maps, deletes that path. Children that become empty disappear.
type Store interface {
	Get(ctx context.Context, path string, v interface{}) error
	Set(ctx context.Context, path string, v interface{}) error
	// Update merges the given children (relative paths allowed) into path.
	Update(ctx context.Context, path string, children map[string]interface{}) error
	Delete(ctx context.Context, path string) error
	// Push stores v under a new store-generated child key of path and
	// returns the key. Keys sort in creation order.
	Push(ctx context.Context, path string, v interface{}) (string, error)
	// Create stores v at path only if nothing is there yet.
	Create(ctx context.Context, path string, v interface{}) error
	// Batch applies every path/value pair atomically: all or nothing.
	Batch(ctx context.Context, updates map[string]interface{}) error
}

// Join builds a path from keys.
func Join(keys ...string) string {
	return strings.Join(keys, "/")
}

// ValidKey reports whether k can be used as a single child key. Keys that
// would address a different path, or that the database rejects, are not
// valid.
func ValidKey(k string) bool {
	if k == "" || len(k) > 768 {
		return false
	}
	return !strings.ContainsAny(k, "./$#[]") && k != ".."
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
