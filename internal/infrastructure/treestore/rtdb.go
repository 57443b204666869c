package treestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/db"
)

// RealtimeStore is the Firebase Realtime Database backend.
type RealtimeStore struct {
	client *db.Client
}

func NewRealtimeStore(client *db.Client) *RealtimeStore {
	return &RealtimeStore{client: client}
}

func (s *RealtimeStore) ref(path string) *db.Ref {
	return s.client.NewRef("/" + strings.Trim(path, "/"))
}

func (s *RealtimeStore) Get(ctx context.Context, path string, v interface{}) error {
	var raw json.RawMessage
	if err := s.ref(path).Get(ctx, &raw); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return ErrNotFound
	}
	return json.Unmarshal(raw, v)
}

func (s *RealtimeStore) Set(ctx context.Context, path string, v interface{}) error {
	if v == nil {
		return s.Delete(ctx, path)
	}
	if err := s.ref(path).Set(ctx, v); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (s *RealtimeStore) Update(ctx context.Context, path string, children map[string]interface{}) error {
	if len(children) == 0 {
		return fmt.Errorf("treestore: update of %q with no children", path)
	}
	if err := s.ref(path).Update(ctx, children); err != nil {
		return fmt.Errorf("updating %s: %w", path, err)
	}
	return nil
}

func (s *RealtimeStore) Delete(ctx context.Context, path string) error {
	if err := s.ref(path).Delete(ctx); err != nil {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	return nil
}

func (s *RealtimeStore) Push(ctx context.Context, path string, v interface{}) (string, error) {
	child, err := s.ref(path).Push(ctx, v)
	if err != nil {
		return "", fmt.Errorf("pushing to %s: %w", path, err)
	}
	return child.Key, nil
}

// Create runs as a transaction so two concurrent creators cannot both win.
func (s *RealtimeStore) Create(ctx context.Context, path string, v interface{}) error {
	err := s.ref(path).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var current interface{}
		if err := node.Unmarshal(&current); err != nil {
			return nil, err
		}
		if current != nil {
			return nil, ErrExists
		}
		return v, nil
	})
	if errors.Is(err, ErrExists) {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}

// Batch is a multi-path update at the root, which the database applies
// atomically.
func (s *RealtimeStore) Batch(ctx context.Context, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	rooted := make(map[string]interface{}, len(updates))
	for p, v := range updates {
		rooted[strings.Trim(p, "/")] = v
	}
	if err := s.client.NewRef("/").Update(ctx, rooted); err != nil {
		return fmt.Errorf("batch update: %w", err)
	}
	return nil
}
