package treestore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryStore keeps the tree in process. Values are normalized through JSON
// the same way the Realtime Database would store them, so reads never alias
// caller data.
type MemoryStore struct {
	mu   sync.RWMutex
	root map[string]interface{}
	seq  atomic.Uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: make(map[string]interface{})}
}

func (s *MemoryStore) Get(ctx context.Context, path string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	node, ok := lookup(s.root, splitPath(path))
	var data []byte
	var err error
	if ok {
		data, err = json.Marshal(node)
	}
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *MemoryStore) Set(ctx context.Context, path string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	node, err := normalize(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(splitPath(path), node)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, path string, children map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(children) == 0 {
		return fmt.Errorf("treestore: update of %q with no children", path)
	}
	base := splitPath(path)
	normalized, err := normalizeAll(children, base)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range normalized {
		s.write(w.keys, w.node)
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(splitPath(path), nil)
	return nil
}

func (s *MemoryStore) Push(ctx context.Context, path string, v interface{}) (string, error) {
	key := fmt.Sprintf("-%011x%08x", time.Now().UnixMilli(), s.seq.Add(1))
	if err := s.Set(ctx, Join(path, key), v); err != nil {
		return "", err
	}
	return key, nil
}

func (s *MemoryStore) Create(ctx context.Context, path string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	node, err := normalize(v)
	if err != nil {
		return err
	}
	keys := splitPath(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := lookup(s.root, keys); ok {
		return ErrExists
	}
	s.write(keys, node)
	return nil
}

func (s *MemoryStore) Batch(ctx context.Context, updates map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	normalized, err := normalizeAll(updates, nil)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range normalized {
		s.write(w.keys, w.node)
	}
	return nil
}

type pendingWrite struct {
	keys []string
	node interface{}
}

func normalizeAll(children map[string]interface{}, base []string) ([]pendingWrite, error) {
	out := make([]pendingWrite, 0, len(children))
	for rel, v := range children {
		node, err := normalize(v)
		if err != nil {
			return nil, err
		}
		keys := append(append([]string{}, base...), splitPath(rel)...)
		out = append(out, pendingWrite{keys: keys, node: node})
	}
	return out, nil
}

// write must be called with mu held. A nil node deletes.
func (s *MemoryStore) write(keys []string, node interface{}) {
	if len(keys) == 0 {
		if m, ok := node.(map[string]interface{}); ok {
			s.root = m
		} else {
			s.root = make(map[string]interface{})
		}
		return
	}

	parents := make([]map[string]interface{}, 0, len(keys))
	cur := s.root
	for _, k := range keys[:len(keys)-1] {
		parents = append(parents, cur)
		next, ok := cur[k].(map[string]interface{})
		if !ok {
			if node == nil {
				return
			}
			next = make(map[string]interface{})
			cur[k] = next
		}
		cur = next
	}

	last := keys[len(keys)-1]
	if node == nil {
		delete(cur, last)
	} else {
		cur[last] = node
	}

	// Drop parents left empty, as the database does.
	for i := len(parents) - 1; i >= 0; i-- {
		child := parents[i][keys[i]].(map[string]interface{})
		if len(child) > 0 {
			break
		}
		delete(parents[i], keys[i])
	}
}

func lookup(root map[string]interface{}, keys []string) (interface{}, bool) {
	if len(keys) == 0 {
		if len(root) == 0 {
			return nil, false
		}
		return root, true
	}
	var cur interface{} = root
	for _, k := range keys {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = m[k]; !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

func normalize(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("treestore: encoding value: %w", err)
	}
	var node interface{}
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("treestore: decoding value: %w", err)
	}
	return prune(node), nil
}

func prune(node interface{}) interface{} {
	if arr, ok := node.([]interface{}); ok && len(arr) == 0 {
		return nil
	}
	m, ok := node.(map[string]interface{})
	if !ok {
		return node
	}
	for k, child := range m {
		if child = prune(child); child == nil {
			delete(m, k)
		} else {
			m[k] = child
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
