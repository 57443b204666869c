package storage

import (
	"context"
	"sync"

	"reuseu/pkg/errors"
)

// MemoryBlobStore keeps objects in process.
type MemoryBlobStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{objects: make(map[string][]byte)}
}

func (m *MemoryBlobStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	name := objectName(key, contentType)
	cp := append([]byte(nil), data...)
	m.mu.Lock()
	m.objects[name] = cp
	m.mu.Unlock()
	return name, nil
}

func (m *MemoryBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	data, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("Object", nil)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryBlobStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Len reports how many objects are stored.
func (m *MemoryBlobStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
