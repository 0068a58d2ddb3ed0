package storage

import (
	"context"
	"sync"
)

// MemoryRepository is an in-process Repository. It backs tests and
// throwaway sessions where nothing should outlive the process.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.items[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (r *MemoryRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = append([]byte(nil), value...)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, key)
	return nil
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[string][]byte)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context) (map[string][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string][]byte, len(r.items))
	for k, v := range r.items {
		result[k] = append([]byte(nil), v...)
	}
	return result, nil
}
