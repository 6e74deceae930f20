package cart

import (
	"context"
	"sync"
)

// Storage persists a serialized cart under a single slot per key.
// Concurrent writers to the same key are last-write-wins; no merge is
// attempted across writers.
type Storage interface {
	Load(ctx context.Context, key string) ([]LineItem, error)
	Save(ctx context.Context, key string, lines []LineItem) error
	Delete(ctx context.Context, key string) error
}

// MemoryStorage keeps carts in process memory. Used in tests and as a
// fallback when Redis is not configured.
type MemoryStorage struct {
	mu    sync.RWMutex
	carts map[string][]LineItem
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: make(map[string][]LineItem)}
}

func (s *MemoryStorage) Load(_ context.Context, key string) ([]LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines, ok := s.carts[key]
	if !ok {
		return nil, nil
	}
	out := make([]LineItem, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *MemoryStorage) Save(_ context.Context, key string, lines []LineItem) error {
	stored := make([]LineItem, len(lines))
	copy(stored, lines)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[key] = stored
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
	return nil
}
