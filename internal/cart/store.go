package cart

import (
	"context"
	"sync"
)

// Store is the single source of truth for one cart: a mutable list of line
// items bound to a storage slot. Every mutator persists synchronously before
// returning, so storage never disagrees with memory once a call completes.
// Derived reads are recomputed from current lines on every call.
type Store struct {
	mu      sync.Mutex
	key     string
	storage Storage
	lines   []LineItem
}

// Open rehydrates a cart from storage. Missing or malformed persisted data
// falls back to an empty cart; only a storage transport failure is an error.
func Open(ctx context.Context, storage Storage, key string) (*Store, error) {
	lines, err := storage.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return &Store{key: key, storage: storage, lines: lines}, nil
}

// AddItem merges the item into the cart. The quantity is coerced to at least
// 1; malformed input is never rejected.
func (s *Store) AddItem(ctx context.Context, item LineItem, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ctx, Add(s.lines, item, qty))
}

// UpdateQuantity sets the quantity for the product id; quantities below 1
// and unknown ids are no-ops.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ctx, SetQuantity(s.lines, productID, qty))
}

// RemoveItem deletes the line if present; idempotent.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ctx, Remove(s.lines, productID))
}

// Clear empties the cart, used after a completed order.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ctx, nil)
}

// apply persists the next state and only then commits it to memory, so a
// failed save leaves the previous state observable everywhere.
func (s *Store) apply(ctx context.Context, next []LineItem) error {
	if err := s.storage.Save(ctx, s.key, next); err != nil {
		return err
	}
	s.lines = next
	return nil
}

// Items returns a copy of the current lines.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total is the sum of unit price times quantity over current lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.lines)
}

// ItemCount is the sum of quantities, used for the cart badge.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ItemCount(s.lines)
}
