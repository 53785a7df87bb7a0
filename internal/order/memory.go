package order

import (
	"context"
	"sync"
)

// MemoryStore keeps orders for the lifetime of the process. Nothing is evicted.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[int64]PendingOrder
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[int64]PendingOrder),
	}
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (*PendingOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *MemoryStore) Save(ctx context.Context, o *PendingOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.UserID] = *o
	return nil
}

// Len reports how many users have an order on record.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.orders)
}

var _ Store = (*MemoryStore)(nil)
