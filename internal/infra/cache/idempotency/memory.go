package idempotency

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore ключи идемпотентности в памяти процесса (без TTL)
type MemoryStore struct {
	mu   sync.Mutex
	keys map[string]int64
}

// NewMemoryStore создает пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string]int64)}
}

// Reserve резервирует ключ; 0 означает, что запрос еще выполняется
func (s *MemoryStore) Reserve(_ context.Context, userID int64, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := fmt.Sprintf(KeyOrderCreate, userID, key)
	orderID, ok := s.keys[k]
	if !ok {
		s.keys[k] = 0
		return 0, true, nil
	}
	if orderID == 0 {
		return 0, false, ErrInProgress
	}
	return orderID, false, nil
}

// Bind привязывает ключ к заказу
func (s *MemoryStore) Bind(_ context.Context, userID int64, key string, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[fmt.Sprintf(KeyOrderCreate, userID, key)] = orderID
	return nil
}

// Release снимает резерв
func (s *MemoryStore) Release(_ context.Context, userID int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, fmt.Sprintf(KeyOrderCreate, userID, key))
	return nil
}
