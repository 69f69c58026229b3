package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used for tests and ephemeral sessions
type MemoryStore struct {
	mu       sync.RWMutex
	invoices map[string][]byte
	global   []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{invoices: make(map[string][]byte)}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Put(ctx context.Context, key string, doc []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[key] = clone(doc)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.invoices[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(doc), nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.invoices, key)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.invoices))
	for k := range s.invoices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	docs := make([][]byte, 0, len(keys))
	for _, k := range keys {
		docs = append(docs, clone(s.invoices[k]))
	}
	return docs, nil
}

func (s *MemoryStore) GetGlobal(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.global == nil {
		return nil, ErrNotFound
	}
	return clone(s.global), nil
}

func (s *MemoryStore) PutGlobal(ctx context.Context, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = clone(doc)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
