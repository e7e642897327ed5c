package cache

import (
	"fmt"
	"sync"

	werrors "github.com/cristianoliveira/wardlink/internal/errors"
)

// MemoryStore is an in-process Store. It is the default backend and the one
// used by tests; contents are lost when the process exits.
type MemoryStore struct {
	mu         sync.RWMutex
	partitions map[string]map[string]*Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{partitions: make(map[string]map[string]*Entry)}
}

func (s *MemoryStore) Get(partition, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.partitions[partition]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", werrors.ErrCacheMiss, partition, key)
	}
	e, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", werrors.ErrCacheMiss, partition, key)
	}
	return e.clone(), nil
}

func (s *MemoryStore) Put(partition, key string, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partitions[partition]
	if !ok {
		p = make(map[string]*Entry)
		s.partitions[partition] = p
	}
	p[key] = e.clone()
	return nil
}

func (s *MemoryStore) Delete(partition, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.partitions[partition]; ok {
		delete(p, key)
	}
	return nil
}

func (s *MemoryStore) DeletePartition(partition string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.partitions, partition)
	return nil
}

func (s *MemoryStore) Partitions() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.partitions))
	for name, p := range s.partitions {
		if len(p) > 0 {
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *MemoryStore) Len(partition string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.partitions[partition]), nil
}

func (s *MemoryStore) Close() error { return nil }

// clone copies an entry so callers cannot mutate stored state.
func (e *Entry) clone() *Entry {
	if e == nil {
		return nil
	}
	c := &Entry{Status: e.Status, StoredAt: e.StoredAt}
	c.Body = append([]byte(nil), e.Body...)
	c.Header = e.Header.Clone()
	return c
}
