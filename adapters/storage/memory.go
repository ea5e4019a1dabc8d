package storage

import (
	"context"
	"sync"

	"cloud-quote/internal/errors"
)

// MemoryStore is an in-memory storage backend
type MemoryStore struct {
	snapshots map[string]*Snapshot
	mu        sync.RWMutex
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]*Snapshot),
	}
}

func (s *MemoryStore) Save(ctx context.Context, snapshot *Snapshot) error {
	if err := prepare(snapshot); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snapshot.ID] = snapshot
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[id]
	if !ok {
		return nil, errors.NotFound("snapshot", id)
	}
	return snapshot, nil
}

func (s *MemoryStore) List(ctx context.Context, filter *ListFilter) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshots []*Snapshot
	for _, snapshot := range s.snapshots {
		if filter.accepts(snapshot) {
			snapshots = append(snapshots, snapshot)
		}
	}
	return filter.page(snapshots), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[id]; !ok {
		return errors.NotFound("snapshot", id)
	}
	delete(s.snapshots, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
