package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"cloud-quote/internal/errors"
	"cloud-quote/internal/logging"
)

// FileStore keeps one JSON file per snapshot, under a directory per quote
type FileStore struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStore creates a file store
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.Config("failed to create history directory", err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) Save(ctx context.Context, snapshot *Snapshot) error {
	if err := prepare(snapshot); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	quoteDir := filepath.Join(s.basePath, snapshot.QuoteID)
	if err := os.MkdirAll(quoteDir, 0755); err != nil {
		return errors.Internal("failed to create quote directory", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.Internal("failed to marshal snapshot", err)
	}
	if err := os.WriteFile(filepath.Join(quoteDir, snapshot.ID+".json"), data, 0644); err != nil {
		return errors.Internal("failed to write snapshot", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return read(path)
}

func (s *FileStore) List(ctx context.Context, filter *ListFilter) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshots []*Snapshot
	err := filepath.Walk(s.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		snapshot, err := read(path)
		if err != nil {
			logging.Warn("skipping unreadable snapshot", zap.String("path", path))
			return nil
		}
		if filter.accepts(snapshot) {
			snapshots = append(snapshots, snapshot)
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, errors.Internal("failed to list snapshots", err)
	}
	return filter.page(snapshots), nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.find(id)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) find(id string) (string, error) {
	dirs, err := os.ReadDir(s.basePath)
	if err != nil {
		return "", errors.Internal("failed to read history", err)
	}
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		path := filepath.Join(s.basePath, dir.Name(), id+".json")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.NotFound("snapshot", id)
}

func read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Internal("failed to read snapshot", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.Parsing("failed to unmarshal snapshot", err)
	}
	return &snapshot, nil
}
