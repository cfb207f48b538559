// Package storage persists the task list under a single key in a key-value
// backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"todolist/internal/config"
	"todolist/internal/models"
)

// ErrNotFound is returned when nothing has been stored under a key yet.
var ErrNotFound = errors.New("key not found")

// Storage defines the persistence port used by the todo store.
type Storage interface {
	// Load returns the persisted task list. It returns ErrNotFound when no list
	// has been saved yet.
	Load(ctx context.Context) ([]models.Task, error)
	// Save replaces the persisted task list.
	Save(ctx context.Context, tasks []models.Task) error

	// Lifecycle
	Close() error
}

// Backend is a raw key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// TaskStorage implements Storage by encoding the task list as a JSON array
// stored under one key of a Backend.
type TaskStorage struct {
	backend Backend
	key     string
}

// New wraps backend so the task list is stored under key.
func New(backend Backend, key string) *TaskStorage {
	return &TaskStorage{backend: backend, key: key}
}

// Load reads and decodes the task list.
func (s *TaskStorage) Load(ctx context.Context) ([]models.Task, error) {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}

	tasks, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", s.key, err)
	}
	return tasks, nil
}

// Save encodes and writes the full task list.
func (s *TaskStorage) Save(ctx context.Context, tasks []models.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", s.key, err)
	}
	return s.backend.Put(ctx, s.key, data)
}

// Close closes the underlying backend.
func (s *TaskStorage) Close() error {
	return s.backend.Close()
}

// Open creates the backend selected by cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (*TaskStorage, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Kind {
	case config.StorageMemory:
		backend = NewMemoryBackend()
	case config.StorageFile:
		backend, err = NewFileBackend(cfg.DataDir)
	case config.StorageSQLite:
		if cfg.DBPath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		backend, err = NewSQLiteBackend(ctx, cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown storage kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}

	return New(backend, cfg.Key), nil
}
