package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore is a CollectionStore backed by a local directory, one JSON file
// per collection. It serves the CLI, which has no AWS dependency.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating it if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// GetCollection reads one collection file
func (f *FileStore) GetCollection(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}
	return data, nil
}

// PutCollection replaces one collection file
func (f *FileStore) PutCollection(_ context.Context, key string, data []byte) error {
	if err := os.WriteFile(filepath.Join(f.dir, key), data, 0o644); err != nil {
		return fmt.Errorf("failed to write collection file: %w", err)
	}
	return nil
}
