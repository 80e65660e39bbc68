// Package storage persists uploaded photo files on local disk. The fraud
// core only needs the byte stream back; anything fancier (object storage,
// CDN) sits behind the same Save/Remove surface.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type LocalStore struct {
	dir          string
	maxSizeBytes int64
}

func NewLocalStore(dir string, maxSizeBytes int64) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, maxSizeBytes: maxSizeBytes}, nil
}

func (s *LocalStore) MaxSizeBytes() int64 {
	return s.maxSizeBytes
}

// Save writes the file under a uuid name, keeping only the original
// extension. Returns the stored path.
func (s *LocalStore) Save(data []byte, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}
	return path, nil
}

func (s *LocalStore) Remove(path string) error {
	// Refuse paths outside the store directory.
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(s.dir) {
		return fmt.Errorf("path %q is outside the upload directory", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) Read(path string) ([]byte, error) {
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(s.dir) {
		return nil, fmt.Errorf("path %q is outside the upload directory", path)
	}
	return os.ReadFile(path)
}
