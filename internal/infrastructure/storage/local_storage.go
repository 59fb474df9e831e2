// Package storage provides file storage implementations for document
// content.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	docapp "github.com/trackle/backend/internal/application/document"
	"github.com/trackle/backend/internal/domain/shared"
)

// Ensure LocalFileStorage implements FileStorage
var _ docapp.FileStorage = (*LocalFileStorage)(nil)

// LocalFileStorage stores files on the local filesystem under a root
// directory. Keys are relative paths; anything escaping the root is
// rejected.
type LocalFileStorage struct {
	root string
}

// NewLocalFileStorage creates a local storage rooted at the given
// directory, creating it if needed.
func NewLocalFileStorage(root string) (*LocalFileStorage, error) {
	if root == "" {
		root = "public/documents"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalFileStorage{root: root}, nil
}

// Save writes the content under the key and returns the stored path
func (s *LocalFileStorage) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return key, nil
}

// Open returns a reader for the stored file
func (s *LocalFileStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete removes a stored file. Deleting a missing file is not an
// error.
func (s *LocalFileStorage) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks whether a file is stored under the key
func (s *LocalFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *LocalFileStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", shared.ErrInvalidInput
	}
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", shared.ErrInvalidInput
	}
	return filepath.Join(s.root, cleaned), nil
}
