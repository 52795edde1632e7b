// ABOUTME: File-backed article store using one YAML document per slot
// ABOUTME: Writes atomically via temp file and rename so readers never see partial files

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harper/newsdesk/internal/models"
)

const (
	currentFilename  = "articles.yaml"
	originalFilename = "original.yaml"
)

// FileStore persists collections as YAML files under a data directory.
type FileStore struct {
	dataDir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file store rooted at dataDir, creating it if needed.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dataDir: dataDir}, nil
}

func (s *FileStore) path(slot string) string {
	if slot == SlotOriginal {
		return filepath.Join(s.dataDir, originalFilename)
	}
	return filepath.Join(s.dataDir, currentFilename)
}

func (s *FileStore) read(slot string) ([]models.Article, error) {
	data, err := os.ReadFile(s.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", slot, err)
	}

	var articles []models.Article
	if err := yaml.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path(slot), err)
	}
	if len(articles) == 0 {
		return nil, nil
	}
	return articles, nil
}

func (s *FileStore) write(slot string, articles []models.Article) error {
	if articles == nil {
		articles = []models.Article{}
	}
	data, err := yaml.Marshal(articles)
	if err != nil {
		return fmt.Errorf("encode %s: %w", slot, err)
	}
	return atomicWrite(s.path(slot), data)
}

// Load returns the saved collection.
func (s *FileStore) Load(_ context.Context) ([]models.Article, error) {
	return s.read(SlotCurrent)
}

// Save replaces the saved collection file.
func (s *FileStore) Save(_ context.Context, articles []models.Article) error {
	return s.write(SlotCurrent, articles)
}

// Clear removes the saved collection file.
func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path(SlotCurrent))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove saved articles: %w", err)
	}
	return nil
}

// LoadOriginal returns the snapshot.
func (s *FileStore) LoadOriginal(_ context.Context) ([]models.Article, error) {
	return s.read(SlotOriginal)
}

// SaveOriginal writes the snapshot file.
func (s *FileStore) SaveOriginal(_ context.Context, articles []models.Article) error {
	return s.write(SlotOriginal, articles)
}

// Name returns "file".
func (s *FileStore) Name() string { return "file" }

// Close is a no-op for FileStore.
func (s *FileStore) Close() error { return nil }

// atomicWrite writes data to a temp file in the target directory and renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
