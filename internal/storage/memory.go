// ABOUTME: In-process article store
// ABOUTME: Holds both slots in memory; contents are lost when the process exits

package storage

import (
	"context"
	"sync"

	"github.com/harper/newsdesk/internal/models"
)

// MemoryStore keeps collections in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]models.Article
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]models.Article)}
}

func (s *MemoryStore) get(slot string) []models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	articles := s.slots[slot]
	if len(articles) == 0 {
		return nil
	}
	return models.CloneAll(articles)
}

func (s *MemoryStore) put(slot string, articles []models.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if articles == nil {
		articles = []models.Article{}
	}
	s.slots[slot] = models.CloneAll(articles)
}

// Load returns the saved collection.
func (s *MemoryStore) Load(_ context.Context) ([]models.Article, error) {
	return s.get(SlotCurrent), nil
}

// Save replaces the saved collection.
func (s *MemoryStore) Save(_ context.Context, articles []models.Article) error {
	s.put(SlotCurrent, articles)
	return nil
}

// Clear drops the saved collection.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, SlotCurrent)
	return nil
}

// LoadOriginal returns the snapshot.
func (s *MemoryStore) LoadOriginal(_ context.Context) ([]models.Article, error) {
	return s.get(SlotOriginal), nil
}

// SaveOriginal writes the snapshot.
func (s *MemoryStore) SaveOriginal(_ context.Context, articles []models.Article) error {
	s.put(SlotOriginal, articles)
	return nil
}

// Name returns "memory".
func (s *MemoryStore) Name() string { return "memory" }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
