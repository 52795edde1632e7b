// ABOUTME: Charm KV article store using the transactional Do API
// ABOUTME: Short-lived connections per operation; optional sync to the Charm server after writes

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/charm/kv"

	"github.com/harper/newsdesk/internal/models"
)

const (
	// CharmKeyPrefix namespaces article keys in the KV database.
	CharmKeyPrefix = "articles:"

	// DefaultCharmHost is used when CHARM_HOST is unset.
	DefaultCharmHost = "charm.2389.dev"

	// DefaultCharmDB is the default KV database name.
	DefaultCharmDB = "newsdesk"
)

// CharmStore keeps each slot as a JSON array under its own key.
// It does not hold a connection; every call opens and closes the database.
type CharmStore struct {
	dbName   string
	autoSync bool
}

var _ Store = (*CharmStore)(nil)

// NewCharmStore creates a store on the named KV database.
func NewCharmStore(dbName string, autoSync bool) *CharmStore {
	if os.Getenv("CHARM_HOST") == "" {
		os.Setenv("CHARM_HOST", DefaultCharmHost)
	}
	if dbName == "" {
		dbName = DefaultCharmDB
	}
	return &CharmStore{dbName: dbName, autoSync: autoSync}
}

func charmKey(slot string) []byte {
	return []byte(CharmKeyPrefix + slot)
}

// do runs fn with write access, syncing afterwards when auto-sync is on.
func (s *CharmStore) do(fn func(k *kv.KV) error) error {
	return kv.Do(s.dbName, func(k *kv.KV) error {
		if err := fn(k); err != nil {
			return err
		}
		if s.autoSync {
			return k.Sync()
		}
		return nil
	})
}

func hasKey(k *kv.KV, key []byte) (bool, error) {
	keys, err := k.Keys()
	if err != nil {
		return false, fmt.Errorf("list keys: %w", err)
	}
	for _, existing := range keys {
		if bytes.Equal(existing, key) {
			return true, nil
		}
	}
	return false, nil
}

func (s *CharmStore) load(slot string) ([]models.Article, error) {
	var articles []models.Article
	err := kv.DoReadOnly(s.dbName, func(k *kv.KV) error {
		key := charmKey(slot)
		ok, err := hasKey(k, key)
		if err != nil || !ok {
			return err
		}
		data, err := k.Get(key)
		if err != nil {
			return fmt.Errorf("get %s articles: %w", slot, err)
		}
		if len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, &articles)
	})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}
	return articles, nil
}

func (s *CharmStore) put(slot string, articles []models.Article) error {
	if articles == nil {
		articles = []models.Article{}
	}
	data, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("marshal %s articles: %w", slot, err)
	}
	return s.do(func(k *kv.KV) error {
		return k.Set(charmKey(slot), data)
	})
}

// Load returns the saved collection.
func (s *CharmStore) Load(_ context.Context) ([]models.Article, error) {
	return s.load(SlotCurrent)
}

// Save replaces the saved collection.
func (s *CharmStore) Save(_ context.Context, articles []models.Article) error {
	return s.put(SlotCurrent, articles)
}

// Clear deletes the saved collection key.
func (s *CharmStore) Clear(_ context.Context) error {
	return s.do(func(k *kv.KV) error {
		key := charmKey(SlotCurrent)
		ok, err := hasKey(k, key)
		if err != nil || !ok {
			return err
		}
		return k.Delete(key)
	})
}

// LoadOriginal returns the snapshot.
func (s *CharmStore) LoadOriginal(_ context.Context) ([]models.Article, error) {
	return s.load(SlotOriginal)
}

// SaveOriginal writes the snapshot.
func (s *CharmStore) SaveOriginal(_ context.Context, articles []models.Article) error {
	return s.put(SlotOriginal, articles)
}

// Name returns "charm".
func (s *CharmStore) Name() string { return "charm" }

// Close is a no-op; connections close after each operation.
func (s *CharmStore) Close() error { return nil }
