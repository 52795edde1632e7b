// ABOUTME: Storage interface for the article store
// ABOUTME: Defines the load/save/clear contract plus the original-snapshot slot

package storage

import (
	"context"

	"github.com/harper/newsdesk/internal/models"
)

// Slot names shared by every backend.
const (
	SlotCurrent  = "current"
	SlotOriginal = "original"
)

// Store persists an ordered article collection. Every backend keeps two
// slots: the user's saved collection and the original snapshot.
// Absent or empty slots load as a nil slice and a nil error.
type Store interface {
	// Load returns the saved collection in order.
	Load(ctx context.Context) ([]models.Article, error)

	// Save replaces the saved collection wholesale.
	Save(ctx context.Context, articles []models.Article) error

	// Clear removes the saved collection. The original snapshot is kept.
	Clear(ctx context.Context) error

	// LoadOriginal returns the original snapshot.
	LoadOriginal(ctx context.Context) ([]models.Article, error)

	// SaveOriginal writes the original snapshot.
	SaveOriginal(ctx context.Context, articles []models.Article) error

	// Name identifies the backend ("memory", "file", "sqlite", ...).
	Name() string

	// Close releases resources held by the backend.
	Close() error
}
