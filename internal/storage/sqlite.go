// ABOUTME: SQLite article store using modernc.org/sqlite (pure Go)
// ABOUTME: Keeps both slots in one table ordered by position

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/harper/newsdesk/internal/models"
)

var sqliteQueries = sqlQueries{
	selectSlot: `SELECT title, author, description, published_at, source_name, url
		FROM articles WHERE slot = ? ORDER BY position`,
	deleteSlot: `DELETE FROM articles WHERE slot = ?`,
	insert: `INSERT INTO articles (slot, position, title, author, description, published_at, source_name, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
}

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS articles (
			slot TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			author TEXT,
			description TEXT NOT NULL DEFAULT '',
			published_at TEXT NOT NULL DEFAULT '',
			source_name TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (slot, position)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the saved collection.
func (s *SQLiteStore) Load(ctx context.Context) ([]models.Article, error) {
	return loadSlot(ctx, s.db, sqliteQueries, SlotCurrent)
}

// Save replaces the saved collection in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, articles []models.Article) error {
	return replaceSlot(ctx, s.db, sqliteQueries, SlotCurrent, articles)
}

// Clear deletes the saved collection.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return deleteSlot(ctx, s.db, sqliteQueries, SlotCurrent)
}

// LoadOriginal returns the snapshot.
func (s *SQLiteStore) LoadOriginal(ctx context.Context) ([]models.Article, error) {
	return loadSlot(ctx, s.db, sqliteQueries, SlotOriginal)
}

// SaveOriginal writes the snapshot.
func (s *SQLiteStore) SaveOriginal(ctx context.Context, articles []models.Article) error {
	return replaceSlot(ctx, s.db, sqliteQueries, SlotOriginal, articles)
}

// Name returns "sqlite".
func (s *SQLiteStore) Name() string { return "sqlite" }

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
