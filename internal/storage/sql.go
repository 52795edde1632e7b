// ABOUTME: Shared database/sql helpers for the SQLite and PostgreSQL article stores
// ABOUTME: Scans ordered rows into articles and replaces a slot inside one transaction

package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harper/newsdesk/internal/models"
)

// sqlQueries holds the dialect-specific statements for one backend.
type sqlQueries struct {
	selectSlot string // args: slot
	deleteSlot string // args: slot
	insert     string // args: slot, position, title, author, description, published_at, source_name, url
}

func loadSlot(ctx context.Context, db *sql.DB, q sqlQueries, slot string) ([]models.Article, error) {
	rows, err := db.QueryContext(ctx, q.selectSlot, slot)
	if err != nil {
		return nil, fmt.Errorf("query %s articles: %w", slot, err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		var author sql.NullString
		if err := rows.Scan(&a.Title, &author, &a.Description, &a.PublishedAt, &a.Source.Name, &a.URL); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		if author.Valid {
			v := author.String
			a.Author = &v
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, nil
}

func replaceSlot(ctx context.Context, db *sql.DB, q sqlQueries, slot string, articles []models.Article) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, q.deleteSlot, slot); err != nil {
		return fmt.Errorf("delete %s articles: %w", slot, err)
	}

	if len(articles) > 0 {
		stmt, err := tx.PrepareContext(ctx, q.insert)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, a := range articles {
			var author sql.NullString
			if a.Author != nil {
				author = sql.NullString{String: *a.Author, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, slot, i, a.Title, author, a.Description, a.PublishedAt, a.Source.Name, a.URL); err != nil {
				return fmt.Errorf("insert article %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func deleteSlot(ctx context.Context, db *sql.DB, q sqlQueries, slot string) error {
	if _, err := db.ExecContext(ctx, q.deleteSlot, slot); err != nil {
		return fmt.Errorf("delete %s articles: %w", slot, err)
	}
	return nil
}
