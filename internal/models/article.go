// ABOUTME: Article model representing a single normalized news record
// ABOUTME: Provides editable-field helpers and deep copies for collections

package models

import (
	"fmt"
	"strings"
)

// Source identifies the publication an article came from.
type Source struct {
	Name string `json:"name" yaml:"name" bson:"name"`
}

// Article is a news record reduced to the six fields the app works with.
// Author is optional; a nil Author encodes as JSON null.
type Article struct {
	Title       string  `json:"title" yaml:"title" bson:"title"`
	Author      *string `json:"author" yaml:"author,omitempty" bson:"author,omitempty"`
	Description string  `json:"description" yaml:"description" bson:"description"`
	PublishedAt string  `json:"publishedAt" yaml:"publishedAt" bson:"publishedAt"`
	Source      Source  `json:"source" yaml:"source" bson:"source"`
	URL         string  `json:"url" yaml:"url" bson:"url"`
}

// Field names a user-editable article field.
type Field string

const (
	FieldTitle  Field = "title"
	FieldAuthor Field = "author"
)

// ParseField converts a field name into a Field.
func ParseField(name string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(name))) {
	case FieldTitle:
		return FieldTitle, nil
	case FieldAuthor:
		return FieldAuthor, nil
	default:
		return "", fmt.Errorf("unknown field %q (want title or author)", name)
	}
}

// AuthorName returns the author, or "" when absent.
func (a *Article) AuthorName() string {
	if a.Author == nil {
		return ""
	}
	return *a.Author
}

// SetField writes value into the named field.
func (a *Article) SetField(field Field, value string) error {
	switch field {
	case FieldTitle:
		a.Title = value
	case FieldAuthor:
		v := value
		a.Author = &v
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// GetField reads the named field. Author reads as "" when absent.
func (a *Article) GetField(field Field) (string, error) {
	switch field {
	case FieldTitle:
		return a.Title, nil
	case FieldAuthor:
		return a.AuthorName(), nil
	default:
		return "", fmt.Errorf("unknown field %q", field)
	}
}

// Clone returns a deep copy of the article.
func (a *Article) Clone() Article {
	out := *a
	if a.Author != nil {
		v := *a.Author
		out.Author = &v
	}
	return out
}

// CloneAll deep-copies a collection, preserving order.
// A nil input yields nil.
func CloneAll(articles []Article) []Article {
	if articles == nil {
		return nil
	}
	out := make([]Article, len(articles))
	for i := range articles {
		out[i] = articles[i].Clone()
	}
	return out
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
