// ABOUTME: Normalization of raw NewsAPI article records into models.Article
// ABOUTME: Keeps exactly six fields and drops records that lack a title

package newsapi

import (
	"strings"

	"github.com/harper/newsdesk/internal/models"
)

// RawArticle is one article as NewsAPI sends it. Any field may be null.
type RawArticle struct {
	Source *struct {
		ID   *string `json:"id"`
		Name *string `json:"name"`
	} `json:"source"`
	Author      *string `json:"author"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt *string `json:"publishedAt"`
	Content     *string `json:"content"`
}

// Normalize converts a raw record into an Article. The boolean is false when
// the record has no usable title and must be dropped.
func Normalize(raw RawArticle) (models.Article, bool) {
	title := strings.TrimSpace(deref(raw.Title))
	if title == "" {
		return models.Article{}, false
	}

	a := models.Article{
		Title:       title,
		Description: deref(raw.Description),
		PublishedAt: strings.TrimSpace(deref(raw.PublishedAt)),
		URL:         strings.TrimSpace(deref(raw.URL)),
	}
	if raw.Source != nil {
		a.Source.Name = deref(raw.Source.Name)
	}
	if author := strings.TrimSpace(deref(raw.Author)); author != "" {
		a.Author = &author
	}
	return a, true
}

// NormalizeAll normalizes a batch, preserving order and skipping dropped records.
func NormalizeAll(raws []RawArticle) []models.Article {
	out := make([]models.Article, 0, len(raws))
	for _, raw := range raws {
		if a, ok := Normalize(raw); ok {
			out = append(out, a)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
