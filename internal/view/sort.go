// ABOUTME: Sort keys for the collection view and their comparators
// ABOUTME: String keys collate per locale; publishedAt compares parsed instants

package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/collate"

	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/timeutil"
)

// ErrUnknownSortKey is returned by ParseSortKey for unrecognized names.
var ErrUnknownSortKey = errors.New("unknown sort key")

// SortKey selects the ordering of a view.
type SortKey string

const (
	SortPublishedDesc SortKey = "publishedAt-desc"
	SortPublishedAsc  SortKey = "publishedAt-asc"
	SortTitleAsc      SortKey = "title-asc"
	SortTitleDesc     SortKey = "title-desc"
	SortAuthorAsc     SortKey = "author-asc"
	SortAuthorDesc    SortKey = "author-desc"
	SortSourceAsc     SortKey = "source-asc"
	SortSourceDesc    SortKey = "source-desc"

	DefaultSort = SortPublishedDesc
)

// SortKeys lists every canonical key in display order.
var SortKeys = []SortKey{
	SortPublishedDesc, SortPublishedAsc,
	SortTitleAsc, SortTitleDesc,
	SortAuthorAsc, SortAuthorDesc,
	SortSourceAsc, SortSourceDesc,
}

var sortAliases = map[string]SortKey{
	"newest":    SortPublishedDesc,
	"oldest":    SortPublishedAsc,
	"source-az": SortSourceAsc,
	"source-za": SortSourceDesc,
}

// ParseSortKey accepts a canonical key (case-insensitive) or one of the
// aliases newest, oldest, source-az, source-za. Empty selects DefaultSort.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSort, nil
	}
	for _, k := range SortKeys {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	if k, ok := sortAliases[strings.ToLower(s)]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

func (k SortKey) valid() bool {
	for _, known := range SortKeys {
		if k == known {
			return true
		}
	}
	return false
}

func (k SortKey) descending() bool {
	return strings.HasSuffix(string(k), "-desc")
}

// comparator returns a three-way compare for k. Descending keys negate the
// ascending compare so a stable sort keeps ties in backing order.
func comparator(k SortKey, coll *collate.Collator) func(a, b *models.Article) int {
	var asc func(a, b *models.Article) int
	switch k {
	case SortPublishedDesc, SortPublishedAsc:
		asc = func(a, b *models.Article) int {
			return publishedInstant(a).Compare(publishedInstant(b))
		}
	case SortTitleAsc, SortTitleDesc:
		asc = func(a, b *models.Article) int {
			return coll.CompareString(a.Title, b.Title)
		}
	case SortAuthorAsc, SortAuthorDesc:
		asc = func(a, b *models.Article) int {
			return coll.CompareString(a.AuthorName(), b.AuthorName())
		}
	default:
		asc = func(a, b *models.Article) int {
			return coll.CompareString(a.Source.Name, b.Source.Name)
		}
	}
	if k.descending() {
		return func(a, b *models.Article) int { return asc(b, a) }
	}
	return asc
}

func publishedInstant(a *models.Article) time.Time {
	t, ok := timeutil.ParsePublished(a.PublishedAt)
	if !ok {
		return time.Time{}
	}
	return t
}
