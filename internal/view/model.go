// ABOUTME: Collection view model: filter, sort, paginate, and edit over a backing collection
// ABOUTME: Views are recomputed on every call and never mutate the backing order

package view

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/harper/newsdesk/internal/models"
)

// DefaultPageSize is the number of rows per page.
const DefaultPageSize = 5

var (
	// ErrIndexOutOfRange is returned when an edit targets a missing backing index.
	ErrIndexOutOfRange = errors.New("article index out of range")

	// ErrUnknownField is returned when an edit names a non-editable field.
	ErrUnknownField = errors.New("unknown field")
)

// Row is one displayed article with the backing index edits must address.
type Row struct {
	Index   int            `json:"index"`
	Article models.Article `json:"article"`
}

// Page is the rendered projection of the collection.
type Page struct {
	Rows       []Row   `json:"articles"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	PageSize   int     `json:"pageSize"`
	Total      int     `json:"total"`
	Filter     string  `json:"filter"`
	Sort       SortKey `json:"sort"`
}

type edit struct {
	index  int
	field  models.Field
	before *string
}

// Model holds the backing collection and the user's view settings.
// It is not safe for concurrent use.
type Model struct {
	articles []models.Article
	filter   string
	folded   string
	sortKey  SortKey
	page     int
	pageSize int

	lang     language.Tag
	folder   cases.Caser
	collator *collate.Collator
	history  []edit
}

// Option customizes a Model.
type Option func(*Model)

// WithPageSize sets rows per page; non-positive values keep the default.
func WithPageSize(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

// WithLanguage sets the collation locale for string sorts.
func WithLanguage(tag language.Tag) Option {
	return func(m *Model) { m.lang = tag }
}

// New creates a model over a copy of articles.
func New(articles []models.Article, opts ...Option) *Model {
	m := &Model{
		articles: models.CloneAll(articles),
		sortKey:  DefaultSort,
		page:     1,
		pageSize: DefaultPageSize,
		lang:     language.English,
		folder:   cases.Fold(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.articles == nil {
		m.articles = []models.Article{}
	}
	m.collator = collate.New(m.lang)
	return m
}

// SetFilter keeps only articles whose title or author contains text,
// ignoring case. Empty text matches everything. The page resets to 1.
func (m *Model) SetFilter(text string) {
	m.filter = text
	m.folded = m.folder.String(text)
	m.page = 1
}

// SetSort changes the ordering and resets the page to 1.
func (m *Model) SetSort(key SortKey) error {
	if !key.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
	m.sortKey = key
	m.page = 1
	return nil
}

// SetPage moves to page n, clamped to the pages available, and returns
// the page actually selected.
func (m *Model) SetPage(n int) int {
	m.page = clampPage(n, totalPages(len(m.filtered()), m.pageSize))
	return m.page
}

// EditField writes value into the article at backing index i.
func (m *Model) EditField(i int, field models.Field, value string) error {
	if i < 0 || i >= len(m.articles) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(m.articles))
	}
	if field != models.FieldTitle && field != models.FieldAuthor {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	a := &m.articles[i]
	e := edit{index: i, field: field}
	switch field {
	case models.FieldTitle:
		e.before = models.StringPtr(a.Title)
	case models.FieldAuthor:
		if a.Author != nil {
			e.before = models.StringPtr(*a.Author)
		}
	}
	if err := a.SetField(field, value); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownField, err)
	}
	m.history = append(m.history, e)
	return nil
}

// Undo reverts the most recent edit. It reports false when nothing is left to undo.
func (m *Model) Undo() bool {
	if len(m.history) == 0 {
		return false
	}
	e := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]

	a := &m.articles[e.index]
	switch e.field {
	case models.FieldTitle:
		a.Title = *e.before
	case models.FieldAuthor:
		a.Author = e.before
	}
	return true
}

// Dirty reports whether any edits are pending since creation or the last MarkClean.
func (m *Model) Dirty() bool {
	return len(m.history) > 0
}

// MarkClean drops the edit history, typically after a successful save.
func (m *Model) MarkClean() {
	m.history = nil
}

// View computes filter, then sort, then paginate.
func (m *Model) View() Page {
	rows := m.filtered()

	cmp := comparator(m.sortKey, m.collator)
	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp(&a.Article, &b.Article)
	})

	pages := totalPages(len(rows), m.pageSize)
	m.page = clampPage(m.page, pages)

	start := (m.page - 1) * m.pageSize
	end := min(start+m.pageSize, len(rows))

	return Page{
		Rows:       rows[start:end:end],
		Page:       m.page,
		TotalPages: pages,
		PageSize:   m.pageSize,
		Total:      len(rows),
		Filter:     m.filter,
		Sort:       m.sortKey,
	}
}

// filtered returns deep copies of matching articles in backing order.
func (m *Model) filtered() []Row {
	rows := make([]Row, 0, len(m.articles))
	for i := range m.articles {
		a := &m.articles[i]
		if m.folded == "" ||
			strings.Contains(m.folder.String(a.Title), m.folded) ||
			strings.Contains(m.folder.String(a.AuthorName()), m.folded) {
			rows = append(rows, Row{Index: i, Article: a.Clone()})
		}
	}
	return rows
}

// Article returns a copy of the article at backing index i.
func (m *Model) Article(i int) (models.Article, error) {
	if i < 0 || i >= len(m.articles) {
		return models.Article{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(m.articles))
	}
	return m.articles[i].Clone(), nil
}

// Articles returns a copy of the backing collection in backing order.
func (m *Model) Articles() []models.Article {
	return models.CloneAll(m.articles)
}

// Len is the size of the backing collection.
func (m *Model) Len() int { return len(m.articles) }

// Filter returns the current filter text.
func (m *Model) Filter() string { return m.filter }

// Sort returns the current sort key.
func (m *Model) Sort() SortKey { return m.sortKey }

// PageSize returns rows per page.
func (m *Model) PageSize() int { return m.pageSize }

func totalPages(count, size int) int {
	if count == 0 {
		return 1
	}
	return (count + size - 1) / size
}

func clampPage(n, pages int) int {
	if n < 1 {
		return 1
	}
	if n > pages {
		return pages
	}
	return n
}
