// ABOUTME: Tests for the collection view model
// ABOUTME: Covers filter completeness, stable sorting, pagination bounds, edits, and undo

package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/newsdesk/internal/models"
)

func article(title, author, published, source string) models.Article {
	a := models.Article{
		Title:       title,
		PublishedAt: published,
		Source:      models.Source{Name: source},
		URL:         "https://example.com/" + title,
	}
	if author != "" {
		a.Author = models.StringPtr(author)
	}
	return a
}

func titles(p Page) []string {
	out := make([]string, len(p.Rows))
	for i, r := range p.Rows {
		out[i] = r.Article.Title
	}
	return out
}

func indices(p Page) []int {
	out := make([]int, len(p.Rows))
	for i, r := range p.Rows {
		out[i] = r.Index
	}
	return out
}

func sampleCollection() []models.Article {
	return []models.Article{
		article("Go generics in practice", "Rob", "2024-03-01T00:00:00Z", "Go Blog"),
		article("Rust async deep dive", "", "2024-05-01T00:00:00Z", "Ars"),
		article("Why SQLite is everywhere", "Richard", "2024-01-15T00:00:00Z", "Wired"),
		article("Kubernetes pitfalls", "ana GO", "2024-04-20T00:00:00Z", "The Verge"),
		article("Zig comptime", "Andrew", "not a date", "ars"),
		article("eBPF for observability", "Liz", "2024-02-10T12:30:00Z", "LWN"),
		article("Building CLIs with cobra", "Steve", "2024-06-01", "Go Blog"),
	}
}

func TestScenarioA_NewestFirst(t *testing.T) {
	m := New([]models.Article{
		article("A", "", "2024-01-01", ""),
		article("B", "", "2024-06-01", ""),
	})
	require.NoError(t, m.SetSort(SortPublishedDesc))
	assert.Equal(t, []string{"B", "A"}, titles(m.View()))
}

func TestScenarioD_EmptyFilterReturnsAllInOrder(t *testing.T) {
	coll := sampleCollection()

	// Every article ties under the default sort so only filtering is observed.
	same := make([]models.Article, len(coll))
	for i, a := range coll {
		a.PublishedAt = "2024-01-01T00:00:00Z"
		same[i] = a
	}
	m := New(same, WithPageSize(100))
	m.SetFilter("")

	p := m.View()
	assert.Equal(t, len(same), p.Total)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, indices(p))
	for i, r := range p.Rows {
		assert.Equal(t, same[i], r.Article)
	}
}

func TestScenarioE_Pagination(t *testing.T) {
	m := New(sampleCollection(), WithPageSize(5))
	p := m.View()
	assert.Equal(t, 7, p.Total)
	assert.Equal(t, 2, p.TotalPages)
	assert.Len(t, p.Rows, 5)

	assert.Equal(t, 2, m.SetPage(2))
	p = m.View()
	assert.Equal(t, 2, p.Page)
	assert.Len(t, p.Rows, 2)
}

func TestDefaults(t *testing.T) {
	m := New(nil)
	assert.Equal(t, DefaultSort, m.Sort())
	assert.Equal(t, DefaultPageSize, m.PageSize())

	p := m.View()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages, "an empty view still has one page")
	assert.Empty(t, p.Rows)
	assert.NotNil(t, m.Articles())
}

func TestFilter_SoundAndComplete(t *testing.T) {
	coll := sampleCollection()
	for _, q := range []string{"go", "GO", "rust", "an", "zzz", " ", "sqlite"} {
		t.Run(q, func(t *testing.T) {
			m := New(coll, WithPageSize(100))
			m.SetFilter(q)
			p := m.View()

			matched := map[int]bool{}
			for _, r := range p.Rows {
				matched[r.Index] = true
			}
			for i, a := range coll {
				want := containsFold(a.Title, q) || containsFold(a.AuthorName(), q)
				assert.Equal(t, want, matched[i], "article %d (%q by %q) for filter %q", i, a.Title, a.AuthorName(), q)
			}
			assert.Equal(t, len(matched), p.Total)
		})
	}
}

func containsFold(s, sub string) bool {
	return len(sub) == 0 || indexFold(s, sub) >= 0
}

func indexFold(s, sub string) int {
	ls, lsub := []rune(s), []rune(sub)
	for i := 0; i+len(lsub) <= len(ls); i++ {
		ok := true
		for j := range lsub {
			if toLower(ls[i+j]) != toLower(lsub[j]) {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func TestFilter_MatchesAuthor(t *testing.T) {
	m := New(sampleCollection(), WithPageSize(100))
	m.SetFilter("richard")
	assert.Equal(t, []string{"Why SQLite is everywhere"}, titles(m.View()))
}

func TestFilter_UnicodeFolding(t *testing.T) {
	m := New([]models.Article{
		article("Straße gesperrt", "", "", ""),
		article("ÉCOLE numérique", "", "", ""),
		article("plain", "", "", ""),
	})
	m.SetFilter("STRASSE")
	assert.Equal(t, []string{"Straße gesperrt"}, titles(m.View()))

	m.SetFilter("école")
	assert.Equal(t, []string{"ÉCOLE numérique"}, titles(m.View()))
}

func TestSort_AllKeysArePermutations(t *testing.T) {
	coll := sampleCollection()
	for _, key := range SortKeys {
		t.Run(string(key), func(t *testing.T) {
			m := New(coll, WithPageSize(100))
			require.NoError(t, m.SetSort(key))
			p := m.View()
			assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6}, indices(p))
		})
	}
}

func TestSort_Orders(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []int
	}{
		// index 4 has an unparseable date and sorts as the zero time
		{SortPublishedDesc, []int{6, 1, 3, 0, 5, 2, 4}},
		{SortPublishedAsc, []int{4, 2, 5, 0, 3, 1, 6}},
		{SortTitleAsc, []int{6, 5, 0, 3, 1, 2, 4}},
		{SortTitleDesc, []int{4, 2, 1, 3, 0, 5, 6}},
		// missing author sorts first ascending
		{SortAuthorAsc, []int{1, 3, 4, 5, 2, 0, 6}},
		{SortAuthorDesc, []int{6, 0, 2, 5, 4, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			m := New(sampleCollection(), WithPageSize(100))
			require.NoError(t, m.SetSort(tt.key))
			assert.Equal(t, tt.want, indices(m.View()))
		})
	}
}

func TestSort_IsStable(t *testing.T) {
	coll := []models.Article{
		article("first", "", "2024-01-01", "Same"),
		article("second", "", "2024-01-01", "Same"),
		article("third", "", "2024-01-01", "Same"),
	}
	for _, key := range []SortKey{SortSourceAsc, SortSourceDesc, SortPublishedAsc, SortPublishedDesc, SortAuthorAsc, SortAuthorDesc} {
		m := New(coll)
		require.NoError(t, m.SetSort(key))
		assert.Equal(t, []string{"first", "second", "third"}, titles(m.View()), "key %s", key)
	}
}

func TestSort_SourceIsLocaleAware(t *testing.T) {
	m := New([]models.Article{
		article("1", "", "", "zeit"),
		article("2", "", "", "Ärzteblatt"),
		article("3", "", "", "apple"),
		article("4", "", "", "Banana"),
	})
	require.NoError(t, m.SetSort(SortSourceAsc))
	assert.Equal(t, []string{"3", "2", "4", "1"}, titles(m.View()))
}

func TestSort_DoesNotMutateBacking(t *testing.T) {
	coll := sampleCollection()
	m := New(coll)
	require.NoError(t, m.SetSort(SortTitleDesc))
	m.SetFilter("go")
	_ = m.View()
	assert.Equal(t, coll, m.Articles())
}

func TestSetSort_Unknown(t *testing.T) {
	m := New(nil)
	err := m.SetSort("popularity")
	assert.ErrorIs(t, err, ErrUnknownSortKey)
	assert.Equal(t, DefaultSort, m.Sort())
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{"", DefaultSort, false},
		{"publishedAt-desc", SortPublishedDesc, false},
		{"PUBLISHEDAT-ASC", SortPublishedAsc, false},
		{"title-asc", SortTitleAsc, false},
		{"newest", SortPublishedDesc, false},
		{"oldest", SortPublishedAsc, false},
		{"source-az", SortSourceAsc, false},
		{"Source-ZA", SortSourceDesc, false},
		{"relevance", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownSortKey, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPagination_SumsToFilteredCount(t *testing.T) {
	var coll []models.Article
	for i := range 23 {
		coll = append(coll, article(fmt.Sprintf("item %02d", i), "", "", ""))
	}
	for _, size := range []int{1, 4, 5, 7, 23, 50} {
		m := New(coll, WithPageSize(size))
		m.SetFilter("item 1")
		first := m.View()

		seen := 0
		for page := 1; page <= first.TotalPages; page++ {
			m.SetPage(page)
			p := m.View()
			assert.LessOrEqual(t, len(p.Rows), size)
			seen += len(p.Rows)
		}
		assert.Equal(t, first.Total, seen, "page size %d", size)
	}
}

func TestSetPage_Clamps(t *testing.T) {
	m := New(sampleCollection())
	assert.Equal(t, 1, m.SetPage(0))
	assert.Equal(t, 1, m.SetPage(-3))
	assert.Equal(t, 2, m.SetPage(99))
	assert.Equal(t, 2, m.View().Page)
}

func TestFilterAndSortResetPage(t *testing.T) {
	m := New(sampleCollection())
	m.SetPage(2)
	m.SetFilter("i")
	assert.Equal(t, 1, m.View().Page)

	m.SetPage(2)
	require.NoError(t, m.SetSort(SortTitleAsc))
	assert.Equal(t, 1, m.View().Page)
}

func TestView_ReclampsAfterEdit(t *testing.T) {
	m := New(sampleCollection())
	m.SetFilter("i")
	require.Equal(t, 2, m.SetPage(2))

	// Editing titles so fewer match shrinks the page count.
	for i := range m.Len() {
		require.NoError(t, m.EditField(i, models.FieldTitle, "x"))
		require.NoError(t, m.EditField(i, models.FieldAuthor, "y"))
	}
	p := m.View()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, p.Total)
}

func TestView_Idempotent(t *testing.T) {
	m := New(sampleCollection())
	m.SetFilter("i")
	require.NoError(t, m.SetSort(SortSourceDesc))
	m.SetPage(2)
	assert.Equal(t, m.View(), m.View())
}

func TestView_RowsAreCopies(t *testing.T) {
	m := New(sampleCollection())
	p := m.View()
	p.Rows[0].Article.Title = "mutated"
	*p.Rows[0].Article.Author = "mutated"

	again := m.View()
	assert.NotEqual(t, "mutated", again.Rows[0].Article.Title)
	assert.NotEqual(t, "mutated", again.Rows[0].Article.AuthorName())
}

func TestNew_CopiesInput(t *testing.T) {
	coll := sampleCollection()
	m := New(coll)
	coll[0].Title = "changed outside"
	a, err := m.Article(0)
	require.NoError(t, err)
	assert.Equal(t, "Go generics in practice", a.Title)
}

func TestEditField_VisibleRegardlessOfView(t *testing.T) {
	m := New(sampleCollection())
	m.SetFilter("sqlite")
	require.NoError(t, m.SetSort(SortTitleDesc))

	require.NoError(t, m.EditField(2, models.FieldTitle, "SQLite, revisited"))
	p := m.View()
	require.Len(t, p.Rows, 1)
	assert.Equal(t, 2, p.Rows[0].Index)
	assert.Equal(t, "SQLite, revisited", p.Rows[0].Article.Title)

	// Editing an article hidden by the filter still lands on the right record.
	require.NoError(t, m.EditField(1, models.FieldAuthor, "Ferris"))
	a, err := m.Article(1)
	require.NoError(t, err)
	assert.Equal(t, "Ferris", a.AuthorName())
	assert.Equal(t, "Rust async deep dive", a.Title)

	m.SetFilter("")
	require.NoError(t, m.SetSort(SortTitleAsc))
	m.SetPage(2)
	for _, r := range m.View().Rows {
		if r.Index == 2 {
			assert.Equal(t, "SQLite, revisited", r.Article.Title)
		}
	}
}

func TestEditField_DoesNotReindex(t *testing.T) {
	coll := sampleCollection()
	m := New(coll)
	require.NoError(t, m.EditField(0, models.FieldTitle, "zzz"))
	got := m.Articles()
	for i := 1; i < len(coll); i++ {
		assert.Equal(t, coll[i], got[i])
	}
}

func TestEditField_Errors(t *testing.T) {
	m := New(sampleCollection())
	assert.ErrorIs(t, m.EditField(-1, models.FieldTitle, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, m.EditField(7, models.FieldTitle, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, m.EditField(0, models.Field("url"), "x"), ErrUnknownField)
	assert.False(t, m.Dirty())
}

func TestUndo(t *testing.T) {
	coll := sampleCollection()
	m := New(coll)
	assert.False(t, m.Undo())

	require.NoError(t, m.EditField(1, models.FieldAuthor, "First"))
	require.NoError(t, m.EditField(1, models.FieldAuthor, "Second"))
	require.NoError(t, m.EditField(0, models.FieldTitle, "New title"))
	assert.True(t, m.Dirty())

	require.True(t, m.Undo())
	a, _ := m.Article(0)
	assert.Equal(t, coll[0].Title, a.Title)

	require.True(t, m.Undo())
	a, _ = m.Article(1)
	assert.Equal(t, "First", a.AuthorName())

	require.True(t, m.Undo())
	a, _ = m.Article(1)
	assert.Nil(t, a.Author, "undo restores an absent author to absent")

	assert.False(t, m.Undo())
	assert.Equal(t, coll, m.Articles())
}

func TestMarkClean(t *testing.T) {
	m := New(sampleCollection())
	require.NoError(t, m.EditField(0, models.FieldTitle, "x"))
	m.MarkClean()
	assert.False(t, m.Dirty())
	assert.False(t, m.Undo())
}
