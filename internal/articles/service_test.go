// ABOUTME: Tests for the article collection service
// ABOUTME: Covers store precedence, snapshot capture, save validation, restore, clear, and error mapping

package articles

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/newsdesk/internal/feedsource"
	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/newsapi"
	"github.com/harper/newsdesk/internal/storage"
)

// fakeSource returns queued results, one per call, repeating the last.
type fakeSource struct {
	results [][]models.Article
	err     error
	calls   int
	topics  []string
}

func (f *fakeSource) Articles(_ context.Context, topic string) ([]models.Article, error) {
	f.calls++
	f.topics = append(f.topics, topic)
	if f.err != nil {
		return nil, f.err
	}
	i := f.calls - 1
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return models.CloneAll(f.results[i]), nil
}

func (f *fakeSource) Name() string { return "fake" }

// failingStore wraps a MemoryStore and fails the chosen operations.
type failingStore struct {
	*storage.MemoryStore
	failLoad bool
	failSave bool
}

var errDisk = errors.New("disk on fire")

func (s *failingStore) Load(ctx context.Context) ([]models.Article, error) {
	if s.failLoad {
		return nil, errDisk
	}
	return s.MemoryStore.Load(ctx)
}

func (s *failingStore) Save(ctx context.Context, a []models.Article) error {
	if s.failSave {
		return errDisk
	}
	return s.MemoryStore.Save(ctx, a)
}

func fetched() []models.Article {
	return []models.Article{
		{Title: "Fresh one", Author: models.StringPtr("Ann"), PublishedAt: "2024-06-01T00:00:00Z", Source: models.Source{Name: "Wired"}, URL: "https://a"},
		{Title: "Fresh two", PublishedAt: "2024-05-01T00:00:00Z", Source: models.Source{Name: "Ars"}, URL: "https://b"},
	}
}

func edited() []models.Article {
	return []models.Article{
		{Title: "Edited", Author: models.StringPtr("Me"), Source: models.Source{Name: "Local"}, URL: "https://c"},
	}
}

func TestLoad_FetchesWhenStoreEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	src := &fakeSource{results: [][]models.Article{fetched()}}
	svc := New(store, src, WithDefaultTopic(""))

	got, origin, err := svc.LoadWithOrigin(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, OriginRemote, origin)
	assert.Equal(t, fetched(), got)
	assert.Equal(t, 1, src.calls)

	// Fetch is not a save.
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)

	snap, err := store.LoadOriginal(ctx)
	require.NoError(t, err)
	assert.Equal(t, fetched(), snap)
	assert.Equal(t, fetched(), svc.Current())
}

func TestLoad_StoreTakesPrecedence(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(ctx, edited()))
	src := &fakeSource{results: [][]models.Article{fetched()}}
	svc := New(store, src)

	got, origin, err := svc.LoadWithOrigin(ctx, "golang")
	require.NoError(t, err)
	assert.Equal(t, OriginStore, origin)
	assert.Equal(t, edited(), got)
	assert.Zero(t, src.calls, "remote source must not be queried when the store has articles")
}

func TestLoad_DefaultTopic(t *testing.T) {
	src := &fakeSource{results: [][]models.Article{fetched()}}
	svc := New(storage.NewMemoryStore(), src, WithDefaultTopic("ai"))

	_, err := svc.Load(context.Background(), "")
	require.NoError(t, err)
	_, err = svc.Load(context.Background(), "rust")
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "rust"}, src.topics)
}

func TestSnapshot_CapturedAtMostOnce(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	second := []models.Article{{Title: "Later news", URL: "https://later"}}
	src := &fakeSource{results: [][]models.Article{fetched(), second}}
	svc := New(store, src)

	_, err := svc.Load(ctx, "")
	require.NoError(t, err)
	got, err := svc.Refresh(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	snap, err := store.LoadOriginal(ctx)
	require.NoError(t, err)
	assert.Equal(t, fetched(), snap, "second fetch must not overwrite the snapshot")
}

// staticSource is safe for concurrent use and always returns the same list.
type staticSource struct {
	articles []models.Article
	calls    atomic.Int32
}

func (f *staticSource) Articles(_ context.Context, _ string) ([]models.Article, error) {
	f.calls.Add(1)
	return models.CloneAll(f.articles), nil
}

func (f *staticSource) Name() string { return "static" }

// slowSnapshotStore lingers in LoadOriginal so unsynchronized callers overlap.
type slowSnapshotStore struct {
	*storage.MemoryStore
	snapshotWrites atomic.Int32
}

func (s *slowSnapshotStore) LoadOriginal(ctx context.Context) ([]models.Article, error) {
	time.Sleep(50 * time.Millisecond)
	return s.MemoryStore.LoadOriginal(ctx)
}

func (s *slowSnapshotStore) SaveOriginal(ctx context.Context, a []models.Article) error {
	s.snapshotWrites.Add(1)
	return s.MemoryStore.SaveOriginal(ctx, a)
}

func TestSnapshot_ConcurrentFirstLoadsCaptureOnce(t *testing.T) {
	ctx := context.Background()
	store := &slowSnapshotStore{MemoryStore: storage.NewMemoryStore()}
	svc := New(store, &staticSource{articles: fetched()})

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Load(ctx, "")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), store.snapshotWrites.Load(), "snapshot must be written exactly once")
}

func TestSession_KeepsLoadedCollection(t *testing.T) {
	ctx := context.Background()
	rotated := []models.Article{{Title: "Rotated in", URL: "https://x"}}
	src := &fakeSource{results: [][]models.Article{fetched(), rotated}}
	svc := New(storage.NewMemoryStore(), src)

	shown, err := svc.Load(ctx, "")
	require.NoError(t, err)

	session, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, shown, session)
	assert.Equal(t, 1, src.calls, "session must not refetch while a collection is loaded")

	session[0].Title = "mutated"
	again, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fresh one", again[0].Title, "session returns copies")

	refreshed, err := svc.Refresh(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, rotated, refreshed)
	again, err = svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, shown, again, "refresh does not replace the session collection")
}

func TestSession_LoadsOnFirstUse(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{results: [][]models.Article{fetched()}}
	svc := New(storage.NewMemoryStore(), src)

	session, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, fetched(), session)
	assert.Equal(t, 1, src.calls)
}

func TestSession_FollowsSaveAndClear(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{results: [][]models.Article{fetched()}}
	svc := New(storage.NewMemoryStore(), src)

	require.NoError(t, svc.Save(ctx, []models.Article{}))
	session, err := svc.Session(ctx)
	require.NoError(t, err)
	assert.Empty(t, session)
	assert.Equal(t, 0, src.calls, "an explicitly saved empty collection is still loaded")

	require.NoError(t, svc.Clear(ctx))
	session, err = svc.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, fetched(), session)
	assert.Equal(t, 1, src.calls)
}

func TestSnapshot_EmptyFetchDoesNotCapture(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	src := &fakeSource{results: [][]models.Article{{}, fetched()}}
	svc := New(store, src)

	got, err := svc.Load(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	_, err = svc.Restore(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshotAvailable)

	_, err = svc.Load(ctx, "")
	require.NoError(t, err)
	snap, err := store.LoadOriginal(ctx)
	require.NoError(t, err)
	assert.Equal(t, fetched(), snap)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	src := &fakeSource{results: [][]models.Article{fetched()}}
	svc := New(store, src)

	require.NoError(t, svc.Save(ctx, edited()))

	// A second service over the same store sees the saved collection.
	other := New(store, src)
	got, err := other.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, edited(), got)
	assert.Zero(t, src.calls)
}

func TestSave_ReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := New(store, &fakeSource{results: [][]models.Article{fetched()}})

	require.NoError(t, svc.Save(ctx, fetched()))
	require.NoError(t, svc.Save(ctx, edited()))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, edited(), got)
}

func TestSave_NilIsInvalid(t *testing.T) {
	svc := New(storage.NewMemoryStore(), nil)
	err := svc.Save(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestSaveJSON_RejectsNonArray(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(ctx, edited()))
	svc := New(store, nil)

	bodies := []string{
		`"not an array"`,
		`{"title":"x"}`,
		`null`,
		`42`,
		`[1, 2]`,
		`["a"]`,
		`[null]`,
		`[{"title": 5}]`,
		`not json`,
		``,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			_, err := svc.SaveJSON(ctx, []byte(body))
			assert.ErrorIs(t, err, ErrInvalidPayload)

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, edited(), got, "stored collection must be unchanged")
		})
	}
}

func TestSaveJSON_AcceptsArray(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := New(store, nil)

	body := `[
		{"title":"One","author":null,"description":"d","publishedAt":"2024-01-01","source":{"name":"S"},"url":"https://1","extra":"ignored"},
		{"title":"Two","author":"Bo","source":{"name":"T"},"url":"https://2"}
	]`
	got, err := svc.SaveJSON(ctx, []byte(body))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].Author)
	assert.Equal(t, "Bo", got[1].AuthorName())

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, saved)
}

func TestSaveJSON_EmptyArray(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := New(store, nil)

	got, err := svc.SaveJSON(ctx, []byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRestore_WithoutSnapshot(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(ctx, edited()))
	svc := New(store, &fakeSource{err: newsapi.ErrMissingAPIKey})

	_, err := svc.Restore(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshotAvailable)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, edited(), got, "failed restore must not change state")
}

func TestRestore_ReplacesSavedWithSnapshot(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := New(store, &fakeSource{results: [][]models.Article{fetched()}})

	_, err := svc.Load(ctx, "")
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, edited()))

	got, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, fetched(), got)

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, fetched(), saved)
	assert.Equal(t, fetched(), svc.Current())
}

func TestClear_KeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	src := &fakeSource{results: [][]models.Article{fetched()}}
	svc := New(store, src)

	_, err := svc.Load(ctx, "")
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, edited()))
	require.NoError(t, svc.Clear(ctx))

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)
	assert.Nil(t, svc.Current())

	_, err = svc.Restore(ctx)
	require.NoError(t, err)
}

func TestLoad_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing api key", newsapi.ErrMissingAPIKey, ErrConfigurationMissing},
		{"missing feed url", feedsource.ErrMissingURL, ErrConfigurationMissing},
		{"newsapi upstream", fmt.Errorf("%w: status 500", newsapi.ErrUpstream), ErrUpstreamUnavailable},
		{"feed upstream", fmt.Errorf("%w: bad xml", feedsource.ErrUpstream), ErrUpstreamUnavailable},
		{"deadline", context.DeadlineExceeded, ErrUpstreamUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(storage.NewMemoryStore(), &fakeSource{err: tt.err})
			_, err := svc.Load(context.Background(), "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err, "underlying cause must be preserved")
			assert.Equal(t, tt.want, Kind(err))
		})
	}
}

func TestLoad_NoSource(t *testing.T) {
	svc := New(storage.NewMemoryStore(), nil)
	_, err := svc.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrConfigurationMissing)
}

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("load", func(t *testing.T) {
		svc := New(&failingStore{MemoryStore: storage.NewMemoryStore(), failLoad: true}, &fakeSource{results: [][]models.Article{fetched()}})
		_, err := svc.Load(ctx, "")
		assert.ErrorIs(t, err, ErrStoreFailure)
		assert.ErrorIs(t, err, errDisk)
	})

	t.Run("save", func(t *testing.T) {
		svc := New(&failingStore{MemoryStore: storage.NewMemoryStore(), failSave: true}, nil)
		err := svc.Save(ctx, edited())
		assert.ErrorIs(t, err, ErrStoreFailure)
		assert.Nil(t, svc.Current(), "failed save must not replace the session collection")
	})

	t.Run("restore", func(t *testing.T) {
		inner := storage.NewMemoryStore()
		require.NoError(t, inner.SaveOriginal(ctx, fetched()))
		svc := New(&failingStore{MemoryStore: inner, failSave: true}, nil)
		_, err := svc.Restore(ctx)
		assert.ErrorIs(t, err, ErrStoreFailure)
	})
}

func TestKind(t *testing.T) {
	assert.Nil(t, Kind(nil))
	assert.Nil(t, Kind(errors.New("plain")))
	assert.Equal(t, ErrNoSnapshotAvailable, Kind(fmt.Errorf("wrapped: %w", ErrNoSnapshotAvailable)))
}
