// ABOUTME: Article collection service orchestrating the news source and the article store
// ABOUTME: Implements load (store first, then remote), save, restore-from-snapshot, and clear

package articles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/harper/newsdesk/internal/feedsource"
	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/newsapi"
	"github.com/harper/newsdesk/internal/storage"
)

// Source is a remote news source returning normalized articles for a topic.
type Source interface {
	Articles(ctx context.Context, topic string) ([]models.Article, error)
	Name() string
}

// Origin reports where a loaded collection came from.
type Origin string

const (
	OriginStore  Origin = "store"
	OriginRemote Origin = "remote"
)

// Service owns the in-session collection and mediates between source and store.
type Service struct {
	store        storage.Store
	source       Source
	logger       *log.Logger
	defaultTopic string

	mu      sync.Mutex
	current []models.Article

	// snapMu serializes the check-then-write of the original snapshot.
	snapMu sync.Mutex
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the logger used for fetch and persistence events.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultTopic sets the topic used when Load is called with an empty one.
func WithDefaultTopic(topic string) Option {
	return func(s *Service) { s.defaultTopic = topic }
}

// New creates a service over store and source.
func New(store storage.Store, source Source, opts ...Option) *Service {
	s := &Service{
		store:  store,
		source: source,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the saved collection when the store holds a non-empty one,
// otherwise fetches from the remote source. The first successful remote
// fetch is captured as the original snapshot.
func (s *Service) Load(ctx context.Context, topic string) ([]models.Article, error) {
	articles, _, err := s.LoadWithOrigin(ctx, topic)
	return articles, err
}

// LoadWithOrigin is Load that also reports which side supplied the collection.
func (s *Service) LoadWithOrigin(ctx context.Context, topic string) ([]models.Article, Origin, error) {
	saved, err := s.store.Load(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%w: load saved articles: %w", ErrStoreFailure, err)
	}
	if len(saved) > 0 {
		s.logger.Debug("loaded saved articles", "count", len(saved), "store", s.store.Name())
		s.setCurrent(saved)
		return saved, OriginStore, nil
	}

	fetched, err := s.fetch(ctx, topic)
	if err != nil {
		return nil, "", err
	}
	s.setCurrent(fetched)
	return fetched, OriginRemote, nil
}

// Refresh fetches from the remote source regardless of what the store holds.
// Neither the saved collection nor the session collection changes; save the
// result to adopt it.
func (s *Service) Refresh(ctx context.Context, topic string) ([]models.Article, error) {
	return s.fetch(ctx, topic)
}

func (s *Service) fetch(ctx context.Context, topic string) ([]models.Article, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: no news source configured", ErrConfigurationMissing)
	}
	if topic == "" {
		topic = s.defaultTopic
	}

	fetched, err := s.source.Articles(ctx, topic)
	if err != nil {
		return nil, classifySourceError(err)
	}
	if fetched == nil {
		fetched = []models.Article{}
	}
	s.logger.Info("fetched articles", "source", s.source.Name(), "topic", topic, "count", len(fetched))

	if err := s.captureSnapshot(ctx, fetched); err != nil {
		return nil, err
	}
	return fetched, nil
}

// captureSnapshot stores fetched as the original snapshot unless one exists.
func (s *Service) captureSnapshot(ctx context.Context, fetched []models.Article) error {
	if len(fetched) == 0 {
		return nil
	}
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	existing, err := s.store.LoadOriginal(ctx)
	if err != nil {
		return fmt.Errorf("%w: load snapshot: %w", ErrStoreFailure, err)
	}
	if len(existing) > 0 {
		return nil
	}
	if err := s.store.SaveOriginal(ctx, fetched); err != nil {
		return fmt.Errorf("%w: save snapshot: %w", ErrStoreFailure, err)
	}
	s.logger.Debug("captured original snapshot", "count", len(fetched))
	return nil
}

func classifySourceError(err error) error {
	switch {
	case errors.Is(err, newsapi.ErrMissingAPIKey), errors.Is(err, feedsource.ErrMissingURL):
		return fmt.Errorf("%w: %w", ErrConfigurationMissing, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
}

// Save replaces the stored collection with articles. No merge is performed.
func (s *Service) Save(ctx context.Context, articles []models.Article) error {
	if articles == nil {
		return fmt.Errorf("%w: expected an array of articles", ErrInvalidPayload)
	}
	if err := s.store.Save(ctx, articles); err != nil {
		return fmt.Errorf("%w: save articles: %w", ErrStoreFailure, err)
	}
	s.logger.Info("saved articles", "count", len(articles), "store", s.store.Name())
	s.setCurrent(articles)
	return nil
}

// SaveJSON decodes body as a JSON array of article objects and saves it.
// Anything else fails with ErrInvalidPayload and leaves the store untouched.
func (s *Service) SaveJSON(ctx context.Context, body []byte) ([]models.Article, error) {
	articles, err := DecodeCollection(body)
	if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// DecodeCollection parses a JSON array of article objects.
func DecodeCollection(body []byte) ([]models.Article, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, fmt.Errorf("%w: body must be a JSON array of articles", ErrInvalidPayload)
	}

	articles := make([]models.Article, 0, len(raw))
	for i, item := range raw {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidPayload, i)
		}
		var a models.Article
		if err := json.Unmarshal(item, &a); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidPayload, i, err)
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// Restore overwrites the stored collection with the original snapshot.
func (s *Service) Restore(ctx context.Context) ([]models.Article, error) {
	snapshot, err := s.store.LoadOriginal(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load snapshot: %w", ErrStoreFailure, err)
	}
	if len(snapshot) == 0 {
		return nil, ErrNoSnapshotAvailable
	}
	if err := s.store.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("%w: restore snapshot: %w", ErrStoreFailure, err)
	}
	s.logger.Info("restored original snapshot", "count", len(snapshot))
	s.setCurrent(snapshot)
	return snapshot, nil
}

// Clear removes the saved collection. The original snapshot survives.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("%w: clear articles: %w", ErrStoreFailure, err)
	}
	s.logger.Info("cleared saved articles", "store", s.store.Name())
	s.setCurrent(nil)
	return nil
}

// StoreName reports the backing store's name.
func (s *Service) StoreName() string {
	return s.store.Name()
}

// SourceName reports the remote source's name, or "none".
func (s *Service) SourceName() string {
	if s.source == nil {
		return "none"
	}
	return s.source.Name()
}

// Session returns the collection this process last loaded, saved, or
// restored, so indices shown to a client keep addressing the same records.
// Only when nothing is loaded (first use, or after Clear) does it fall back
// to Load.
func (s *Service) Session(ctx context.Context) ([]models.Article, error) {
	s.mu.Lock()
	current := models.CloneAll(s.current)
	s.mu.Unlock()
	if current != nil {
		return current, nil
	}
	return s.Load(ctx, "")
}

// Current returns a copy of the collection most recently loaded, saved, or restored.
func (s *Service) Current() []models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneAll(s.current)
}

func (s *Service) setCurrent(articles []models.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = models.CloneAll(articles)
}
