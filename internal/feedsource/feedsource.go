// ABOUTME: RSS/Atom news source using gofeed, an alternative to the NewsAPI client
// ABOUTME: Normalizes feed items into articles, filters them by topic, and discovers feeds behind site URLs

package feedsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/timeutil"
)

// ErrUpstream is returned when the feed cannot be fetched or parsed.
var ErrUpstream = errors.New("feed unavailable")

// ErrMissingURL is returned when no feed URL is configured.
var ErrMissingURL = errors.New("feed URL not configured")

const (
	DefaultPageSize = 10
	MaxPageSize     = 20

	// MaxFeedSize caps how much of a feed or page body is read.
	MaxFeedSize = 10 * 1024 * 1024

	userAgent = "newsdesk/1.0 (RSS reader)"
)

// Source reads articles from a single RSS or Atom feed. The configured URL
// may also be a site page; the feed it advertises is discovered and reused.
type Source struct {
	url      string
	pageSize int
	parser   *gofeed.Parser
	client   *http.Client

	mu       sync.Mutex
	resolved string
}

// New creates a feed source for feedURL returning at most pageSize articles.
func New(feedURL string, pageSize int) *Source {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return &Source{
		url:      strings.TrimSpace(feedURL),
		pageSize: pageSize,
		parser:   gofeed.NewParser(),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return "rss"
}

// Articles fetches the feed and returns up to pageSize normalized items.
// A non-empty topic keeps only items whose title or description mention it.
func (s *Source) Articles(ctx context.Context, topic string) ([]models.Article, error) {
	if s.url == "" {
		return nil, ErrMissingURL
	}

	s.mu.Lock()
	target := s.resolved
	s.mu.Unlock()
	if target == "" {
		target = s.url
	}

	body, err := s.get(ctx, target)
	if err != nil {
		return nil, err
	}
	feed, err := s.parser.Parse(bytes.NewReader(body))
	if errors.Is(err, gofeed.ErrFeedTypeNotDetected) && target == s.url {
		target, feed, err = s.discover(ctx, target, body)
		if err == nil {
			s.mu.Lock()
			s.resolved = target
			s.mu.Unlock()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return Normalize(feed, topic, s.pageSize), nil
}

// get fetches url and returns its body, mapping failures to ErrUpstream.
func (s *Source) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, text/html;q=0.8, */*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUpstream, url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	return body, nil
}

// Normalize converts parsed feed items into articles.
func Normalize(feed *gofeed.Feed, topic string, limit int) []models.Article {
	topic = strings.ToLower(strings.TrimSpace(topic))
	out := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if limit > 0 && len(out) >= limit {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}
		description = strings.TrimSpace(description)

		if topic != "" &&
			!strings.Contains(strings.ToLower(title), topic) &&
			!strings.Contains(strings.ToLower(description), topic) {
			continue
		}

		a := models.Article{
			Title:       title,
			Description: description,
			Source:      models.Source{Name: feed.Title},
			URL:         item.Link,
		}
		if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
			a.Author = models.StringPtr(strings.TrimSpace(item.Author.Name))
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = timeutil.FormatPublished(*item.PublishedParsed)
		} else if item.UpdatedParsed != nil {
			a.PublishedAt = timeutil.FormatPublished(*item.UpdatedParsed)
		}
		out = append(out, a)
	}
	return out
}
