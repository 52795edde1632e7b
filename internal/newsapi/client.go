// ABOUTME: NewsAPI HTTP client for top-headlines and everything-search endpoints
// ABOUTME: Applies page-size bounds, response size limits, and maps failures to ErrUpstream

package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/harper/newsdesk/internal/models"
)

const (
	// DefaultBaseURL is the public NewsAPI v2 root.
	DefaultBaseURL = "https://newsapi.org/v2"

	DefaultCountry  = "us"
	DefaultCategory = "technology"

	DefaultPageSize = 10
	MaxPageSize     = 20

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024
)

var (
	// ErrMissingAPIKey is returned before any request when no credential is set.
	ErrMissingAPIKey = errors.New("news API key not configured")

	// ErrUpstream covers non-success responses and undecodable bodies.
	ErrUpstream = errors.New("news API unavailable")
)

// Client queries NewsAPI and normalizes the results.
type Client struct {
	apiKey     string
	baseURL    string
	country    string
	category   string
	pageSize   int
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests, proxies).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCountry sets the top-headlines country.
func WithCountry(country string) Option {
	return func(c *Client) {
		if country != "" {
			c.country = country
		}
	}
}

// WithCategory sets the top-headlines category.
func WithCategory(category string) Option {
	return func(c *Client) {
		if category != "" {
			c.category = category
		}
	}
}

// WithPageSize bounds how many articles one request returns.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = ClampPageSize(n) }
}

// New creates a client. An empty apiKey is accepted here; Articles reports it.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   strings.TrimSpace(apiKey),
		baseURL:  DefaultBaseURL,
		country:  DefaultCountry,
		category: DefaultCategory,
		pageSize: DefaultPageSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClampPageSize bounds n to 1..MaxPageSize, treating non-positive values as the default.
func ClampPageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// Name identifies the source in logs.
func (c *Client) Name() string {
	return "newsapi"
}

// response mirrors the NewsAPI envelope; error responses carry code/message.
type response struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []RawArticle `json:"articles"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
}

// RequestURL builds the endpoint URL for a topic. An empty topic selects
// top-headlines for the configured country and category.
func (c *Client) RequestURL(topic string) string {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(c.pageSize))

	topic = strings.TrimSpace(topic)
	if topic != "" {
		q.Set("q", topic)
		q.Set("sortBy", "publishedAt")
		return c.baseURL + "/everything?" + q.Encode()
	}
	q.Set("country", c.country)
	q.Set("category", c.category)
	return c.baseURL + "/top-headlines?" + q.Encode()
}

// Articles fetches one bounded page of articles for topic and normalizes them.
func (c *Client) Articles(ctx context.Context, topic string) ([]models.Article, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RequestURL(topic), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "newsdesk/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("%w: response too large (exceeds %d bytes)", ErrUpstream, MaxResponseSize)
	}

	var payload response
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && payload.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s (%s)", ErrUpstream, resp.StatusCode, payload.Message, payload.Code)
		}
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrUpstream, decodeErr)
	}
	if payload.Status != "" && payload.Status != "ok" {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUpstream, payload.Message, payload.Code)
	}

	articles := NormalizeAll(payload.Articles)
	if len(articles) > c.pageSize {
		articles = articles[:c.pageSize]
	}
	return articles, nil
}
