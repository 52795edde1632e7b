// ABOUTME: Configuration management with storage backend and news source selection
// ABOUTME: Resolves secrets from env vars and builds stores, sources, and the article service

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"

	"github.com/harper/newsdesk/internal/articles"
	"github.com/harper/newsdesk/internal/feedsource"
	"github.com/harper/newsdesk/internal/newsapi"
	"github.com/harper/newsdesk/internal/storage"
)

// Backend names accepted in the backend field.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongoDB  = "mongodb"
	BackendCharm    = "charm"
)

// Source names accepted in the source field.
const (
	SourceNewsAPI = "newsapi"
	SourceRSS     = "rss"
)

// Environment variables consulted when the matching field is empty.
const (
	EnvNewsAPIKey  = "NEWS_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
	EnvMongoDBURI  = "MONGODB_URI"
)

var (
	validBackends = []string{BackendFile, BackendMemory, BackendSQLite, BackendPostgres, BackendMongoDB, BackendCharm}
	validSources  = []string{SourceNewsAPI, SourceRSS}
)

// Config stores newsdesk configuration.
type Config struct {
	// Backend selects the article store. Defaults to "file".
	Backend string `json:"backend,omitempty"`

	// DataDir holds file and sqlite stores. Supports ~ expansion.
	// Defaults to $XDG_DATA_HOME/newsdesk.
	DataDir string `json:"data_dir,omitempty"`

	// Source selects the remote news source: "newsapi" (default) or "rss".
	Source string `json:"source,omitempty"`

	NewsAPIKey string `json:"news_api_key,omitempty"`
	NewsAPIURL string `json:"news_api_url,omitempty"`
	FeedURL    string `json:"feed_url,omitempty"`

	Topic    string `json:"topic,omitempty"`
	Category string `json:"category,omitempty"`
	Country  string `json:"country,omitempty"`
	PageSize int    `json:"page_size,omitempty"`

	ListenAddress string `json:"listen_address,omitempty"`

	DatabaseURL       string `json:"database_url,omitempty"`
	MongoDBURI        string `json:"mongodb_uri,omitempty"`
	MongoDBDatabase   string `json:"mongodb_database,omitempty"`
	MongoDBCollection string `json:"mongodb_collection,omitempty"`

	CharmDB       string `json:"charm_db,omitempty"`
	CharmAutoSync bool   `json:"charm_auto_sync,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "file".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendFile
	}
	return strings.ToLower(c.Backend)
}

// GetSource returns the configured news source, defaulting to "newsapi".
func (c *Config) GetSource() string {
	if c.Source == "" {
		return SourceNewsAPI
	}
	return strings.ToLower(c.Source)
}

// GetDataDir returns the data directory with ~ expanded.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DefaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetPageSize returns the fetch page size, defaulting to DefaultFetchPageSize.
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return DefaultFetchPageSize
	}
	return c.PageSize
}

// GetListenAddress returns the HTTP listen address.
func (c *Config) GetListenAddress() string {
	if c.ListenAddress == "" {
		return DefaultListenAddress
	}
	return c.ListenAddress
}

// APIKey returns the news API key from config, falling back to NEWS_API_KEY.
func (c *Config) APIKey() string {
	if c.NewsAPIKey != "" {
		return c.NewsAPIKey
	}
	return strings.TrimSpace(os.Getenv(EnvNewsAPIKey))
}

// GetDatabaseURL returns the postgres connection string, falling back to DATABASE_URL.
func (c *Config) GetDatabaseURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return os.Getenv(EnvDatabaseURL)
}

// GetMongoDBURI returns the MongoDB URI, falling back to MONGODB_URI.
func (c *Config) GetMongoDBURI() string {
	if c.MongoDBURI != "" {
		return c.MongoDBURI
	}
	return os.Getenv(EnvMongoDBURI)
}

// GetMongoDBDatabase returns the MongoDB database name.
func (c *Config) GetMongoDBDatabase() string {
	if c.MongoDBDatabase == "" {
		return DefaultMongoDBDatabase
	}
	return c.MongoDBDatabase
}

// GetMongoDBCollection returns the MongoDB collection name.
func (c *Config) GetMongoDBCollection() string {
	if c.MongoDBCollection == "" {
		return DefaultMongoDBCollection
	}
	return c.MongoDBCollection
}

// GetCharmDB returns the charm kv database name.
func (c *Config) GetCharmDB() string {
	if c.CharmDB == "" {
		return storage.DefaultCharmDB
	}
	return c.CharmDB
}

// Validate rejects unknown backends and sources and out-of-range page sizes.
func (c *Config) Validate() error {
	if !slices.Contains(validBackends, c.GetBackend()) {
		return fmt.Errorf("unknown backend %q (valid: %s)", c.Backend, strings.Join(validBackends, ", "))
	}
	if !slices.Contains(validSources, c.GetSource()) {
		return fmt.Errorf("unknown source %q (valid: %s)", c.Source, strings.Join(validSources, ", "))
	}
	if c.PageSize < 0 || c.PageSize > newsapi.MaxPageSize {
		return fmt.Errorf("page_size %d out of range (1..%d)", c.PageSize, newsapi.MaxPageSize)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates the Store for the configured backend. Backends that
// need a connection string fail with articles.ErrConfigurationMissing without one.
func (c *Config) OpenStorage(ctx context.Context) (storage.Store, error) {
	switch backend := c.GetBackend(); backend {
	case BackendMemory:
		return storage.NewMemoryStore(), nil
	case BackendFile:
		return storage.NewFileStore(c.GetDataDir())
	case BackendSQLite:
		return storage.NewSQLiteStore(filepath.Join(c.GetDataDir(), DefaultSQLiteFilename))
	case BackendPostgres:
		dsn := c.GetDatabaseURL()
		if dsn == "" {
			return nil, fmt.Errorf("%w: postgres backend needs database_url or %s", articles.ErrConfigurationMissing, EnvDatabaseURL)
		}
		return storage.NewPostgresStore(ctx, dsn)
	case BackendMongoDB:
		uri := c.GetMongoDBURI()
		if uri == "" {
			return nil, fmt.Errorf("%w: mongodb backend needs mongodb_uri or %s", articles.ErrConfigurationMissing, EnvMongoDBURI)
		}
		return storage.NewMongoStore(ctx, uri, c.GetMongoDBDatabase(), c.GetMongoDBCollection())
	case BackendCharm:
		return storage.NewCharmStore(c.GetCharmDB(), c.CharmAutoSync), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenSource creates the remote news source. A missing credential is not an
// error here; the source reports it when first asked for articles.
func (c *Config) OpenSource() (articles.Source, error) {
	switch source := c.GetSource(); source {
	case SourceNewsAPI:
		opts := []newsapi.Option{
			newsapi.WithPageSize(c.GetPageSize()),
			newsapi.WithCountry(c.Country),
			newsapi.WithCategory(c.Category),
			newsapi.WithHTTPClient(&http.Client{Timeout: DefaultHTTPTimeout}),
		}
		if c.NewsAPIURL != "" {
			opts = append(opts, newsapi.WithBaseURL(c.NewsAPIURL))
		}
		return newsapi.New(c.APIKey(), opts...), nil
	case SourceRSS:
		return feedsource.New(c.FeedURL, c.GetPageSize()), nil
	default:
		return nil, fmt.Errorf("unknown source: %q", source)
	}
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsdesk", "config.json")
}

// Load reads config from path, or from GetConfigPath when path is empty.
// A missing file yields defaults, which are written back on a best-effort basis.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultFirstRunConfig()
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path atomically.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPerms); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Backends lists the accepted backend names, default first.
func Backends() []string {
	return slices.Clone(validBackends)
}

// DefaultDataDir returns the standard XDG data directory for newsdesk.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "newsdesk")
}

// defaultFirstRunConfig keeps an existing sqlite database as the backend
// when one is found, otherwise starts new users on the file store.
func defaultFirstRunConfig() *Config {
	dbPath := filepath.Join(DefaultDataDir(), DefaultSQLiteFilename)
	_, err := os.Stat(dbPath)
	switch {
	case err == nil:
		return &Config{Backend: BackendSQLite}
	case !os.IsNotExist(err):
		fmt.Fprintf(os.Stderr, "warning: could not check for existing database: %v\n", err)
	}
	return &Config{Backend: BackendFile}
}
