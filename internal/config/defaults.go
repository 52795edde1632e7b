// ABOUTME: Centralized configuration defaults for newsdesk
// ABOUTME: Contains magic numbers and hardcoded values for fetching, display, and storage

package config

import "time"

// HTTP settings
const (
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultListenAddress   = "127.0.0.1:3000"
	DefaultShutdownTimeout = 10 * time.Second
	MaxRequestBodyBytes    = 1 << 20
)

// Fetch settings
const (
	DefaultFetchPageSize = 10
	DefaultCategory      = "technology"
	DefaultCountry       = "us"
)

// Display settings
const (
	DefaultViewPageSize = 5
	SummaryWidth        = 72
	SeparatorWidth      = 60
)

// Storage settings
const (
	DefaultSQLiteFilename    = "newsdesk.db"
	DefaultMongoDBDatabase   = "newsdesk"
	DefaultMongoDBCollection = "articles"
	DefaultDirPerms          = 0755
)
