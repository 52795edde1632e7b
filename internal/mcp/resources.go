// ABOUTME: MCP resource providers for newsdesk
// ABOUTME: Exposes read-only views of the article collection and service status

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/newsdesk/internal/timeutil"
	"github.com/harper/newsdesk/internal/view"
)

const (
	articlesURI = "newsdesk://articles"
	statusURI   = "newsdesk://status"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Count       int       `json:"count"`
	ResourceURI string    `json:"resource_uri"`
}

// StatusData describes the service wiring and collection freshness.
type StatusData struct {
	Store         string `json:"store"`
	Source        string `json:"source"`
	Version       string `json:"version"`
	ArticleCount  int    `json:"article_count"`
	NewestArticle string `json:"newest_article,omitempty"`
	NewestAge     string `json:"newest_age,omitempty"`
	LoadError     string `json:"load_error,omitempty"`
}

func (s *Server) registerResources() {
	s.registerArticlesResource()
	s.registerStatusResource()
}

func (s *Server) registerArticlesResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         articlesURI,
			Name:        "Article Collection",
			Description: "The current article collection in backing order. Indices match list_articles and edit_article.",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			list, err := s.svc.Session(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to load articles: %w", err)
			}
			return resourceJSON(request.Params.URI, ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       len(list),
					ResourceURI: articlesURI,
				},
				Data:  list,
				Links: map[string]string{"status": statusURI},
			})
		},
	)
}

func (s *Server) registerStatusResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         statusURI,
			Name:        "Service Status",
			Description: "Which store and news source are configured, how many articles are loaded, and how fresh the newest one is",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			status := s.status(ctx, time.Now())
			return resourceJSON(request.Params.URI, ResourceData{
				Metadata: ResourceMetadata{
					Timestamp:   time.Now(),
					Count:       status.ArticleCount,
					ResourceURI: statusURI,
				},
				Data:  status,
				Links: map[string]string{"articles": articlesURI},
			})
		},
	)
}

// status never fails; a load error is reported inside the data.
func (s *Server) status(ctx context.Context, now time.Time) StatusData {
	st := StatusData{
		Store:   s.svc.StoreName(),
		Source:  s.svc.SourceName(),
		Version: s.version,
	}
	list, err := s.svc.Session(ctx)
	if err != nil {
		st.LoadError = err.Error()
		return st
	}
	st.ArticleCount = len(list)

	page := view.New(list, view.WithPageSize(1)).View()
	if len(page.Rows) > 0 {
		newest := page.Rows[0].Article
		st.NewestArticle = newest.Title
		st.NewestAge = timeutil.Describe(newest.PublishedAt, now)
	}
	return st
}

func resourceJSON(uri string, data ResourceData) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
