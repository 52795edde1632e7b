// ABOUTME: MCP tool definitions and handlers for article operations
// ABOUTME: Lists, reads, edits, saves, restores, clears, and refreshes the article collection

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/newsdesk/internal/articles"
	"github.com/harper/newsdesk/internal/content"
	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/view"
)

type ListArticlesInput struct {
	Filter   string `json:"filter,omitempty"`
	Sort     string `json:"sort,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Topic    string `json:"topic,omitempty"`
}

type GetArticleInput struct {
	Index int `json:"index"`
}

type GetArticleOutput struct {
	Index    int            `json:"index"`
	Article  models.Article `json:"article"`
	Markdown string         `json:"markdown"`
}

type EditArticleInput struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Value string `json:"value"`
}

type EditArticleOutput struct {
	Success bool           `json:"success"`
	Index   int            `json:"index"`
	Field   string         `json:"field"`
	Before  string         `json:"before"`
	Article models.Article `json:"article"`
}

type SaveArticlesInput struct {
	Articles json.RawMessage `json:"articles"`
}

type RefreshArticlesInput struct {
	Topic string `json:"topic,omitempty"`
	Save  bool   `json:"save,omitempty"`
}

type MutationOutput struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// Tool registration

func (s *Server) registerTools() {
	s.registerListArticlesTool()
	s.registerGetArticleTool()
	s.registerEditArticleTool()
	s.registerSaveArticlesTool()
	s.registerRestoreArticlesTool()
	s.registerClearSavedArticlesTool()
	s.registerRefreshArticlesTool()
}

func (s *Server) registerListArticlesTool() {
	tool := mcp.Tool{
		Name:        "list_articles",
		Description: "List the current article collection as a filtered, sorted, paginated view. The saved collection is used when one exists, otherwise articles are fetched from the news source. Every row carries its backing index; use that index with get_article and edit_article.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"filter": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive text matched against title or author. Empty matches everything. Example: 'openai'",
				},
				"sort": map[string]interface{}{
					"type":        "string",
					"description": "Sort key: publishedAt-desc (default), publishedAt-asc, title-asc, title-desc, author-asc, author-desc, source-asc, source-desc. Aliases: newest, oldest, source-az, source-za.",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "1-based page number, clamped to the available pages. Default: 1",
				},
				"page_size": map[string]interface{}{
					"type":        "integer",
					"description": "Rows per page. Default: 5",
				},
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Topic to search when nothing is saved yet. Omit for technology top headlines.",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListArticles)
}

func (s *Server) registerGetArticleTool() {
	tool := mcp.Tool{
		Name:        "get_article",
		Description: "Get one article by backing index, with its description rendered as Markdown.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Backing index from list_articles. Example: 3",
				},
			},
			Required: []string{"index"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleGetArticle)
}

func (s *Server) registerEditArticleTool() {
	tool := mcp.Tool{
		Name:        "edit_article",
		Description: "Change the title or author of one article and save the whole collection. Other articles keep their indices.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Backing index from list_articles",
				},
				"field": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"title", "author"},
					"description": "Field to change",
				},
				"value": map[string]interface{}{
					"type":        "string",
					"description": "New value",
				},
			},
			Required: []string{"index", "field", "value"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleEditArticle)
}

func (s *Server) registerSaveArticlesTool() {
	tool := mcp.Tool{
		Name:        "save_articles",
		Description: "Replace the saved collection with the given articles. No merge is performed; the stored collection becomes exactly this array.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"articles": map[string]interface{}{
					"type":        "array",
					"description": "Articles with title, author, description, publishedAt, source {name}, and url",
					"items":       map[string]interface{}{"type": "object"},
				},
			},
			Required: []string{"articles"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSaveArticles)
}

func (s *Server) registerRestoreArticlesTool() {
	tool := mcp.Tool{
		Name:        "restore_articles",
		Description: "Undo all saved edits by restoring the original snapshot captured at the first successful fetch. Fails when no fetch has ever succeeded.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleRestoreArticles)
}

func (s *Server) registerClearSavedArticlesTool() {
	tool := mcp.Tool{
		Name:        "clear_saved_articles",
		Description: "Delete the saved collection so the next load fetches fresh articles. The original snapshot is kept.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleClearSavedArticles)
}

func (s *Server) registerRefreshArticlesTool() {
	tool := mcp.Tool{
		Name:        "refresh_articles",
		Description: "Fetch articles from the news source, ignoring the saved collection. Set save=true to replace the saved collection with the fetched one.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Topic to search. Omit for technology top headlines.",
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "Save the fetched articles. Default: false",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleRefreshArticles)
}

// Handlers

func (s *Server) handleListArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListArticlesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	key, err := view.ParseSortKey(input.Sort)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	list, err := s.collection(ctx, input.Topic)
	if err != nil {
		return s.toolError("list_articles", err)
	}

	m := view.New(list, view.WithPageSize(input.PageSize))
	m.SetFilter(input.Filter)
	if err := m.SetSort(key); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m.SetPage(input.Page)
	return jsonResult(m.View())
}

func (s *Server) handleGetArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GetArticleInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	list, err := s.svc.Session(ctx)
	if err != nil {
		return s.toolError("get_article", err)
	}
	a, err := view.New(list).Article(input.Index)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(GetArticleOutput{
		Index:    input.Index,
		Article:  a,
		Markdown: content.ArticleMarkdown(a),
	})
}

func (s *Server) handleEditArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input EditArticleInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	field, err := models.ParseField(input.Field)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	list, err := s.svc.Session(ctx)
	if err != nil {
		return s.toolError("edit_article", err)
	}
	m := view.New(list)
	before, err := m.Article(input.Index)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := m.EditField(input.Index, field, input.Value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Save(ctx, m.Articles()); err != nil {
		return s.toolError("edit_article", err)
	}

	prev, _ := before.GetField(field)
	after, _ := m.Article(input.Index)
	return jsonResult(EditArticleOutput{
		Success: true,
		Index:   input.Index,
		Field:   string(field),
		Before:  prev,
		Article: after,
	})
}

func (s *Server) handleSaveArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SaveArticlesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	saved, err := s.svc.SaveJSON(ctx, input.Articles)
	if err != nil {
		return s.toolError("save_articles", err)
	}
	return jsonResult(MutationOutput{
		Success: true,
		Count:   len(saved),
		Message: fmt.Sprintf("Saved %d articles", len(saved)),
	})
}

func (s *Server) handleRestoreArticles(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	restored, err := s.svc.Restore(ctx)
	if err != nil {
		return s.toolError("restore_articles", err)
	}
	return jsonResult(MutationOutput{
		Success: true,
		Count:   len(restored),
		Message: fmt.Sprintf("Restored %d articles from the original snapshot", len(restored)),
	})
}

func (s *Server) handleClearSavedArticles(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.svc.Clear(ctx); err != nil {
		return s.toolError("clear_saved_articles", err)
	}
	return jsonResult(MutationOutput{
		Success: true,
		Message: "Saved articles cleared",
	})
}

func (s *Server) handleRefreshArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input RefreshArticlesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	fetched, err := s.svc.Refresh(ctx, input.Topic)
	if err != nil {
		return s.toolError("refresh_articles", err)
	}
	msg := fmt.Sprintf("Fetched %d articles", len(fetched))
	if input.Save {
		if err := s.svc.Save(ctx, fetched); err != nil {
			return s.toolError("refresh_articles", err)
		}
		msg += " and saved them"
	}
	return jsonResult(MutationOutput{
		Success: true,
		Count:   len(fetched),
		Message: msg,
	})
}

// collection returns the session collection, or a fresh load when a topic is named.
func (s *Server) collection(ctx context.Context, topic string) ([]models.Article, error) {
	if topic != "" {
		return s.svc.Load(ctx, topic)
	}
	return s.svc.Session(ctx)
}

// toolError reports taxonomy failures as tool results so the agent can react;
// anything outside the taxonomy is a protocol-level failure.
func (s *Server) toolError(tool string, err error) (*mcp.CallToolResult, error) {
	if articles.Kind(err) == nil {
		return nil, fmt.Errorf("%s: %w", tool, err)
	}
	if errors.Is(err, articles.ErrStoreFailure) || errors.Is(err, articles.ErrUpstreamUnavailable) {
		s.logger.Error("tool failed", "tool", tool, "err", err)
	}
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
