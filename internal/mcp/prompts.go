// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides workflow templates for curating and cleaning up the article collection

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.registerCurateArticlesPrompt()
	s.registerFixBylinesPrompt()
}

func (s *Server) registerCurateArticlesPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "curate-articles",
			Description: "Review the current tech news collection, tidy headlines, and save the result",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "topic",
					Description: "Optional topic to fetch when nothing is saved yet (e.g. 'ai', 'golang')",
					Required:    false,
				},
			},
		},
		s.handleCurateArticles,
	)
}

func (s *Server) handleCurateArticles(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	fetchHint := "technology top headlines"
	if topic != "" {
		fetchHint = fmt.Sprintf("articles about %q", topic)
	}

	template := fmt.Sprintf(`# Curate Articles

## Overview
Walk the article collection page by page, fix headlines that are truncated,
shouty, or carry a trailing " - Source Name", then save once at the end.

## Workflow Steps

### Step 1: Load the collection
Call list_articles with sort="newest" and topic=%[1]q.
If nothing is saved yet this fetches %[2]s and captures the original snapshot.

### Step 2: Review each page
Increase page until page == totalPages. For each row note its index.
Use get_article(index) when the description is needed to judge a headline.

### Step 3: Edit
Call edit_article(index, field="title", value=...) for each headline to fix.
Each edit saves the whole collection; indices never shift.

### Step 4: Verify
Call list_articles again with the same settings and confirm the edits.

## If something goes wrong
restore_articles returns the collection to the snapshot from the first fetch.
clear_saved_articles drops the saved collection; the next load fetches fresh.
`, topic, fetchHint)

	return &mcp.GetPromptResult{
		Description: "Curate the article collection",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) registerFixBylinesPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "fix-bylines",
			Description: "Find articles with missing or malformed authors and fill them in",
			Arguments:   []mcp.PromptArgument{},
		},
		s.handleFixBylines,
	)
}

func (s *Server) handleFixBylines(_ context.Context, _ mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	template := `# Fix Bylines

## Workflow Steps

### Step 1: Find missing authors
Call list_articles with sort="author-asc" and page_size=20.
Articles without an author sort first.

### Step 2: Look for a byline
For each such article call get_article(index). News APIs often put the
author in the description ("By Jane Doe") or use the outlet as the author.

### Step 3: Edit
Call edit_article(index, field="author", value=...) when a byline is found.
Leave the author empty when none can be determined; do not guess.

### Step 4: Normalize
Authors that are URLs or email addresses should become the person's name.
`

	return &mcp.GetPromptResult{
		Description: "Fill in missing article authors",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
