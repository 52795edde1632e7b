// ABOUTME: MCP server implementation for newsdesk
// ABOUTME: Provides tools, resources, and prompts for AI agents to curate the article collection

package mcp

import (
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/newsdesk/internal/articles"
)

// Server wraps the MCP server with the article service it drives.
type Server struct {
	mcpServer *server.MCPServer
	svc       *articles.Service
	logger    *log.Logger
	version   string
}

// NewServer creates a new MCP server instance.
func NewServer(svc *articles.Service, logger *log.Logger, version string) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if version == "" {
		version = "dev"
	}
	s := &Server{
		svc:     svc,
		logger:  logger,
		version: version,
	}

	s.mcpServer = server.NewMCPServer(
		"newsdesk",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
