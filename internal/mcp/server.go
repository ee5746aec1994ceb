package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/omarselim/codeviz/internal/bundle"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the diagram pipeline as tools.
type Server struct {
	orchestrator *bundle.Orchestrator
	mcp          *server.MCPServer
}

// NewServer creates a new MCP server with the given diagram orchestrator.
func NewServer(orchestrator *bundle.Orchestrator) *Server {
	s := &Server{orchestrator: orchestrator}

	s.mcp = server.NewMCPServer(
		"codeviz",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(generateDiagramsTool, s.handleGenerateDiagrams)
	s.mcp.AddTool(extractFlowModelTool, s.handleExtractFlowModel)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
