// Package mcpserver exposes the knowledge base to AI agents over the
// Model Context Protocol on stdio.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/notebase/internal/synth"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes note search and synthesis
// tools.
type Server struct {
	engine *synth.Engine
	topK   int
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server around the synthesis engine.
func NewServer(engine *synth.Engine, topK int) *Server {
	s := &Server{
		engine: engine,
		topK:   topK,
	}

	s.mcp = server.NewMCPServer(
		"notebase",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchNotesTool, s.handleSearchNotes)
	s.mcp.AddTool(askNotesTool, s.handleAskNotes)
	s.mcp.AddTool(summarizeTopicTool, s.handleSummarizeTopic)
	s.mcp.AddTool(listTagsTool, s.handleListTags)
	s.mcp.AddTool(kbStatsTool, s.handleStats)
}

// Serve starts the MCP server on stdio. Stdout carries MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
