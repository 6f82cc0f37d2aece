// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido's organizer operations for LLM integration via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/history"
	"github.com/starford/raido/internal/organize"
	"github.com/starford/raido/internal/rules"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp   *server.MCPServer
	store *rules.Store
	org   *organize.Organizer
	hist  history.Recorder
}

// New creates a new MCP server with all Raido tools registered.
// hist may be nil when no activity log is configured.
func New(store *rules.Store, org *organize.Organizer, hist history.Recorder) *Server {
	s := &Server{store: store, org: org, hist: hist}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_config",
		mcp.WithDescription("Returns the active ruleset: settings, watchlist, and move/rename schema."),
	), s.getConfig)

	s.mcp.AddTool(mcp.NewTool("organize_file",
		mcp.WithDescription("Resolve download provenance for a file and move it to its destination "+
			"directory according to the configured routing rules."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path of the file to organize")),
	), s.organizeFile)

	s.mcp.AddTool(mcp.NewTool("rename_file",
		mcp.WithDescription("Rename a file from an AI-generated description of its content. "+
			"Supports images, PDFs, slide decks, and plain text."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path of the file to rename")),
	), s.renameFile)

	s.mcp.AddTool(mcp.NewTool("recent_activity",
		mcp.WithDescription("List the most recent file moves and renames performed by the organizer."),
		mcp.WithString("limit", mcp.Description("Maximum number of entries (default 50)")),
	), s.recentActivity)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getConfig(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(s.store.Snapshot(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) organizeFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newPath, err := s.org.OrganizeNow(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("moved to: %s", newPath)), nil
}

func (s *Server) renameFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newPath, err := s.org.RenameWithAI(ctx, path, s.store.Snapshot())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("renamed to: %s", newPath)), nil
}

func (s *Server) recentActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.hist == nil {
		return mcp.NewToolResultText("activity log disabled"), nil
	}
	limit := 50
	if raw := req.GetString("limit", ""); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	events, err := s.hist.Recent(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("no recorded activity"), nil
	}
	out, _ := json.MarshalIndent(events, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
