// Package mcp exposes the converter to AI agents over the Model Context
// Protocol. The server is a thin shell over the single convert capability:
// tools never extend the converter's language semantics.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/mwhitley/reprjson/pkg/cache"
	"github.com/mwhitley/reprjson/pkg/mcplog"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for reprjson, exposing conversion tools.
type Server struct {
	mcpServer   *server.MCPServer
	conversions *cache.ConversionCache
	logger      *mcplog.Logger // may be nil (tool-call logging disabled)
}

// NewServer creates a new MCP server backed by the given conversion cache
// and optional tool-call logger.
func NewServer(conversions *cache.ConversionCache, logger *mcplog.Logger) *Server {
	s := &Server{conversions: conversions, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("reprjson", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: convertReprTool(), Handler: s.handleConvertRepr},
		server.ServerTool{Tool: convertFileTool(), Handler: s.handleConvertFile},
		server.ServerTool{Tool: detectReprTool(), Handler: s.handleDetectRepr},
		server.ServerTool{Tool: cacheStatsTool(), Handler: s.handleCacheStats},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
