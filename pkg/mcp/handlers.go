package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mwhitley/reprjson/pkg/convert"
)

// maxFileSize bounds convert_file reads; pasted console output is small and
// anything larger is almost certainly not a repr dump.
const maxFileSize = 16 << 20

func (s *Server) handleConvertRepr(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := s.conversions.Convert(input)
	if !res.Success {
		return mcp.NewToolResultError(res.Error), nil
	}
	return mcp.NewToolResultText(res.JSON), nil
}

func (s *Server) handleConvertFile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read %s: %v", path, err)), nil
	}
	if info.Size() > maxFileSize {
		return mcp.NewToolResultError(fmt.Sprintf("%s is too large to convert (%d bytes)", path, info.Size())), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read %s: %v", path, err)), nil
	}

	res := s.conversions.Convert(string(content))
	if !res.Success {
		return mcp.NewToolResultError(res.Error), nil
	}
	return mcp.NewToolResultText(res.JSON), nil
}

func (s *Server) handleDetectRepr(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := json.Marshal(map[string]bool{"repr": convert.LooksLikeRepr(input)})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleCacheStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.conversions.Stats()
	out, err := json.Marshal(map[string]any{
		"hits":      stats.Hits,
		"misses":    stats.Misses,
		"evictions": stats.Evictions,
		"entries":   stats.Entries,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
