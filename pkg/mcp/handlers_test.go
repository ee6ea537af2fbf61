package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitley/reprjson/pkg/cache"
)

// --- helpers ---

func testServer(t *testing.T) *Server {
	t.Helper()
	conversions, err := cache.New(cache.DefaultConfig(), nil)
	require.NoError(t, err)
	return NewServer(conversions, nil)
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "convert_repr":
		handler = s.handleConvertRepr
	case "convert_file":
		handler = s.handleConvertFile
	case "detect_repr":
		handler = s.handleDetectRepr
	case "cache_stats":
		handler = s.handleCacheStats
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- convert_repr ---

func TestHandleConvertRepr(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("convert_repr", map[string]any{
		"input": `{name: 'Bob', active: True}`,
	}))
	assert.False(t, result.IsError)

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &v))
	assert.Equal(t, map[string]any{"name": "Bob", "active": true}, v)
}

func TestHandleConvertReprFailure(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("convert_repr", map[string]any{
		"input": `{a: 1`,
	}))
	assert.True(t, result.IsError)
}

func TestHandleConvertReprMissingInput(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("convert_repr", nil))
	assert.True(t, result.IsError)
}

// --- convert_file ---

func TestHandleConvertFile(t *testing.T) {
	s := testServer(t)
	path := filepath.Join(t.TempDir(), "dump.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{path: [default]Tag1/SubTag}`), 0644))

	result := callTool(t, s, makeRequest("convert_file", map[string]any{"path": path}))
	assert.False(t, result.IsError)

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &v))
	assert.Equal(t, map[string]any{"path": "[default]Tag1/SubTag"}, v)
}

func TestHandleConvertFileMissing(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("convert_file", map[string]any{
		"path": filepath.Join(t.TempDir(), "nope.txt"),
	}))
	assert.True(t, result.IsError)
}

// --- detect_repr ---

func TestHandleDetectRepr(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest("detect_repr", map[string]any{"input": `u'x'`}))
	assert.JSONEq(t, `{"repr": true}`, resultText(t, result))

	result = callTool(t, s, makeRequest("detect_repr", map[string]any{"input": `{"a": 1}`}))
	assert.JSONEq(t, `{"repr": false}`, resultText(t, result))
}

// --- cache_stats ---

func TestHandleCacheStats(t *testing.T) {
	s := testServer(t)

	callTool(t, s, makeRequest("convert_repr", map[string]any{"input": `{a: 1}`}))
	callTool(t, s, makeRequest("convert_repr", map[string]any{"input": `{a: 1}`}))

	result := callTool(t, s, makeRequest("cache_stats", nil))
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &stats))
	assert.Equal(t, float64(1), stats["hits"])
	assert.Equal(t, float64(1), stats["misses"])
	assert.Equal(t, float64(1), stats["entries"])
}
