package mcp

import "github.com/mark3labs/mcp-go/mcp"

func convertReprTool() mcp.Tool {
	return mcp.NewTool("convert_repr",
		mcp.WithDescription("Convert repr-style debug output (single quotes, u'' prefixes, True/False/None, "+
			"unquoted tag paths and dates) into valid, pretty-printed JSON"),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description("Raw text to convert, e.g. copied from a script console"),
		),
	)
}

func convertFileTool() mcp.Tool {
	return mcp.NewTool("convert_file",
		mcp.WithDescription("Read a file containing repr-style output and convert it to JSON"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the file to convert"),
		),
	)
}

func detectReprTool() mcp.Tool {
	return mcp.NewTool("detect_repr",
		mcp.WithDescription("Report whether text carries repr notation signals worth converting"),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description("Text to inspect"),
		),
	)
}

func cacheStatsTool() mcp.Tool {
	return mcp.NewTool("cache_stats",
		mcp.WithDescription("Conversion cache counters: hits, misses, evictions, entries"),
	)
}
