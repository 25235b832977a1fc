package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// loadRecordsTool returns the tool definition for load_records
func loadRecordsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "load_records",
		Description: "Replace the loaded record set from a JSON dump or directory scan",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Record dump file (JSON array or JSON-lines), or a directory with from_dir",
				},
				"from_dir": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, scan path as a directory tree of Python files",
					"default":     false,
				},
			},
			Required: []string{"path"},
		},
	}
}

// listRecordsTool returns the tool definition for list_records
func listRecordsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_records",
		Description: "List one page of the current record view, optionally re-sorted",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based page number",
					"default":     0,
					"minimum":     0,
				},
				"sort_key": map[string]interface{}{
					"type":        "string",
					"description": "Column to sort by",
					"enum":        []string{"name", "size", "lines", "type", "quality"},
				},
				"ascending": map[string]interface{}{
					"type":        "boolean",
					"description": "Sort direction, used only with sort_key",
					"default":     true,
				},
			},
		},
	}
}

// getRecordTool returns the tool definition for get_record
func getRecordTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_record",
		Description: "Fetch one record with its full quality checklist",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Record index in the loaded set",
					"minimum":     0,
				},
				"include_content": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include the record's source text",
					"default":     false,
				},
			},
			Required: []string{"index"},
		},
	}
}

// filterRecordsTool returns the tool definition for filter_records
func filterRecordsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "filter_records",
		Description: "Filter records by detected type, size range, and quality, and make the matches the current view",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"labels": map[string]interface{}{
					"type":        "array",
					"description": "Detected type labels to match (any overlap counts)",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"min_size": map[string]interface{}{
					"type":        "integer",
					"description": "Minimum record size in bytes",
					"minimum":     0,
				},
				"max_size": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum record size in bytes (0 = unbounded)",
					"minimum":     0,
				},
				"min_quality_pct": map[string]interface{}{
					"type":        "integer",
					"description": "Minimum quality percentage (0 disables the check)",
					"minimum":     0,
					"maximum":     100,
				},
				"preview": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, report match counts without changing the view",
					"default":     false,
				},
			},
		},
	}
}

// searchRecordsTool returns the tool definition for search_records
func searchRecordsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_records",
		Description: "Substring-search one record field and make the matches the current view",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"field": map[string]interface{}{
					"type":        "string",
					"description": "Record field to search",
					"enum":        []string{"repo_name", "path", "content"},
				},
				"term": map[string]interface{}{
					"type":        "string",
					"description": "Substring to look for",
				},
				"case_sensitive": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, match case exactly",
					"default":     false,
				},
			},
			Required: []string{"field", "term"},
		},
	}
}

// clearFilterTool returns the tool definition for clear_filter
func clearFilterTool() mcp.Tool {
	return mcp.Tool{
		Name:        "clear_filter",
		Description: "Reset the view to the full record set",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getStatisticsTool returns the tool definition for get_statistics
func getStatisticsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_statistics",
		Description: "Summarize the loaded set: totals plus license and extension distributions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"top": map[string]interface{}{
					"type":        "integer",
					"description": "How many distribution entries to return per category",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}

// exportRecordsTool returns the tool definition for export_records
func exportRecordsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "export_records",
		Description: "Write the current view's records (or explicit indices) as files into a directory",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"dir": map[string]interface{}{
					"type":        "string",
					"description": "Destination directory, created if missing",
				},
				"indices": map[string]interface{}{
					"type":        "array",
					"description": "Record indices to export; defaults to every match in the current view",
					"items": map[string]interface{}{
						"type":    "integer",
						"minimum": 0,
					},
				},
			},
			Required: []string{"dir"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report record count, view state, and metric cache coverage",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
