package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/shuvrobasu/repo-view-extract/internal/store"
	"github.com/shuvrobasu/repo-view-extract/internal/view"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// MCP error codes (JSON-RPC 2.0 standard codes)
const (
	ErrorCodeInvalidParams = -32602
	ErrorCodeInternalError = -32603
)

// handleLoadRecords handles the load_records tool invocation
func (s *Server) handleLoadRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path := getStringDefault(args, "path", "")
	if path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	records, err := loadRecords(ctx, path, getBoolDefault(args, "from_dir", false))
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "load failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Stop the running scan before the store it iterates is replaced.
	s.indexer.Cancel()
	s.store.Replace(records)
	s.cache.InvalidateAll()
	s.engine.Reset()
	s.view.SetMatches(allIndices(s.store.Len()))
	_ = s.indexer.Start(context.Background(), quietNotifier{})

	response := map[string]interface{}{
		"path":    path,
		"records": s.store.Len(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListRecords handles the list_records tool invocation
func (s *Server) handleListRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	if key := getStringDefault(args, "sort_key", ""); key != "" {
		sortKey, err := parseSortKey(key)
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid sort_key", map[string]interface{}{
				"param":   "sort_key",
				"value":   key,
				"allowed": []string{"name", "size", "lines", "type", "quality"},
			})
		}
		s.view.SetSort(sortKey, getBoolDefault(args, "ascending", true))
	}

	page := getIntDefault(args, "page", 0)
	if page < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "page must be non-negative", map[string]interface{}{
			"param": "page",
			"value": page,
		})
	}

	window := s.view.Page(page)
	records := make([]map[string]interface{}, 0, len(window))
	for _, idx := range window {
		records = append(records, s.recordSummary(idx))
	}

	sortKey, ascending := s.view.Sort()
	response := map[string]interface{}{
		"page":       s.view.CurrentPage(),
		"page_count": s.view.PageCount(),
		"matches":    s.view.Len(),
		"sort_key":   string(sortKey),
		"ascending":  ascending,
		"records":    records,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetRecord handles the get_record tool invocation
func (s *Server) handleGetRecord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	idx, ok := getInt(args, "index")
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "index parameter is required", map[string]interface{}{
			"param":  "index",
			"reason": "missing or not an integer",
		})
	}

	rec, err := s.store.Record(idx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "index out of range", map[string]interface{}{
			"param": "index",
			"value": idx,
			"count": s.store.Len(),
		})
	}

	entry := s.cache.GetOrCompute(idx, types.TierFull)
	response := map[string]interface{}{
		"index":      idx,
		"repo_name":  rec.RepoName,
		"path":       rec.Path,
		"license":    rec.License,
		"copies":     rec.Copies,
		"name":       entry.FullName,
		"size":       entry.SizeBytes,
		"size_label": entry.SizeLabel,
		"lines":      entry.Lines,
		"labels":     entry.Labels,
		"quality": map[string]interface{}{
			"score":     entry.QualityScore,
			"percent":   entry.QualityPct,
			"stars":     entry.Stars,
			"checklist": entry.Checklist,
		},
	}
	if getBoolDefault(args, "include_content", false) {
		response["content"] = rec.Content
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFilterRecords handles the filter_records tool invocation
func (s *Server) handleFilterRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	spec := types.FilterSpec{
		MinQualityPct: getIntDefault(args, "min_quality_pct", 0),
	}
	if spec.MinQualityPct < 0 || spec.MinQualityPct > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "min_quality_pct must be between 0 and 100", map[string]interface{}{
			"param": "min_quality_pct",
			"value": spec.MinQualityPct,
		})
	}

	if raw, ok := args["labels"].([]interface{}); ok {
		for _, v := range raw {
			label, ok := v.(string)
			if !ok {
				return nil, newMCPError(ErrorCodeInvalidParams, "labels must be strings", map[string]interface{}{
					"param": "labels",
				})
			}
			spec.Labels = append(spec.Labels, label)
		}
	}

	_, hasMin := getInt(args, "min_size")
	_, hasMax := getInt(args, "max_size")
	if hasMin || hasMax {
		spec.SizeEnabled = true
		spec.MinSize = int64(getIntDefault(args, "min_size", 0))
		spec.MaxSize = int64(getIntDefault(args, "max_size", 0))
		if spec.MinSize < 0 || spec.MaxSize < 0 {
			return nil, newMCPError(ErrorCodeInvalidParams, "sizes must be non-negative", nil)
		}
	}

	res, err := s.engine.Evaluate(ctx, spec)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "filter evaluation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	preview := getBoolDefault(args, "preview", false)
	if !preview {
		s.view.SetMatches(res.Matches)
	}

	response := map[string]interface{}{
		"matches":      len(res.Matches),
		"total":        res.Total,
		"applied":      !preview,
		"type_dist":    res.TypeDist,
		"quality_dist": starDist(res.QualityDist),
	}
	if !preview {
		response["page_count"] = s.view.PageCount()
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchRecords handles the search_records tool invocation
func (s *Server) handleSearchRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	field, err := parseSearchField(getStringDefault(args, "field", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid field", map[string]interface{}{
			"param":   "field",
			"allowed": []string{"repo_name", "path", "content"},
		})
	}

	term := getStringDefault(args, "term", "")
	if term == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "term parameter is required", map[string]interface{}{
			"param":  "term",
			"reason": "missing or empty",
		})
	}

	spec := types.SearchSpec{
		Field:         field,
		Term:          term,
		CaseSensitive: getBoolDefault(args, "case_sensitive", false),
	}
	matches, err := s.engine.Search(ctx, spec)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.view.SetMatches(matches)

	response := map[string]interface{}{
		"field":      string(field),
		"term":       term,
		"matches":    len(matches),
		"page_count": s.view.PageCount(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleClearFilter handles the clear_filter tool invocation
func (s *Server) handleClearFilter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.view.SetMatches(allIndices(s.store.Len()))
	response := map[string]interface{}{
		"matches":    s.view.Len(),
		"page_count": s.view.PageCount(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatistics handles the get_statistics tool invocation
func (s *Server) handleGetStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	top := getIntDefault(args, "top", 10)
	if top < 1 || top > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "top must be between 1 and 100", map[string]interface{}{
			"param": "top",
			"value": top,
		})
	}

	stats := s.store.Statistics()
	response := map[string]interface{}{
		"total_records":       stats.TotalRecords,
		"total_bytes":         stats.TotalBytes,
		"total_size":          humanize.Bytes(uint64(stats.TotalBytes)),
		"average_bytes":       stats.AverageBytes,
		"average_size":        humanize.Bytes(uint64(stats.AverageBytes)),
		"licenses":            distribution(stats.Licenses, top),
		"extensions":          distribution(stats.Extensions, top),
		"distinct_licenses":   len(stats.Licenses),
		"distinct_extensions": len(stats.Extensions),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleExportRecords handles the export_records tool invocation
func (s *Server) handleExportRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	dir := getStringDefault(args, "dir", "")
	if dir == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "dir parameter is required", map[string]interface{}{
			"param":  "dir",
			"reason": "missing or empty",
		})
	}

	var indices []int
	if raw, ok := args["indices"].([]interface{}); ok {
		for _, v := range raw {
			f, ok := v.(float64)
			if !ok || int(f) < 0 || int(f) >= s.store.Len() {
				return nil, newMCPError(ErrorCodeInvalidParams, "indices must be valid record indices", map[string]interface{}{
					"param": "indices",
					"count": s.store.Len(),
				})
			}
			indices = append(indices, int(f))
		}
	} else {
		indices = s.view.Matches()
	}

	res, err := s.exporter().Export(ctx, dir, indices, nil)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "export failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"dir":      dir,
		"exported": res.Exported,
		"skipped":  res.Skipped,
		"failed":   res.Failed,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sortKey, ascending := s.view.Sort()
	response := map[string]interface{}{
		"records":       s.store.Len(),
		"cached":        s.cache.Len(),
		"indexer_state": s.indexer.State().String(),
		"view": map[string]interface{}{
			"matches":    s.view.Len(),
			"page":       s.view.CurrentPage(),
			"page_count": s.view.PageCount(),
			"sort_key":   string(sortKey),
			"ascending":  ascending,
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// recordSummary renders one record row at the scanned tier.
func (s *Server) recordSummary(idx int) map[string]interface{} {
	entry := s.cache.GetOrCompute(idx, types.TierScanned)
	return map[string]interface{}{
		"index":       idx,
		"name":        entry.FullName,
		"size":        entry.SizeBytes,
		"size_label":  entry.SizeLabel,
		"lines":       entry.Lines,
		"type":        entry.TypeLabel,
		"labels":      entry.Labels,
		"quality_pct": entry.QualityPct,
		"stars":       entry.Stars,
	}
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func parseSortKey(s string) (view.SortKey, error) {
	switch view.SortKey(s) {
	case view.SortName, view.SortSize, view.SortLines, view.SortType, view.SortQuality:
		return view.SortKey(s), nil
	}
	return "", errors.New("unknown sort key")
}

func parseSearchField(s string) (types.SearchField, error) {
	switch types.SearchField(s) {
	case types.SearchRepoName, types.SearchPath, types.SearchContent:
		return types.SearchField(s), nil
	}
	return "", errors.New("unknown search field")
}

// starDist renders a star-band histogram with string keys for JSON.
func starDist(dist map[int]int) map[string]int {
	out := make(map[string]int, len(dist))
	for stars, n := range dist {
		out[strconv.Itoa(stars)] = n
	}
	return out
}

// distribution truncates a counted list for the response.
func distribution(counts []store.CountedKey, top int) []map[string]interface{} {
	if len(counts) > top {
		counts = counts[:top]
	}
	out := make([]map[string]interface{}, 0, len(counts))
	for _, c := range counts {
		out = append(out, map[string]interface{}{
			"key":   c.Key,
			"count": c.Count,
		})
	}
	return out
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getInt extracts an integer parameter, reporting whether it was present.
func getInt(args map[string]interface{}, key string) (int, bool) {
	if val, ok := args[key].(float64); ok {
		return int(val), true
	}
	if val, ok := args[key].(int); ok {
		return val, true
	}
	return 0, false
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := getInt(args, key); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
