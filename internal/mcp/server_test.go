package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.jsonl")
	data := `{"repo_name": "alpha", "path": "app.py", "size": 100, "content": "import tkinter\n"}
{"repo_name": "beta", "path": "etl.py", "size": 5000, "content": "import pandas\n"}
{"repo_name": "gamma", "path": "misc.py", "size": 10, "content": "value = 1\n"}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestNewServer(t *testing.T) {
	server, err := NewServer(context.Background(), writeDump(t), false)
	require.NoError(t, err)

	assert.Equal(t, 3, server.store.Len())
	assert.Equal(t, 3, server.view.Len(), "view starts unfiltered")
	assert.NotNil(t, server.engine)
	assert.NotNil(t, server.indexer)
}

func TestNewServer_MissingDump(t *testing.T) {
	_, err := NewServer(context.Background(), "/does/not/exist.json", false)
	assert.Error(t, err)
}

func TestHandleLoadRecords_ReplacesSet(t *testing.T) {
	server, err := NewServer(context.Background(), writeDump(t), false)
	require.NoError(t, err)

	next := filepath.Join(t.TempDir(), "next.jsonl")
	require.NoError(t, os.WriteFile(next, []byte(`{"repo_name": "delta", "path": "d.py", "content": "x = 1\n"}`+"\n"), 0o644))

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "load_records",
			Arguments: map[string]interface{}{
				"path": next,
			},
		},
	}
	result, err := server.handleLoadRecords(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, server.store.Len())
	assert.Equal(t, 1, server.view.Len(), "view resets to the new full set")
}

func TestHandleLoadRecords_MissingPathFails(t *testing.T) {
	server, err := NewServer(context.Background(), writeDump(t), false)
	require.NoError(t, err)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "load_records",
			Arguments: map[string]interface{}{},
		},
	}
	_, err = server.handleLoadRecords(context.Background(), request)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-32602")

	assert.Equal(t, 3, server.store.Len(), "failed load leaves the set untouched")
}

func TestParseSortKey(t *testing.T) {
	for _, valid := range []string{"name", "size", "lines", "type", "quality"} {
		_, err := parseSortKey(valid)
		assert.NoError(t, err, valid)
	}
	_, err := parseSortKey("color")
	assert.Error(t, err)
}

func TestParseSearchField(t *testing.T) {
	for _, valid := range []string{"repo_name", "path", "content"} {
		_, err := parseSearchField(valid)
		assert.NoError(t, err, valid)
	}
	_, err := parseSearchField("license")
	assert.Error(t, err)
}

func TestStarDist(t *testing.T) {
	got := starDist(map[int]int{1: 4, 2: 2, 3: 1})
	assert.Equal(t, map[string]int{"1": 4, "2": 2, "3": 1}, got)
}

func TestGetIntDefault(t *testing.T) {
	args := map[string]interface{}{
		"float": float64(7),
		"str":   "nope",
	}
	assert.Equal(t, 7, getIntDefault(args, "float", 1))
	assert.Equal(t, 1, getIntDefault(args, "str", 1))
	assert.Equal(t, 1, getIntDefault(args, "missing", 1))
}

func TestMCPError(t *testing.T) {
	err := newMCPError(ErrorCodeInvalidParams, "bad input", nil)
	assert.Contains(t, err.Error(), "-32602")
	assert.Contains(t, err.Error(), "bad input")
}
