package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

func TestLoad_JSONArray(t *testing.T) {
	input := `[
		{"repo_name": "alpha", "path": "a.py", "size": 100, "content": "x = 1\n", "license": "MIT"},
		{"repo_name": "beta", "path": "b.py", "size": 200, "content": "y = 2\n"}
	]`

	records, err := Load(context.Background(), strings.NewReader(input), int64(len(input)), nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "alpha", records[0].RepoName)
	assert.Equal(t, "MIT", records[0].License)
	assert.Equal(t, "N/A", records[1].License, "missing license defaults")
	assert.Equal(t, 1, records[1].Copies, "missing copies defaults")
}

func TestLoad_JSONLines(t *testing.T) {
	input := `{"repo_name": "alpha", "path": "a.py", "size": 100}
{"repo_name": "beta", "path": "b.py", "size": 200}
{"repo_name": "gamma", "path": "c.py", "size": 300}
`

	records, err := Load(context.Background(), strings.NewReader(input), int64(len(input)), nil)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "gamma", records[2].RepoName)
}

func TestLoad_JSONLinesSkipsMalformed(t *testing.T) {
	input := `{"repo_name": "alpha", "path": "a.py"}
not json at all
{"repo_name": "beta", "path": "b.py"}

{broken
{"repo_name": "gamma", "path": "c.py"}
`

	records, err := Load(context.Background(), strings.NewReader(input), int64(len(input)), nil)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "alpha", records[0].RepoName)
	assert.Equal(t, "beta", records[1].RepoName)
	assert.Equal(t, "gamma", records[2].RepoName)
}

func TestLoad_SizeCoercion(t *testing.T) {
	input := `{"repo_name": "a", "path": "a.py", "size": "4096"}
{"repo_name": "b", "path": "b.py", "size": 1024.0}
{"repo_name": "c", "path": "c.py", "size": "garbage"}
`

	records, err := Load(context.Background(), strings.NewReader(input), int64(len(input)), nil)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, int64(4096), records[0].Size)
	assert.Equal(t, int64(1024), records[1].Size)
	assert.Equal(t, int64(0), records[2].Size, "unparseable size falls back to zero")
}

func TestLoad_Empty(t *testing.T) {
	records, err := Load(context.Background(), strings.NewReader(""), 0, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoad_LeadingWhitespaceArray(t *testing.T) {
	input := "  \n\t[{\"repo_name\": \"a\", \"path\": \"a.py\"}]"
	records, err := Load(context.Background(), strings.NewReader(input), int64(len(input)), nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLoad_MalformedArrayFails(t *testing.T) {
	_, err := Load(context.Background(), strings.NewReader("[{bad"), 5, nil)
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(context.Background(), "/does/not/exist.json", nil)
	assert.Error(t, err)
}

func TestLoadFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.jsonl")
	data := `{"repo_name": "alpha", "path": "a.py", "content": "x = 1\n"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	records, err := LoadFile(context.Background(), path, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "x = 1\n", records[0].Content)
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	write("main.py", "print('main')\n")
	write("pkg/util.py", "def util(): pass\n")
	write("readme.md", "not python\n")
	write("__pycache__/cached.py", "skipped\n")
	write(".hidden/secret.py", "skipped\n")
	write("venv/lib.py", "skipped\n")

	records, err := ScanDir(context.Background(), dir, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	paths := []string{records[0].Path, records[1].Path}
	assert.Contains(t, paths, "main.py")
	assert.Contains(t, paths, filepath.ToSlash(filepath.Join("pkg", "util.py")))

	for _, rec := range records {
		assert.Equal(t, filepath.Base(dir), rec.RepoName)
		assert.Equal(t, "N/A", rec.License)
		assert.Equal(t, 1, rec.Copies)
		assert.NotEmpty(t, rec.Content)
		assert.Equal(t, int64(len(rec.Content)), rec.Size)
	}
}

func TestScanDir_Cancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ScanDir(ctx, dir, nil)
	assert.ErrorIs(t, err, types.ErrLoadCancelled)
}

func TestScanDir_MissingRootYieldsNothing(t *testing.T) {
	// Unreadable subtrees are skipped rather than failing the scan; a missing
	// root degenerates to an empty record set.
	records, err := ScanDir(context.Background(), filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}
