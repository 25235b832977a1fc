package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

func seededSession(records []types.Record) *Session {
	s := New()
	s.Store.Replace(records)
	s.View.SetMatches(allIndices(len(records)))
	return s
}

// waitFor drains the event channel until match returns true, failing the test
// on timeout. Non-matching events are discarded.
func waitFor(t *testing.T, s *Session, match func(Event) bool) Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-s.Events():
			if match(ev) {
				return ev
			}
		case <-deadline:
			t.Fatal("timed out waiting for session event")
			return nil
		}
	}
}

func TestSession_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.jsonl")
	data := `{"repo_name": "alpha", "path": "a.py", "content": "import tkinter\n"}
{"repo_name": "beta", "path": "b.py", "content": "import pandas\n"}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s := New()
	defer s.Close()
	s.Load(context.Background(), path, false)

	ev := waitFor(t, s, func(ev Event) bool { _, ok := ev.(Loaded); return ok })
	loaded := ev.(Loaded)
	assert.Equal(t, 2, loaded.Records)
	assert.Equal(t, 2, s.Store.Len())
	assert.Equal(t, 2, s.View.Len(), "view starts unfiltered")

	// The background scan kicks off automatically after a load.
	waitFor(t, s, func(ev Event) bool { _, ok := ev.(IndexCompleted); return ok })
	assert.Equal(t, 2, s.Cache.Len())
}

func TestSession_LoadFailureKeepsPreviousSet(t *testing.T) {
	s := seededSession([]types.Record{{RepoName: "keep", Path: "a.py"}})
	defer s.Close()

	s.Load(context.Background(), "/does/not/exist.json", false)
	waitFor(t, s, func(ev Event) bool { _, ok := ev.(LoadFailed); return ok })

	assert.Equal(t, 1, s.Store.Len())
	rec, err := s.Store.Record(0)
	require.NoError(t, err)
	assert.Equal(t, "keep", rec.RepoName)
}

func TestSession_LoadSupersedesRunningEvaluation(t *testing.T) {
	records := make([]types.Record, 60_000)
	for i := range records {
		records[i] = types.Record{Path: "a.py", Content: "x = 1\n"}
	}
	s := seededSession(records)
	defer s.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "dump.jsonl")
	data := `{"repo_name": "alpha", "path": "a.py", "content": "import tkinter\n"}
{"repo_name": "beta", "path": "b.py", "content": "import pandas\n"}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	// The evaluation runs against the large set; the load replaces it
	// mid-flight. The evaluation's match set belongs to the old store and
	// must never land on the new view.
	s.EvaluateFilter(context.Background(), types.FilterSpec{MinQualityPct: 90}, true)
	s.Load(context.Background(), path, false)

	waitFor(t, s, func(ev Event) bool { _, ok := ev.(Loaded); return ok })
	waitFor(t, s, func(ev Event) bool { _, ok := ev.(IndexCompleted); return ok })

	assert.Equal(t, 2, s.Store.Len())
	assert.Equal(t, 2, s.View.Len(), "the loaded set owns the view")
}

func TestSession_FilterApplied(t *testing.T) {
	s := seededSession([]types.Record{
		{Path: "app.py", Content: "import tkinter\n"},
		{Path: "app.py", Content: "import pandas\n"},
		{Path: "app.py", Content: "value = 1\n"},
	})
	defer s.Close()

	s.EvaluateFilter(context.Background(), types.FilterSpec{Labels: []string{"GUI"}}, true)

	ev := waitFor(t, s, func(ev Event) bool { _, ok := ev.(FilterResult); return ok })
	res := ev.(FilterResult)
	assert.True(t, res.Applied)
	assert.Equal(t, []int{0}, res.Result.Matches)
	assert.Equal(t, []int{0}, s.View.Matches())
}

func TestSession_FilterPreviewLeavesViewAlone(t *testing.T) {
	s := seededSession([]types.Record{
		{Path: "app.py", Content: "import tkinter\n"},
		{Path: "app.py", Content: "value = 1\n"},
	})
	defer s.Close()

	s.EvaluateFilter(context.Background(), types.FilterSpec{Labels: []string{"GUI"}}, false)

	ev := waitFor(t, s, func(ev Event) bool { _, ok := ev.(FilterResult); return ok })
	res := ev.(FilterResult)
	assert.False(t, res.Applied)
	assert.Equal(t, []int{0}, res.Result.Matches)
	assert.Equal(t, []int{0, 1}, s.View.Matches(), "preview never touches the view")
}

func TestSession_LaterEvaluationWins(t *testing.T) {
	s := seededSession([]types.Record{
		{Path: "app.py", Content: "import tkinter\n"},
		{Path: "app.py", Content: "import pandas\n"},
	})
	defer s.Close()

	ctx := context.Background()
	s.EvaluateFilter(ctx, types.FilterSpec{Labels: []string{"GUI"}}, true)
	s.EvaluateFilter(ctx, types.FilterSpec{Labels: []string{"Data Processing"}}, true)

	// Wait for the second generation's result; the first was cancelled or
	// applied earlier, never after.
	ev := waitFor(t, s, func(ev Event) bool {
		res, ok := ev.(FilterResult)
		return ok && res.Generation == 2
	})
	res := ev.(FilterResult)
	assert.Equal(t, []int{1}, res.Result.Matches)
	assert.Equal(t, []int{1}, s.View.Matches(), "the later evaluation owns the view")
}

func TestSession_FilterResultGenerationsIncrease(t *testing.T) {
	s := seededSession([]types.Record{{Path: "a.py"}})
	defer s.Close()

	ctx := context.Background()
	s.EvaluateFilter(ctx, types.FilterSpec{}, true)
	s.EvaluateFilter(ctx, types.FilterSpec{}, true)
	s.EvaluateFilter(ctx, types.FilterSpec{}, true)

	var last uint64
	waitFor(t, s, func(ev Event) bool {
		res, ok := ev.(FilterResult)
		if !ok {
			return false
		}
		assert.Greater(t, res.Generation, last)
		last = res.Generation
		return res.Generation == 3
	})
}

func TestSession_ClearFilterSupersedes(t *testing.T) {
	s := seededSession([]types.Record{
		{Path: "app.py", Content: "import tkinter\n"},
		{Path: "app.py", Content: "value = 1\n"},
	})
	defer s.Close()

	s.EvaluateFilter(context.Background(), types.FilterSpec{Labels: []string{"GUI"}}, true)
	s.ClearFilter()

	waitFor(t, s, func(ev Event) bool { _, ok := ev.(FilterCleared); return ok })
	assert.Equal(t, []int{0, 1}, s.View.Matches())
}

func TestSession_Search(t *testing.T) {
	s := seededSession([]types.Record{
		{RepoName: "alpha", Path: "a.py"},
		{RepoName: "beta", Path: "b.py"},
	})
	defer s.Close()

	s.Search(context.Background(), types.SearchSpec{Field: types.SearchRepoName, Term: "beta"})

	ev := waitFor(t, s, func(ev Event) bool { _, ok := ev.(SearchResult); return ok })
	res := ev.(SearchResult)
	assert.Equal(t, 1, res.Matches)
	assert.Equal(t, []int{1}, s.View.Matches())
}

func TestSession_Export(t *testing.T) {
	s := seededSession([]types.Record{
		{Path: "a.py", Content: "a = 1\n"},
		{Path: "b.py", Content: ""},
	})
	defer s.Close()

	dir := t.TempDir()
	s.Export(context.Background(), dir, []int{0, 1})

	ev := waitFor(t, s, func(ev Event) bool { _, ok := ev.(ExportDone); return ok })
	done := ev.(ExportDone)
	require.NoError(t, done.Err)
	assert.Equal(t, 1, done.Result.Exported)
	assert.Equal(t, 1, done.Result.Skipped)

	_, err := os.Stat(filepath.Join(dir, "a.py"))
	assert.NoError(t, err)
}

func TestSession_StartIndexingTwiceIsNoOp(t *testing.T) {
	records := make([]types.Record, 300)
	for i := range records {
		records[i] = types.Record{Path: "a.py", Content: "x = 1\n"}
	}
	s := seededSession(records)
	defer s.Close()

	ctx := context.Background()
	s.StartIndexing(ctx)
	s.StartIndexing(ctx) // rejected by the indexer's busy guard

	waitFor(t, s, func(ev Event) bool { _, ok := ev.(IndexCompleted); return ok })
	assert.Equal(t, 300, s.Cache.Len())
}
