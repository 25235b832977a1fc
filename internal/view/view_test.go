package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuvrobasu/repo-view-extract/internal/metrics"
	"github.com/shuvrobasu/repo-view-extract/internal/store"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

func testView(n int) (*View, *metrics.Cache) {
	records := make([]types.Record, n)
	for i := range records {
		records[i] = types.Record{
			Path:    fmt.Sprintf("file_%03d.py", n-1-i), // names descend as indices ascend
			Size:    int64((i*37)%500 + 1),
			Content: "x = 1\n",
		}
	}
	st := store.New()
	st.Replace(records)
	cache := metrics.New(st)
	for i := 0; i < n; i++ {
		cache.GetOrCompute(i, types.TierScanned)
	}
	return New(cache), cache
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestView_Empty(t *testing.T) {
	v, _ := testView(0)
	assert.Equal(t, 1, v.PageCount())
	assert.Equal(t, 0, v.Len())
	assert.Empty(t, v.Current())
}

func TestView_Paging(t *testing.T) {
	v, _ := testView(120)
	v.SetMatches(indices(120))
	v.SetSort(SortSize, true) // distinct sizes, deterministic order

	assert.Equal(t, 3, v.PageCount())
	assert.Len(t, v.Current(), PageSize)
	assert.Len(t, v.Page(1), PageSize)
	assert.Len(t, v.Page(2), 20)

	// Pages partition the match list without overlap.
	seen := make(map[int]bool)
	for p := 0; p < v.PageCount(); p++ {
		for _, idx := range v.Page(p) {
			assert.False(t, seen[idx])
			seen[idx] = true
		}
	}
	assert.Len(t, seen, 120)
}

func TestView_PageClamped(t *testing.T) {
	v, _ := testView(120)
	v.SetMatches(indices(120))

	v.Page(99)
	assert.Equal(t, 2, v.CurrentPage())
	v.Page(-5)
	assert.Equal(t, 0, v.CurrentPage())
}

func TestView_SetMatchesResetsPage(t *testing.T) {
	v, _ := testView(120)
	v.SetMatches(indices(120))
	v.Page(2)

	v.SetMatches(indices(60))
	assert.Equal(t, 0, v.CurrentPage())
	assert.Equal(t, 2, v.PageCount())
}

func TestView_SortBySize(t *testing.T) {
	v, cache := testView(120)
	v.SetMatches(indices(120))
	v.SetSort(SortSize, true)

	all := v.Matches()
	for i := 1; i < len(all); i++ {
		prev, _ := cache.Peek(all[i-1])
		cur, _ := cache.Peek(all[i])
		assert.LessOrEqual(t, prev.SizeBytes, cur.SizeBytes)
	}
}

func TestView_DirectionToggleReversesExactly(t *testing.T) {
	v, _ := testView(120)
	v.SetMatches(indices(120))

	v.SetSort(SortQuality, true) // equal scores everywhere, tiebreaker decides
	asc := v.Matches()
	v.SetSort(SortQuality, false)
	desc := v.Matches()

	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestView_SortByNameCaseInsensitive(t *testing.T) {
	st := store.New()
	st.Replace([]types.Record{
		{Path: "Zeta.py"},
		{Path: "alpha.py"},
		{Path: "Beta.py"},
	})
	cache := metrics.New(st)
	for i := 0; i < 3; i++ {
		cache.GetOrCompute(i, types.TierBasic)
	}

	v := New(cache)
	v.SetMatches([]int{0, 1, 2})
	assert.Equal(t, []int{1, 2, 0}, v.Matches())
}

func TestView_SortPreservesMembership(t *testing.T) {
	v, _ := testView(120)
	matches := []int{5, 80, 17, 102, 63}
	v.SetMatches(matches)
	v.SetSort(SortSize, false)

	sorted := v.Matches()
	assert.ElementsMatch(t, matches, sorted)
}

func TestView_SortUncachedFallsBackToZero(t *testing.T) {
	st := store.New()
	st.Replace([]types.Record{{Path: "a.py", Size: 100}, {Path: "b.py", Size: 50}})
	cache := metrics.New(st) // nothing computed

	v := New(cache)
	v.SetMatches([]int{0, 1})
	v.SetSort(SortSize, true)

	// Both peek to zero, so store order decides.
	assert.Equal(t, []int{0, 1}, v.Matches())
}

func TestView_SetSortClampsPage(t *testing.T) {
	v, _ := testView(120)
	v.SetMatches(indices(120))
	v.Page(2)

	v.SetMatches(indices(120)[:40])
	v.Page(0)
	v.SetSort(SortName, true)
	assert.Equal(t, 0, v.CurrentPage())
	assert.Equal(t, 1, v.PageCount())
}
