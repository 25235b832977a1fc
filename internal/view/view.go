// Package view maintains the filtered index list as a reorderable, windowed
// sequence for display. It owns only a derived list of record indices; the
// store itself is never reordered.
package view

import (
	"sort"
	"strings"
	"sync"

	"github.com/shuvrobasu/repo-view-extract/internal/metrics"
)

// PageSize is the fixed display window.
const PageSize = 50

// SortKey selects the column records are ordered by.
type SortKey string

const (
	SortName    SortKey = "name"
	SortSize    SortKey = "size"
	SortLines   SortKey = "lines"
	SortType    SortKey = "type"
	SortQuality SortKey = "quality"
)

// View windows an ordered list of record indices into fixed-size pages and
// re-sorts it by cache-derived keys. Replacing the match list is an atomic
// swap: a page render reads either the old list or the new one in full.
type View struct {
	cache *metrics.Cache

	mu        sync.RWMutex
	matches   []int
	page      int
	sortKey   SortKey
	ascending bool
}

// New creates a view sorted by name ascending with no matches.
func New(cache *metrics.Cache) *View {
	return &View{cache: cache, sortKey: SortName, ascending: true}
}

// SetMatches installs a new filtered index list and resets to page 0.
// The current sort order is re-applied to the new list.
func (v *View) SetMatches(matches []int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.matches = append([]int(nil), matches...)
	v.page = 0
	v.sortLocked()
}

// SetSort re-orders the current match list. Sorting changes only the order,
// never the membership, and preserves the current page number clamped to the
// new page count. Calling with the current key toggles direction.
func (v *View) SetSort(key SortKey, ascending bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sortKey = key
	v.ascending = ascending
	v.sortLocked()
	v.page = clamp(v.page, 0, v.pageCountLocked()-1)
}

// Sort reports the active sort key and direction.
func (v *View) Sort() (SortKey, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sortKey, v.ascending
}

// Page moves to page n (clamped) and returns the window of record indices
// for that page.
func (v *View) Page(n int) []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = clamp(n, 0, v.pageCountLocked()-1)
	return v.windowLocked()
}

// Current returns the window for the current page without moving.
func (v *View) Current() []int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.windowLocked()
}

// CurrentPage reports the zero-based current page number.
func (v *View) CurrentPage() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.page
}

// PageCount reports the number of pages; an empty list still has one page.
func (v *View) PageCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pageCountLocked()
}

// Len reports the match count.
func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.matches)
}

// Matches returns a copy of the full ordered match list.
func (v *View) Matches() []int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]int(nil), v.matches...)
}

func (v *View) pageCountLocked() int {
	if len(v.matches) == 0 {
		return 1
	}
	return (len(v.matches)-1)/PageSize + 1
}

func (v *View) windowLocked() []int {
	start := v.page * PageSize
	if start >= len(v.matches) {
		return nil
	}
	end := start + PageSize
	if end > len(v.matches) {
		end = len(v.matches)
	}
	return append([]int(nil), v.matches[start:end]...)
}

// sortRow carries one match's sort keys, extracted once per pass so the
// comparator never re-reads the cache.
type sortRow struct {
	idx     int
	name    string
	size    int64
	lines   int
	label   string
	quality int
}

// sortLocked orders matches by the active key. The comparison is a total
// order (key first, store index as tiebreaker) so equal keys are
// deterministic and flipping direction reverses the order exactly. Records
// whose sort field hasn't been computed yet fall back to zero values rather
// than forcing computation.
func (v *View) sortLocked() {
	rows := make([]sortRow, len(v.matches))
	for i, idx := range v.matches {
		entry, _ := v.cache.Peek(idx)
		rows[i] = sortRow{
			idx:     idx,
			name:    strings.ToLower(entry.FullName),
			size:    entry.SizeBytes,
			lines:   entry.Lines,
			label:   entry.TypeLabel,
			quality: entry.QualityScore,
		}
	}

	key, asc := v.sortKey, v.ascending
	sort.Slice(rows, func(a, b int) bool {
		if asc {
			return lessRow(key, rows[a], rows[b])
		}
		return lessRow(key, rows[b], rows[a])
	})

	for i, r := range rows {
		v.matches[i] = r.idx
	}
}

func lessRow(key SortKey, a, b sortRow) bool {
	switch key {
	case SortSize:
		if a.size != b.size {
			return a.size < b.size
		}
	case SortLines:
		if a.lines != b.lines {
			return a.lines < b.lines
		}
	case SortType:
		if a.label != b.label {
			return a.label < b.label
		}
	case SortQuality:
		if a.quality != b.quality {
			return a.quality < b.quality
		}
	default:
		if a.name != b.name {
			return a.name < b.name
		}
	}
	return a.idx < b.idx
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
