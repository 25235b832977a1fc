// Package store holds the loaded record set. The store is the ground truth:
// an ordered sequence of records, immutable after load and replaced
// wholesale by the next successful load. A record's index is its stable
// identity: indices are never renumbered; filtering and sorting only ever
// reorder derived index lists.
package store

import (
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// Store is an immutable-after-load ordered record sequence. Replace swaps
// the whole set atomically, so concurrent readers always see a consistent
// snapshot: either the old set or the new one, never a mix.
type Store struct {
	records atomic.Pointer[[]types.Record]
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	empty := make([]types.Record, 0)
	s.records.Store(&empty)
	return s
}

// Replace installs a new record set, discarding the previous one.
func (s *Store) Replace(records []types.Record) {
	if records == nil {
		records = make([]types.Record, 0)
	}
	s.records.Store(&records)
}

// Len reports the number of loaded records.
func (s *Store) Len() int {
	return len(*s.records.Load())
}

// Record returns the record at index i.
func (s *Store) Record(i int) (types.Record, error) {
	recs := *s.records.Load()
	if i < 0 || i >= len(recs) {
		return types.Record{}, types.ErrIndexOutOfRange
	}
	return recs[i], nil
}

// Snapshot returns the current record slice. Callers must treat it as
// read-only; it is shared with every other reader of the same load.
func (s *Store) Snapshot() []types.Record {
	return *s.records.Load()
}

// Statistics aggregates display-level information about the loaded set.
type Statistics struct {
	TotalRecords int
	TotalBytes   int64
	AverageBytes int64
	Licenses     []CountedKey
	Extensions   []CountedKey
}

// CountedKey is a distribution entry, ordered by descending count.
type CountedKey struct {
	Key   string
	Count int
}

// Statistics computes totals plus license and file-extension distributions
// over the current record set.
func (s *Store) Statistics() Statistics {
	recs := s.Snapshot()

	stats := Statistics{TotalRecords: len(recs)}
	licenses := make(map[string]int)
	extensions := make(map[string]int)

	for _, r := range recs {
		stats.TotalBytes += r.Size

		lic := r.License
		if lic == "" {
			lic = "unknown"
		}
		licenses[lic]++

		ext := strings.ToLower(path.Ext(r.Path))
		if ext == "" {
			ext = "no extension"
		}
		extensions[ext]++
	}

	if stats.TotalRecords > 0 {
		stats.AverageBytes = stats.TotalBytes / int64(stats.TotalRecords)
	}
	stats.Licenses = sortedCounts(licenses)
	stats.Extensions = sortedCounts(extensions)
	return stats
}

func sortedCounts(m map[string]int) []CountedKey {
	out := make([]CountedKey, 0, len(m))
	for k, v := range m {
		out = append(out, CountedKey{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
