// Package metrics implements the tiered, incrementally-computed metrics
// cache. Each record has at most one entry, keyed by its store index, with
// three increasing tiers of completeness:
//
//	Tier 1  name and size formatting, computed on first touch
//	Tier 2  line count, detected type labels, coarse quality score
//	Tier 3  full per-criterion quality checklist
//
// Promotion is additive and idempotent: a tier-N entry contains everything a
// tier-(N-1) entry has, requesting an already-satisfied tier returns the
// stored entry unchanged, and entries are never demoted. The background
// indexer and demand-driven foreground access race to promote the same
// index; the per-shard lock around each read-modify-write makes that race
// benign.
package metrics

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/shuvrobasu/repo-view-extract/internal/classify"
	"github.com/shuvrobasu/repo-view-extract/internal/quality"
	"github.com/shuvrobasu/repo-view-extract/internal/store"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// shardCount partitions the lock table. Contention is naturally per-record,
// so a modest shard count keeps the indexer and the UI out of each other's
// way without a lock per index.
const shardCount = 64

// maxDisplayName is the rune length at which tier-1 names are truncated.
const maxDisplayName = 30

// Cache maps record index to its metrics entry. Safe for concurrent use.
type Cache struct {
	store  *store.Store
	shards [shardCount]shard
}

// New creates a cache over the given record store.
func New(st *store.Store) *Cache {
	c := &Cache{store: st}
	for i := range c.shards {
		c.shards[i].entries = make(map[int]types.MetricsEntry)
	}
	return c
}

// GetOrCompute returns the entry for index i at tier >= minTier, computing
// and storing any missing tiers synchronously on the calling goroutine.
// Computation never fails: malformed or empty content resolves to zeroed
// metrics. The returned entry is a copy; later promotions do not mutate it.
func (c *Cache) GetOrCompute(i int, minTier types.Tier) types.MetricsEntry {
	sh := c.shard(i)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	entry, ok := sh.entries[i]
	if !ok {
		entry = c.computeBasic(i)
	}

	if minTier >= types.TierScanned && entry.Tier < types.TierScanned {
		c.promoteScanned(i, &entry)
	}
	if minTier >= types.TierFull && entry.Tier < types.TierFull {
		c.promoteFull(i, &entry)
	}

	// Synthetic entries for out-of-range indices are returned but never
	// stored; the cache holds at most one entry per loaded record.
	if i >= 0 && i < c.store.Len() {
		sh.entries[i] = entry
	}
	return entry.Clone()
}

// Peek returns the current entry without triggering any computation. Used by
// display code that must never block on scoring work.
func (c *Cache) Peek(i int) (types.MetricsEntry, bool) {
	sh := c.shard(i)
	sh.mu.RLock()
	entry, ok := sh.entries[i]
	sh.mu.RUnlock()
	if !ok {
		return types.MetricsEntry{}, false
	}
	return entry.Clone(), true
}

// Tier reports the current tier for index i, TierNone when absent.
func (c *Cache) Tier(i int) types.Tier {
	sh := c.shard(i)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.entries[i].Tier
}

// InvalidateAll clears every entry. Called when a new record set replaces
// the store.
func (c *Cache) InvalidateAll() {
	for i := range c.shards {
		sh := &c.shards[i]
		sh.mu.Lock()
		sh.entries = make(map[int]types.MetricsEntry)
		sh.mu.Unlock()
	}
}

// Len reports the number of cached entries across all shards.
func (c *Cache) Len() int {
	n := 0
	for i := range c.shards {
		sh := &c.shards[i]
		sh.mu.RLock()
		n += len(sh.entries)
		sh.mu.RUnlock()
	}
	return n
}

func (c *Cache) shard(i int) *shard {
	if i < 0 {
		i = -i
	}
	return &c.shards[i%shardCount]
}

// computeBasic builds a tier-1 entry: display name and size formatting only.
func (c *Cache) computeBasic(i int) types.MetricsEntry {
	rec, err := c.store.Record(i)
	if err != nil {
		rec = types.Record{}
	}

	name := path.Base(rec.Path)
	if rec.Path == "" || name == "." || name == "/" {
		name = fmt.Sprintf("record_%d", i)
	}

	size := rec.Size
	if size < 0 {
		size = 0
	}

	return types.MetricsEntry{
		Tier:      types.TierBasic,
		Name:      truncateName(name),
		FullName:  name,
		SizeBytes: size,
		SizeLabel: FormatSize(size),
	}
}

// promoteScanned adds tier-2 fields: line count, labels, and the coarse
// quality score from the fast scorer.
func (c *Cache) promoteScanned(i int, entry *types.MetricsEntry) {
	rec, err := c.store.Record(i)
	if err != nil {
		rec = types.Record{}
	}

	entry.Lines = countLines(rec.Content)
	entry.Labels = classify.Classify(rec)
	entry.TypeLabel = classify.DisplayLabel(entry.Labels)

	score := quality.ScoreFast(rec.Content)
	entry.QualityScore = score
	entry.QualityPct = quality.Percent(score)
	entry.Stars = types.StarBand(entry.QualityPct)
	entry.Tier = types.TierScanned
}

// promoteFull adds the tier-3 checklist and replaces the coarse score with
// the full 12-criterion score. The fast and full scores may land in
// different star bands for the same record; the overwrite is expected.
func (c *Cache) promoteFull(i int, entry *types.MetricsEntry) {
	rec, err := c.store.Record(i)
	if err != nil {
		rec = types.Record{}
	}

	score, checklist := quality.Score(rec.Content)
	entry.Checklist = checklist
	entry.QualityScore = score
	entry.QualityPct = quality.Percent(score)
	entry.Stars = types.StarBand(entry.QualityPct)
	entry.Tier = types.TierFull
}

type shard struct {
	mu      sync.RWMutex
	entries map[int]types.MetricsEntry
}

// FormatSize renders a byte count the way the record list displays it.
func FormatSize(size int64) string {
	switch {
	case size >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	case size >= 1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// countLines matches the display convention: newline count plus one for
// non-empty content, zero for empty.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxDisplayName {
		return name
	}
	return string(runes[:maxDisplayName]) + "..."
}
