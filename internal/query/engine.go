// Package query evaluates filter specifications and field searches against
// the record store. Each evaluation is a single pass in store order and is
// safe to run concurrently with the background indexer: it reads cache
// entries opportunistically and never mutates store-owned data.
package query

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shuvrobasu/repo-view-extract/internal/classify"
	"github.com/shuvrobasu/repo-view-extract/internal/metrics"
	"github.com/shuvrobasu/repo-view-extract/internal/quality"
	"github.com/shuvrobasu/repo-view-extract/internal/store"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// labelCacheSize bounds the classification memo. Classification is pure, so
// entries never go stale within one loaded record set.
const labelCacheSize = 100_000

// cancelCheckInterval is how many records are scanned between context
// checks, keeping a long pass responsive to cancellation.
const cancelCheckInterval = 1024

// Result is the outcome of one filter evaluation.
type Result struct {
	// Matches holds the indices of records passing every check, in store
	// order. The order is stable; only the pagination view re-sorts it.
	Matches []int

	// TypeDist counts matched records per detected label. A record with
	// several labels contributes to each, so the counts can sum to more
	// than len(Matches).
	TypeDist map[string]int

	// QualityDist counts matched records per star band (1-3). Every match
	// lands in exactly one band.
	QualityDist map[int]int

	// Total is the store size the evaluation ran against.
	Total int
}

// Engine evaluates filters and searches over a store and cache pair.
type Engine struct {
	store  *store.Store
	cache  *metrics.Cache
	labels *lru.Cache[int, []string]
}

// New creates an Engine. The label memo keeps classification from being
// recomputed across successive filter previews over the same record set.
func New(st *store.Store, cache *metrics.Cache) *Engine {
	labels, err := lru.New[int, []string](labelCacheSize)
	if err != nil {
		// Only possible with a non-positive size.
		panic(err)
	}
	return &Engine{store: st, cache: cache, labels: labels}
}

// Reset drops the label memo. Call after the store is replaced.
func (e *Engine) Reset() {
	e.labels.Purge()
}

// Evaluate runs the filter over every record in store order. A record is
// excluded by the first failing check: size range, label intersection, then
// minimum quality. Matched records feed the two distributions.
//
// The quality check is cheap by construction: it peeks the cache and falls
// back to the fast scorer, never forcing a full-checklist computation.
// Cancellation via ctx returns ctx.Err(); the caller discards the partial
// result.
func (e *Engine) Evaluate(ctx context.Context, spec types.FilterSpec) (*Result, error) {
	records := e.store.Snapshot()

	res := &Result{
		Matches:     make([]int, 0),
		TypeDist:    make(map[string]int),
		QualityDist: map[int]int{1: 0, 2: 0, 3: 0},
		Total:       len(records),
	}

	wantLabels := make(map[string]bool, len(spec.Labels))
	for _, l := range spec.Labels {
		wantLabels[l] = true
	}

	maxSize := spec.MaxSize
	if spec.SizeEnabled && maxSize <= 0 {
		maxSize = int64(1) << 62
	}

	for i, rec := range records {
		if i%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		if spec.SizeEnabled {
			size := rec.Size
			if size < 0 {
				size = 0
			}
			if size < spec.MinSize || size > maxSize {
				continue
			}
		}

		labels := e.labelsFor(i, rec)
		if len(wantLabels) > 0 && !intersects(labels, wantLabels) {
			continue
		}

		pct := e.qualityPct(i, rec)
		if spec.MinQualityPct > 0 && pct < spec.MinQualityPct {
			continue
		}

		res.Matches = append(res.Matches, i)
		for _, l := range labels {
			res.TypeDist[l]++
		}
		res.QualityDist[types.StarBand(pct)]++
	}

	return res, nil
}

// Search returns the indices of records whose given field contains the term,
// in store order. An empty term matches everything.
func (e *Engine) Search(ctx context.Context, spec types.SearchSpec) ([]int, error) {
	records := e.store.Snapshot()

	term := spec.Term
	if !spec.CaseSensitive {
		term = strings.ToLower(term)
	}

	matches := make([]int, 0)
	for i, rec := range records {
		if i%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		if term == "" {
			matches = append(matches, i)
			continue
		}

		value := fieldValue(rec, spec.Field)
		if !spec.CaseSensitive {
			value = strings.ToLower(value)
		}
		if strings.Contains(value, term) {
			matches = append(matches, i)
		}
	}
	return matches, nil
}

// qualityPct obtains a quality percentage without forcing tier promotion:
// cached scanned-or-better entries win, otherwise the fast scorer runs
// directly on the content.
func (e *Engine) qualityPct(i int, rec types.Record) int {
	if entry, ok := e.cache.Peek(i); ok && entry.Tier >= types.TierScanned {
		return entry.QualityPct
	}
	return quality.Percent(quality.ScoreFast(rec.Content))
}

// labelsFor classifies through the memo. The cache's scanned tier also
// carries labels, so prefer it when present.
func (e *Engine) labelsFor(i int, rec types.Record) []string {
	if entry, ok := e.cache.Peek(i); ok && entry.Tier >= types.TierScanned {
		return entry.Labels
	}
	if labels, ok := e.labels.Get(i); ok {
		return labels
	}
	labels := classify.Classify(rec)
	e.labels.Add(i, labels)
	return labels
}

func fieldValue(rec types.Record, field types.SearchField) string {
	switch field {
	case types.SearchRepoName:
		return rec.RepoName
	case types.SearchPath:
		return rec.Path
	case types.SearchContent:
		return rec.Content
	default:
		return ""
	}
}

func intersects(labels []string, want map[string]bool) bool {
	for _, l := range labels {
		if want[l] {
			return true
		}
	}
	return false
}
