// Package session owns the shared browsing state (record store, metrics
// cache, background indexer, query engine, pagination view) and runs
// every long operation (load, index, filter, search, export) off the
// foreground. Results cross back over a single ordered event channel; the
// presentation layer drains it and never shares memory with the workers.
//
// Every filter or search evaluation is tagged with a generation number.
// Starting a new one cancels the previous run and waits for it to observe
// the flag, and a superseded run's late result is discarded rather than
// applied, so the displayed match set always belongs to the newest request.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shuvrobasu/repo-view-extract/internal/export"
	"github.com/shuvrobasu/repo-view-extract/internal/indexer"
	"github.com/shuvrobasu/repo-view-extract/internal/ingest"
	"github.com/shuvrobasu/repo-view-extract/internal/metrics"
	"github.com/shuvrobasu/repo-view-extract/internal/query"
	"github.com/shuvrobasu/repo-view-extract/internal/store"
	"github.com/shuvrobasu/repo-view-extract/internal/view"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// eventBuffer sizes the ordered notification channel.
const eventBuffer = 256

// Session wires the core components together and manages the lifecycle of
// their background tasks.
type Session struct {
	Store   *store.Store
	Cache   *metrics.Cache
	Indexer *indexer.Indexer
	Engine  *query.Engine
	View    *view.View

	events chan Event

	loadMu     sync.Mutex
	loadCancel context.CancelFunc
	loadDone   chan struct{}

	filterGen    atomic.Uint64
	filterMu     sync.Mutex
	filterCancel context.CancelFunc
	filterDone   chan struct{}
}

// New creates a session with an empty store.
func New() *Session {
	st := store.New()
	cache := metrics.New(st)
	return &Session{
		Store:   st,
		Cache:   cache,
		Indexer: indexer.New(st, cache),
		Engine:  query.New(st, cache),
		View:    view.New(cache),
		events:  make(chan Event, eventBuffer),
	}
}

// Events returns the ordered notification channel. The presentation layer
// must drain it for the lifetime of the session.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Close cancels all background work.
func (s *Session) Close() {
	s.Indexer.Cancel()
	s.cancelLoad()
	s.cancelFilter()
}

// emit posts an event in order. The channel is buffered; a draining UI
// never lets it fill.
func (s *Session) emit(ev Event) {
	s.events <- ev
}

// Load replaces the record set from a JSON dump or a directory, in the
// background. A load already in flight is cancelled and awaited first. The
// previous store stays untouched until the new load fully succeeds; only
// then is the cache invalidated and the background indexer restarted.
func (s *Session) Load(ctx context.Context, path string, fromDir bool) {
	s.cancelLoad()

	loadCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.loadMu.Lock()
	s.loadCancel = cancel
	s.loadDone = done
	s.loadMu.Unlock()

	go func() {
		defer close(done)

		progress := func(doneN, total int64) {
			s.emit(LoadProgress{Done: doneN, Total: total})
		}

		var records []types.Record
		var err error
		if fromDir {
			records, err = ingest.ScanDir(loadCtx, path, progress)
		} else {
			records, err = ingest.LoadFile(loadCtx, path, progress)
		}
		if err != nil {
			if loadCtx.Err() == nil {
				s.emit(LoadFailed{Path: path, Err: err})
			}
			return
		}

		// Retire any evaluation still running against the outgoing store;
		// its match set must never be applied over the new one.
		s.nextEvaluation()

		// Stop the old scan before the store it iterates is replaced.
		s.Indexer.Cancel()

		s.Store.Replace(records)
		s.Cache.InvalidateAll()
		s.Engine.Reset()
		s.View.SetMatches(allIndices(len(records)))

		s.emit(Loaded{Path: path, Records: len(records)})
		s.StartIndexing(ctx)
	}()
}

// StartIndexing launches the background scan. Starting while a scan runs is
// a no-op.
func (s *Session) StartIndexing(ctx context.Context) {
	_ = s.Indexer.Start(ctx, notifier{s})
}

// EvaluateFilter runs a filter evaluation in the background. When apply is
// true the match set becomes the active filtered index list; otherwise the
// result only feeds the preview event. Either way, the result of a
// superseded evaluation is dropped.
func (s *Session) EvaluateFilter(ctx context.Context, spec types.FilterSpec, apply bool) {
	gen := s.nextEvaluation()

	evalCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.filterMu.Lock()
	s.filterCancel = cancel
	s.filterDone = done
	s.filterMu.Unlock()

	go func() {
		defer close(done)

		res, err := s.Engine.Evaluate(evalCtx, spec)
		if err != nil {
			return // cancelled, partial result discarded
		}
		if !s.isCurrent(gen) {
			return // superseded, never applied
		}
		if apply {
			s.View.SetMatches(res.Matches)
		}
		s.emit(FilterResult{Generation: gen, Spec: spec, Applied: apply, Result: res})
	}()
}

// Search runs a field search in the background and applies the match set.
// Shares the filter generation so searches and filters supersede each other.
func (s *Session) Search(ctx context.Context, spec types.SearchSpec) {
	gen := s.nextEvaluation()

	evalCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.filterMu.Lock()
	s.filterCancel = cancel
	s.filterDone = done
	s.filterMu.Unlock()

	go func() {
		defer close(done)

		matches, err := s.Engine.Search(evalCtx, spec)
		if err != nil {
			return
		}
		if !s.isCurrent(gen) {
			return
		}
		s.View.SetMatches(matches)
		s.emit(SearchResult{Generation: gen, Spec: spec, Matches: len(matches)})
	}()
}

// ClearFilter restores the unfiltered index list.
func (s *Session) ClearFilter() {
	s.nextEvaluation() // supersede any in-flight evaluation
	s.View.SetMatches(allIndices(s.Store.Len()))
	s.emit(FilterCleared{Records: s.Store.Len()})
}

// Export writes the given records' content to dir in the background.
func (s *Session) Export(ctx context.Context, dir string, indices []int) {
	go func() {
		exp := export.New(s.Store)
		res, err := exp.Export(ctx, dir, indices, func(done, total int64) {
			s.emit(ExportProgress{Done: done, Total: total})
		})
		if err != nil {
			s.emit(ExportDone{Dir: dir, Err: err})
			return
		}
		s.emit(ExportDone{Dir: dir, Result: res})
	}()
}

// nextEvaluation bumps the generation and retires the previous evaluation:
// cancel, then wait for it to observe the flag, so two evaluations never
// race on the output slot.
func (s *Session) nextEvaluation() uint64 {
	gen := s.filterGen.Add(1)
	s.cancelFilter()
	return gen
}

func (s *Session) isCurrent(gen uint64) bool {
	return s.filterGen.Load() == gen
}

func (s *Session) cancelLoad() {
	s.loadMu.Lock()
	cancel, done := s.loadCancel, s.loadDone
	s.loadMu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Session) cancelFilter() {
	s.filterMu.Lock()
	cancel, done := s.filterCancel, s.filterDone
	s.filterMu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// notifier adapts indexer callbacks onto the event channel.
type notifier struct{ s *Session }

func (n notifier) IndexProgress(p indexer.Progress) {
	n.s.emit(IndexProgress{Processed: p.Processed, Total: p.Total})
}

func (n notifier) IndexCompleted(stats indexer.Statistics) {
	n.s.emit(IndexCompleted{Stats: stats})
}

func (n notifier) IndexCancelled(stats indexer.Statistics) {
	n.s.emit(IndexCancelled{Stats: stats})
}
