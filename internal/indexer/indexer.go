// Package indexer drives every record's cache entry to the scanned tier in
// the background, so line counts, type labels, and coarse quality scores are
// ready before the user pages to them.
//
// The scan iterates the record store in ascending index order and checks a
// cooperative cancellation signal after each fixed batch, so a long scan
// neither blocks the foreground nor hangs on cancel. Promotions already made
// when a scan is cancelled stay in the cache; a later restart skips them.
package indexer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shuvrobasu/repo-view-extract/internal/metrics"
	"github.com/shuvrobasu/repo-view-extract/internal/store"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// batchSize is how many records are promoted between cancellation checks
// and progress notifications.
const batchSize = 100

// State is the indexer lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Progress is a periodic notification while a scan runs.
type Progress struct {
	Processed int
	Total     int
}

// Statistics summarizes a finished scan.
type Statistics struct {
	Processed int
	Promoted  int
	Total     int
	Cancelled bool
	Duration  time.Duration
}

// Notifier receives indexer events. Callbacks run on the scan goroutine;
// implementations must hand results to the foreground themselves (e.g. by
// posting a message) rather than touching UI state directly.
type Notifier interface {
	IndexProgress(p Progress)
	IndexCompleted(stats Statistics)
	IndexCancelled(stats Statistics)
}

// Indexer promotes all records to at least the scanned tier. Only one scan
// may be active at a time; Start while running is rejected, not queued.
type Indexer struct {
	store *store.Store
	cache *metrics.Cache

	running atomic.Bool
	state   atomic.Int32
	cancel  context.CancelFunc
	mu      sync.Mutex // guards cancel
	done    chan struct{}
}

// New creates an Indexer over the given store and cache.
func New(st *store.Store, cache *metrics.Cache) *Indexer {
	return &Indexer{store: st, cache: cache}
}

// State returns the current lifecycle state.
func (ix *Indexer) State() State {
	return State(ix.state.Load())
}

// Start launches a background scan. It returns types.ErrIndexerBusy if a
// scan is already running. The notifier may be nil.
func (ix *Indexer) Start(ctx context.Context, notifier Notifier) error {
	if !ix.running.CompareAndSwap(false, true) {
		return types.ErrIndexerBusy
	}

	scanCtx, cancel := context.WithCancel(ctx)
	ix.mu.Lock()
	ix.cancel = cancel
	ix.done = make(chan struct{})
	done := ix.done
	ix.mu.Unlock()

	ix.state.Store(int32(StateRunning))

	go func() {
		defer close(done)
		defer ix.running.Store(false)
		ix.run(scanCtx, notifier)
	}()

	return nil
}

// Cancel signals the running scan to stop and waits for it to observe the
// flag. Promotions already made are left intact. Cancelling when no scan is
// running is a no-op.
func (ix *Indexer) Cancel() {
	ix.mu.Lock()
	cancel, done := ix.cancel, ix.done
	ix.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if done != nil {
		<-done
	}
}

// Wait blocks until the current scan finishes, if one is running.
func (ix *Indexer) Wait() {
	ix.mu.Lock()
	done := ix.done
	ix.mu.Unlock()
	if done != nil {
		<-done
	}
}

// run is the scan loop. Promotion happens in ascending index order; records
// the user already viewed are at tier >= scanned and promote as a no-op.
func (ix *Indexer) run(ctx context.Context, notifier Notifier) {
	start := time.Now()
	total := ix.store.Len()

	stats := Statistics{Total: total}
	for i := 0; i < total; i++ {
		if i%batchSize == 0 {
			select {
			case <-ctx.Done():
				stats.Cancelled = true
				stats.Duration = time.Since(start)
				ix.state.Store(int32(StateCancelled))
				if notifier != nil {
					notifier.IndexCancelled(stats)
				}
				return
			default:
			}
			if notifier != nil {
				notifier.IndexProgress(Progress{Processed: i, Total: total})
			}
		}

		if ix.cache.Tier(i) < types.TierScanned {
			ix.cache.GetOrCompute(i, types.TierScanned)
			stats.Promoted++
		}
		stats.Processed++
	}

	stats.Duration = time.Since(start)
	ix.state.Store(int32(StateCompleted))
	if notifier != nil {
		notifier.IndexCompleted(stats)
	}
}
