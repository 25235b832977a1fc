package session

import (
	"github.com/shuvrobasu/repo-view-extract/internal/export"
	"github.com/shuvrobasu/repo-view-extract/internal/indexer"
	"github.com/shuvrobasu/repo-view-extract/internal/query"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// Event is a notification posted from a background task to the foreground.
// Events arrive in the order they were emitted.
type Event interface{ sessionEvent() }

// LoadProgress reports bytes (JSON load) or files (directory scan) done.
type LoadProgress struct {
	Done  int64
	Total int64
}

// Loaded signals a successful load; the store now holds the new set.
type Loaded struct {
	Path    string
	Records int
}

// LoadFailed signals a failed load; the previous store is untouched.
type LoadFailed struct {
	Path string
	Err  error
}

// IndexProgress is the background indexer's periodic notification.
type IndexProgress struct {
	Processed int
	Total     int
}

// IndexCompleted is the indexer's terminal success notification.
type IndexCompleted struct {
	Stats indexer.Statistics
}

// IndexCancelled is the indexer's terminal cancellation notification.
type IndexCancelled struct {
	Stats indexer.Statistics
}

// FilterResult carries a finished filter evaluation. Generation identifies
// the request; stale generations are never emitted.
type FilterResult struct {
	Generation uint64
	Spec       types.FilterSpec
	Applied    bool
	Result     *query.Result
}

// SearchResult carries a finished field search.
type SearchResult struct {
	Generation uint64
	Spec       types.SearchSpec
	Matches    int
}

// FilterCleared signals the view was reset to the full record set.
type FilterCleared struct {
	Records int
}

// ExportProgress reports files written so far.
type ExportProgress struct {
	Done  int64
	Total int64
}

// ExportDone is the export's terminal notification.
type ExportDone struct {
	Dir    string
	Result *export.Result
	Err    error
}

func (LoadProgress) sessionEvent()   {}
func (Loaded) sessionEvent()         {}
func (LoadFailed) sessionEvent()     {}
func (IndexProgress) sessionEvent()  {}
func (IndexCompleted) sessionEvent() {}
func (IndexCancelled) sessionEvent() {}
func (FilterResult) sessionEvent()   {}
func (SearchResult) sessionEvent()   {}
func (FilterCleared) sessionEvent()  {}
func (ExportProgress) sessionEvent() {}
func (ExportDone) sessionEvent()     {}
