package types

import "errors"

// Domain errors. Only ingestion and export report failures upward; the
// classifier, scorer, cache, and query engine saturate to defaults instead.
var (
	ErrNoRecords       = errors.New("no records loaded")
	ErrIndexOutOfRange = errors.New("record index out of range")
	ErrLoadCancelled   = errors.New("load cancelled")
	ErrIndexerBusy     = errors.New("indexer already running")
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
)
