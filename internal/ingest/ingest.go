// Package ingest loads record sets from bulk JSON dumps (a single array or
// JSON-lines) and from directory scans. Loading builds a complete new slice
// before anyone sees it: on any failure the caller's existing store is left
// untouched.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// MaxDumpSize is the largest JSON dump accepted (2 GB).
const MaxDumpSize = 2 << 30

// maxLineBytes bounds a single JSON-lines record (64 MB).
const maxLineBytes = 64 << 20

// progressInterval is how many JSONL records are read between progress
// callbacks.
const progressInterval = 500

// ProgressFunc receives load progress. done/total are in bytes for JSON
// loads and in files for directory scans.
type ProgressFunc func(done, total int64)

// LoadFile reads a record dump from disk. A file starting with '[' is
// decoded as one JSON array; anything else is treated as JSON-lines, where
// malformed lines are logged and skipped rather than failing the load.
func LoadFile(ctx context.Context, path string, progress ProgressFunc) ([]types.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxDumpSize {
		return nil, fmt.Errorf("%s: %w", path, types.ErrFileTooLarge)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Load(ctx, f, info.Size(), progress)
}

// Load reads records from r. totalSize may be 0 when unknown; it is only
// used for progress reporting.
func Load(ctx context.Context, r io.Reader, totalSize int64, progress ProgressFunc) ([]types.Record, error) {
	br := bufio.NewReaderSize(r, 1<<20)

	first, err := peekFirstByte(br)
	if err != nil {
		if err == io.EOF {
			return []types.Record{}, nil
		}
		return nil, fmt.Errorf("read input: %w", err)
	}

	if first == '[' {
		return loadArray(ctx, br)
	}
	return loadLines(ctx, br, totalSize, progress)
}

// loadArray decodes a whole JSON array of records.
func loadArray(ctx context.Context, r io.Reader) ([]types.Record, error) {
	select {
	case <-ctx.Done():
		return nil, types.ErrLoadCancelled
	default:
	}

	var records []types.Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode JSON array: %w", err)
	}
	if records == nil {
		records = []types.Record{}
	}
	return records, nil
}

// loadLines decodes one record per line, skipping malformed lines.
func loadLines(ctx context.Context, r io.Reader, totalSize int64, progress ProgressFunc) ([]types.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), maxLineBytes)

	records := make([]types.Record, 0, 1024)
	var bytesRead int64
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		bytesRead += int64(len(line)) + 1

		if len(line) == 0 {
			continue
		}

		var rec types.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Printf("ingest: skipping line %d: %v", lineNum, err)
			continue
		}
		records = append(records, rec)

		if lineNum%progressInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, types.ErrLoadCancelled
			default:
			}
			if progress != nil {
				progress(bytesRead, totalSize)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return records, nil
}

// peekFirstByte returns the first non-whitespace byte without consuming it.
func peekFirstByte(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := br.ReadByte(); err != nil {
				return 0, err
			}
		default:
			return b[0], nil
		}
	}
}
