// Package export writes selected records' raw content out as individual
// files, taking care of filename sanitization and collision avoidance. The
// core hands it indices; everything filesystem-shaped lives here.
package export

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/shuvrobasu/repo-view-extract/internal/store"
)

const (
	// maxFilenameLength mirrors the common filesystem limit; longer names
	// are replaced with random ones.
	maxFilenameLength = 255
	randomNameLength  = 12
	defaultExtension  = ".py"

	// maxWriters bounds concurrent file writes.
	maxWriters = 8

	progressInterval = 100
)

// ProgressFunc receives export progress in files.
type ProgressFunc func(done, total int64)

// Result summarizes an export run.
type Result struct {
	Exported int
	Skipped  int // records with empty content
	Failed   int
}

// Exporter writes record content to a destination directory.
type Exporter struct {
	store *store.Store
}

// New creates an Exporter over the given store.
func New(st *store.Store) *Exporter {
	return &Exporter{store: st}
}

// Export writes the content of each record in indices to dir. Filenames are
// derived from record paths, sanitized, and de-duplicated; records with
// empty content are skipped. Individual write failures are counted, not
// fatal. Cancelling ctx stops the run; files already written stay.
func (e *Exporter) Export(ctx context.Context, dir string, indices []int, progress ProgressFunc) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	// Resolve every target path up front so collision handling stays
	// deterministic regardless of write completion order.
	type job struct {
		path    string
		content string
	}
	usedNames := make(map[string]bool)
	jobs := make([]job, 0, len(indices))
	res := &Result{}

	for i, idx := range indices {
		rec, err := e.store.Record(idx)
		if err != nil {
			res.Failed++
			continue
		}
		if rec.Content == "" {
			res.Skipped++
			continue
		}
		origPath := rec.Path
		if origPath == "" {
			origPath = fmt.Sprintf("code_%d%s", i, defaultExtension)
		}
		jobs = append(jobs, job{
			path:    uniquePath(dir, origPath, i, usedNames),
			content: rec.Content,
		})
	}

	var exported, failed, done atomic.Int64
	sem := semaphore.NewWeighted(maxWriters)
	g, gctx := errgroup.WithContext(ctx)

	total := int64(len(jobs))
	for _, j := range jobs {
		if err := sem.Acquire(gctx, 1); err != nil {
			break // cancelled
		}
		g.Go(func() error {
			defer sem.Release(1)
			if err := os.WriteFile(j.path, []byte(j.content), 0o644); err != nil {
				failed.Add(1)
			} else {
				exported.Add(1)
			}
			if n := done.Add(1); progress != nil && n%progressInterval == 0 {
				progress(n, total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Exported = int(exported.Load())
	res.Failed += int(failed.Load())
	return res, nil
}

// SafeFilename derives an export filename from a record path: basename,
// invalid characters replaced, default extension applied, over-long names
// swapped for random ones.
func SafeFilename(originalPath string, index int) string {
	name := filepath.Base(filepath.ToSlash(originalPath))
	if name == "." || name == "/" || name == "" {
		name = fmt.Sprintf("code_%d%s", index, defaultExtension)
	}

	name = Sanitize(name)
	if name == "" {
		name = fmt.Sprintf("code_%d%s", index, defaultExtension)
	}

	if filepath.Ext(name) == "" {
		name += defaultExtension
	}

	if len(name) > maxFilenameLength {
		ext := filepath.Ext(name)
		if ext == "" || len(ext) > 10 {
			ext = defaultExtension
		}
		return randomFilename(ext)
	}
	return name
}

// Sanitize strips characters that are invalid in filenames on common
// filesystems, plus control characters and leading/trailing dots and spaces.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteByte('_')
		case r < 32:
			// drop control characters
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ". ")
}

// uniquePath produces a path in dir that doesn't collide (case-insensitive)
// with any name handed out before it.
func uniquePath(dir, originalPath string, index int, used map[string]bool) string {
	name := SafeFilename(originalPath, index)

	base := strings.TrimSuffix(name, filepath.Ext(name))
	ext := filepath.Ext(name)

	final := name
	for counter := 1; used[strings.ToLower(final)]; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", base, counter, ext)
		if len(candidate) > maxFilenameLength {
			final = randomFilename(ext)
		} else {
			final = candidate
		}
	}

	used[strings.ToLower(final)] = true
	return filepath.Join(dir, final)
}

// randomFilename generates a lowercase alphanumeric name with the given
// extension.
func randomFilename(ext string) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, randomNameLength)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))]
	}
	return string(b) + ext
}
