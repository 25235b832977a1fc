package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

// maxScanFileSize is the largest individual file picked up by a directory
// scan (10 MB).
const maxScanFileSize = 10 << 20

// skipDirs are directory names never descended into during a scan.
var skipDirs = map[string]bool{
	"__pycache__":  true,
	"venv":         true,
	"env":          true,
	".git":         true,
	"node_modules": true,
}

// ScanDir walks root recursively for Python files and builds one record per
// file. File reads run on a bounded worker pool; results keep discovery
// order so a rescan of the same tree yields the same indices. Unreadable
// files are skipped, not fatal.
func ScanDir(ctx context.Context, root string, progress ProgressFunc) ([]types.Record, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	repoName := filepath.Base(absRoot)

	var paths []string
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep walking
		}
		if d.IsDir() {
			name := d.Name()
			if p != absRoot && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(p, ".py") {
			paths = append(paths, p)
		}
		select {
		case <-ctx.Done():
			return types.ErrLoadCancelled
		default:
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	total := int64(len(paths))
	slots := make([]*types.Record, len(paths))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, p := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return types.ErrLoadCancelled
			default:
			}

			rec, ok := readScanned(absRoot, repoName, p)
			if ok {
				slots[i] = &rec
			}

			if n := done.Add(1); progress != nil && n%50 == 0 {
				progress(n, total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]types.Record, 0, len(paths))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// readScanned reads one file into a record with the directory-scan defaults.
func readScanned(root, repoName, p string) (types.Record, bool) {
	info, err := os.Stat(p)
	if err != nil || info.Size() > maxScanFileSize {
		return types.Record{}, false
	}

	content, err := os.ReadFile(p)
	if err != nil {
		return types.Record{}, false
	}

	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = p
	}

	return types.Record{
		RepoName: repoName,
		Path:     filepath.ToSlash(rel),
		Size:     info.Size(),
		Content:  string(content),
		License:  "N/A",
		Copies:   1,
	}, true
}
