// Package scanner walks a directory tree looking for candidate wallet
// keypair files and validates them on a worker pool.
package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Predicate decides whether a candidate path is a match. It is
// evaluated concurrently and must be safe for parallel use.
type Predicate func(path string) bool

// Options bound the walk.
type Options struct {
	// MaxDepth limits descent below the root; 0 means the root
	// directory only. Negative means unbounded.
	MaxDepth int
	// MaxResults caps the number of confirmed matches; <=0 means
	// unbounded.
	MaxResults int
	// Workers sizes the validation pool; <=0 means GOMAXPROCS.
	Workers int
	// BatchSize groups candidates per scheduling round; <=0 picks a
	// multiple of the worker count.
	BatchSize int
}

// Stats carries walk bookkeeping. Skipped counts entries that failed
// with something other than permission denied.
type Stats struct {
	Visited int
	Skipped int
}

// Scan walks root up to opts.MaxDepth levels deep, submits files named
// *.json (case-insensitive) to keep on a worker pool, and returns up
// to opts.MaxResults matching paths. Order is unspecified.
//
// Permission-denied entries are skipped silently; other per-entry
// errors are skipped and counted. Once ctx is cancelled no new work is
// scheduled and the results accumulated so far are returned.
func Scan(ctx context.Context, root string, opts Options, keep Predicate) ([]string, Stats, error) {
	var stats Stats

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, stats, nil
	}
	if ctx.Err() != nil {
		return nil, stats, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = workers * 8
	}

	candidates := collectCandidates(ctx, root, opts.MaxDepth, &stats)

	var (
		results []string
		found   atomic.Int64
	)
	resultCh := make(chan string, batchSize)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range resultCh {
			results = append(results, p)
		}
	}()

	limit := int64(opts.MaxResults)
	for start := 0; start < len(candidates); start += batchSize {
		if ctx.Err() != nil {
			break
		}
		if limit > 0 && found.Load() >= limit {
			break
		}
		end := min(start+batchSize, len(candidates))

		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, path := range candidates[start:end] {
			if limit > 0 && found.Load() >= limit {
				break
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				if !keep(path) {
					return nil
				}
				if limit > 0 && found.Add(1) > limit {
					// Over-confirmed in flight; drop the extra.
					return nil
				}
				resultCh <- path
				return nil
			})
		}
		_ = g.Wait()
	}

	close(resultCh)
	<-done
	return results, stats, nil
}

// collectCandidates gathers *.json file paths breadth-unspecified via
// WalkDir. Symlinked directories are not descended into, which also
// rules out ancestor loops.
func collectCandidates(ctx context.Context, root string, maxDepth int, stats *Stats) []string {
	var out []string
	rootDepth := strings.Count(filepath.Clean(root), string(os.PathSeparator))

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return fs.SkipAll
		}
		if err != nil {
			if !os.IsPermission(err) {
				stats.Skipped++
			}
			return nil
		}
		if d.IsDir() {
			if maxDepth >= 0 && path != root {
				depth := strings.Count(filepath.Clean(path), string(os.PathSeparator)) - rootDepth
				if depth > maxDepth {
					return fs.SkipDir
				}
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}
		stats.Visited++
		out = append(out, path)
		return nil
	})
	return out
}
