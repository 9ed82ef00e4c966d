// Package pipeline runs an independent, possibly failing transformation
// over every matching file under a directory tree, concurrently, and
// aggregates per-file failures without aborting the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Predicate selects candidate files during traversal.
type Predicate func(path string) bool

// Transform is applied once per selected file. Invocations are independent:
// a failure in one never prevents the others from running to completion.
type Transform func(ctx context.Context, path string) error

// BatchError aggregates the per-file failures of one pipeline run. Errors
// is never empty and is ordered by invocation completion, not by traversal.
type BatchError struct {
	Errors []error
}

func (e *BatchError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("1 file failed: %v", e.Errors[0])
	}
	return fmt.Sprintf("%d files failed: %v (and %d more)", len(e.Errors), e.Errors[0], len(e.Errors)-1)
}

// Unwrap exposes the individual failures to errors.Is/As.
func (e *BatchError) Unwrap() []error { return e.Errors }

// Option configures a pipeline run.
type Option func(*settings)

type settings struct {
	workers int
}

// WithWorkers bounds the number of transforms in flight at once. Values
// below one are ignored.
func WithWorkers(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.workers = n
		}
	}
}

// Run traverses root recursively, applies transform to every regular file
// accepted by match, and returns nil on full success or a *BatchError
// carrying every per-file failure.
//
// Traversal order is unspecified. Files that disappear between listing and
// visiting are skipped, not reported. There are no retries and no rollback:
// files rewritten before a sibling failure stay rewritten.
func Run(ctx context.Context, root string, match Predicate, transform Transform, opts ...Option) error {
	st, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("pipeline root %q: %w", root, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("pipeline root %q: not a directory", root)
	}

	cfg := settings{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		mu     sync.Mutex
		failed []error
	)
	collect := func(path string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, fmt.Errorf("%s: %w", path, err))
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An entry that vanished or turned unreadable mid-walk is no
			// longer a candidate.
			return nil
		}
		if d.IsDir() || !match(path) {
			return nil
		}

		g.Go(func() error {
			// Re-check the entry: it may have been deleted since listing.
			st, err := os.Stat(path)
			if err != nil || !st.Mode().IsRegular() {
				return nil
			}
			if err := transform(gCtx, path); err != nil {
				collect(path, err)
			}
			return nil
		})
		return nil
	})

	// Workers never return errors, so Wait is a pure join.
	_ = g.Wait()

	if walkErr != nil {
		collect(root, walkErr)
	}
	if len(failed) > 0 {
		return &BatchError{Errors: failed}
	}
	return nil
}

// MatchExt returns a predicate accepting files with any of the given
// extensions (without the leading dot).
func MatchExt(exts ...string) Predicate {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set["."+ext] = struct{}{}
	}
	return func(path string) bool {
		_, ok := set[filepath.Ext(path)]
		return ok
	}
}

// MatchAll accepts every file.
func MatchAll(string) bool { return true }

// IsBatch reports whether err is a pipeline aggregate and returns it.
func IsBatch(err error) (*BatchError, bool) {
	var batch *BatchError
	if errors.As(err, &batch) {
		return batch, true
	}
	return nil, false
}
