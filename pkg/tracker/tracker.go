// Package tracker is the per-process multiplexer over pkg/hunkdep: it owns
// one PathRanges per (stack, path), the concurrency boundary the core
// algebra itself deliberately does not provide, and fronts an optional
// cache so a freshly started process can pick up where the last one left
// off without re-ingesting every commit in the stack.
package tracker

import (
	"context"
	"sync"

	"github.com/benchhq/hunkdep/pkg/hunkdep"
	"github.com/benchhq/hunkdep/pkg/ids"
	"github.com/benchhq/hunkdep/pkg/logger"
)

// Cache is the subset of pkg/store.Store the tracker needs: load a
// snapshot on first touch of a path, and persist one after every
// successful ingest. Best-effort - a Cache is an optimization, not the
// source of truth for the algebra.
type Cache interface {
	Load(ctx context.Context, stackID ids.StackID, path string) (*hunkdep.PathRanges, bool, error)
	Save(ctx context.Context, stackID ids.StackID, path string, pr *hunkdep.PathRanges) error
}

type pathKey struct {
	stackID ids.StackID
	path    string
}

// Tracker holds one hunkdep.PathRanges per (stack, path) currently loaded
// in this process.
type Tracker struct {
	cache Cache

	mu    sync.RWMutex
	paths map[pathKey]*hunkdep.PathRanges
}

// New returns a Tracker. cache may be nil, in which case the tracker is
// purely in-memory for the life of the process.
func New(cache Cache) *Tracker {
	return &Tracker{
		cache: cache,
		paths: make(map[pathKey]*hunkdep.PathRanges),
	}
}

// Add folds one commit's diffs for path into its PathRanges, loading the
// path from the cache first if this process hasn't touched it yet.
func (t *Tracker) Add(ctx context.Context, stackID ids.StackID, commitID ids.CommitID, path string, diffs []hunkdep.InputDiff) error {
	pr, err := t.loadOrCreate(ctx, stackID, path)
	if err != nil {
		return err
	}

	if err := pr.Add(stackID, commitID, diffs); err != nil {
		return err
	}

	if t.cache != nil {
		if err := t.cache.Save(ctx, stackID, path, pr); err != nil {
			logger.For(stackID, path).WithCommit(commitID).Warn("failed to persist hunk range snapshot", logger.Err(err))
		}
	}

	return nil
}

// Intersection reports the ranges overlapping [start, start+lines) for a
// path, loading it from the cache first if needed. An unknown path
// reports no overlaps rather than an error - it simply has no history
// yet.
func (t *Tracker) Intersection(ctx context.Context, stackID ids.StackID, path string, start, lines uint32) ([]hunkdep.HunkRange, error) {
	pr, err := t.loadOrCreate(ctx, stackID, path)
	if err != nil {
		return nil, err
	}
	return pr.Intersection(start, lines), nil
}

// Invalidate drops a path's in-memory PathRanges, if this process has it
// loaded, so the next Add or Intersection reloads it from the cache. Meant
// to be called from pkg/store.Listen when another replica has written a
// newer snapshot.
func (t *Tracker) Invalidate(stackID ids.StackID, path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.paths, pathKey{stackID: stackID, path: path})
}

func (t *Tracker) loadOrCreate(ctx context.Context, stackID ids.StackID, path string) (*hunkdep.PathRanges, error) {
	key := pathKey{stackID: stackID, path: path}

	t.mu.RLock()
	pr, ok := t.paths[key]
	t.mu.RUnlock()
	if ok {
		return pr, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if pr, ok := t.paths[key]; ok {
		return pr, nil
	}

	if t.cache != nil {
		cached, found, err := t.cache.Load(ctx, stackID, path)
		if err != nil {
			return nil, err
		}
		if found {
			t.paths[key] = cached
			return cached, nil
		}
	}

	pr = hunkdep.NewPathRanges()
	t.paths[key] = pr
	return pr, nil
}
