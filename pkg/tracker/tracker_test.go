package tracker_test

import (
	"context"
	"sync"
	"testing"

	"github.com/benchhq/hunkdep/pkg/hunkdep"
	"github.com/benchhq/hunkdep/pkg/ids"
	"github.com/benchhq/hunkdep/pkg/tracker"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	mu        sync.Mutex
	snapshots map[string]*hunkdep.PathRanges
	saves     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{snapshots: make(map[string]*hunkdep.PathRanges)}
}

func (f *fakeCache) key(stackID ids.StackID, path string) string {
	return stackID.String() + ":" + path
}

func (f *fakeCache) Load(ctx context.Context, stackID ids.StackID, path string) (*hunkdep.PathRanges, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.snapshots[f.key(stackID, path)]
	return pr, ok, nil
}

func (f *fakeCache) Save(ctx context.Context, stackID ids.StackID, path string, pr *hunkdep.PathRanges) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.snapshots[f.key(stackID, path)] = pr
	return nil
}

func commitID(t *testing.T, seed byte) ids.CommitID {
	t.Helper()
	raw := make([]byte, 20)
	for i := range raw {
		raw[i] = seed
	}
	id, err := ids.NewCommitID(raw)
	require.NoError(t, err)
	return id
}

func TestAddPersistsToCache(t *testing.T) {
	cache := newFakeCache()
	tr := tracker.New(cache)

	stackID := ids.NewStackID()
	err := tr.Add(context.Background(), stackID, commitID(t, 1), "values.yaml", []hunkdep.InputDiff{
		{OldStart: 1, OldLines: 0, NewStart: 1, NewLines: 5},
	})
	require.NoError(t, err)
	require.Equal(t, 1, cache.saves)

	ranges, err := tr.Intersection(context.Background(), stackID, "values.yaml", 3, 0)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
}

func TestIntersectionLoadsFromCacheOnFirstTouch(t *testing.T) {
	cache := newFakeCache()
	stackID := ids.NewStackID()

	seed := hunkdep.NewPathRanges()
	require.NoError(t, seed.Add(stackID, commitID(t, 1), []hunkdep.InputDiff{
		{OldStart: 1, OldLines: 0, NewStart: 1, NewLines: 5},
	}))
	cache.snapshots[cache.key(stackID, "values.yaml")] = seed

	tr := tracker.New(cache)
	ranges, err := tr.Intersection(context.Background(), stackID, "values.yaml", 2, 0)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
}

func TestIntersectionOnUnknownPathIsEmptyNotError(t *testing.T) {
	tr := tracker.New(nil)
	ranges, err := tr.Intersection(context.Background(), ids.NewStackID(), "unknown.yaml", 0, 100)
	require.NoError(t, err)
	require.Empty(t, ranges)
}

func TestConcurrentAddsAcrossDistinctPathsDoNotRace(t *testing.T) {
	tr := tracker.New(nil)
	stackID := ids.NewStackID()

	var wg sync.WaitGroup
	paths := []string{"a.yaml", "b.yaml", "c.yaml", "d.yaml"}
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			err := tr.Add(context.Background(), stackID, commitID(t, byte(i+1)), path, []hunkdep.InputDiff{
				{OldStart: 1, OldLines: 0, NewStart: 1, NewLines: 3},
			})
			require.NoError(t, err)
		}(i, path)
	}
	wg.Wait()

	for _, path := range paths {
		ranges, err := tr.Intersection(context.Background(), stackID, path, 1, 0)
		require.NoError(t, err)
		require.Len(t, ranges, 1)
	}
}

func TestDuplicateCommitOnSamePathIsRejected(t *testing.T) {
	tr := tracker.New(nil)
	stackID := ids.NewStackID()
	id := commitID(t, 9)

	diffs := []hunkdep.InputDiff{{OldStart: 1, OldLines: 0, NewStart: 1, NewLines: 3}}
	require.NoError(t, tr.Add(context.Background(), stackID, id, "values.yaml", diffs))

	err := tr.Add(context.Background(), stackID, id, "values.yaml", diffs)
	require.ErrorIs(t, err, hunkdep.ErrDuplicateCommit)
}
