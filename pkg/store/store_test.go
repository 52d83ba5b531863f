package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/benchhq/hunkdep/pkg/hunkdep"
	"github.com/benchhq/hunkdep/pkg/ids"
	"github.com/benchhq/hunkdep/pkg/store"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pgContainer, err := createPostgresContainer(ctx)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	}()

	s, err := store.Open(ctx, pgContainer.ConnectionString)
	require.NoError(t, err)
	defer s.Close()

	stackID := ids.NewStackID()
	commitID := mustCommitID(t, "c1")

	pr := hunkdep.NewPathRanges()
	require.NoError(t, pr.Add(stackID, commitID, []hunkdep.InputDiff{
		{OldStart: 1, OldLines: 0, NewStart: 1, NewLines: 5},
	}))

	require.NoError(t, s.Save(ctx, stackID, "values.yaml", pr))

	restored, found, err := s.Load(ctx, stackID, "values.yaml")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, pr.Hunks, restored.Hunks)
	require.ElementsMatch(t, pr.CommitIDs(), restored.CommitIDs())
}

func TestLoadMissingReportsNotFound(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pgContainer, err := createPostgresContainer(ctx)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	}()

	s, err := store.Open(ctx, pgContainer.ConnectionString)
	require.NoError(t, err)
	defer s.Close()

	_, found, err := s.Load(ctx, ids.NewStackID(), "nope.yaml")
	require.NoError(t, err)
	require.False(t, found)
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pgContainer, err := createPostgresContainer(ctx)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	}()

	s, err := store.Open(ctx, pgContainer.ConnectionString)
	require.NoError(t, err)
	defer s.Close()

	stackID := ids.NewStackID()

	pr := hunkdep.NewPathRanges()
	require.NoError(t, pr.Add(stackID, mustCommitID(t, "c1"), []hunkdep.InputDiff{
		{OldStart: 1, OldLines: 0, NewStart: 1, NewLines: 5},
	}))
	require.NoError(t, s.Save(ctx, stackID, "values.yaml", pr))

	require.NoError(t, pr.Add(stackID, mustCommitID(t, "c2"), []hunkdep.InputDiff{
		{OldStart: 2, OldLines: 1, NewStart: 2, NewLines: 3},
	}))
	require.NoError(t, s.Save(ctx, stackID, "values.yaml", pr))

	restored, found, err := s.Load(ctx, stackID, "values.yaml")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, restored.CommitIDs(), 2)
}

func mustCommitID(t *testing.T, seed string) ids.CommitID {
	t.Helper()
	hex := ""
	for len(hex) < 40 {
		hex += seed
	}
	id, err := ids.ParseCommitID(hex[:40])
	require.NoError(t, err)
	return id
}
