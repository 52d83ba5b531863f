// Package store is the Postgres-backed cache for pkg/tracker: a snapshot
// of each (stack, path)'s hunk list, so a restarted process doesn't have
// to replay a stack's whole commit history before it can answer queries.
// It is a cache, not the source of truth - the spec the algebra implements
// has no persisted state, and losing this table only costs re-ingestion.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/benchhq/hunkdep/pkg/hunkdep"
	"github.com/benchhq/hunkdep/pkg/ids"
	"github.com/benchhq/hunkdep/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// InvalidationChannel is the Postgres NOTIFY channel a Save issues on
// every successful upsert, carrying "stack_id:path" as the payload.
const InvalidationChannel = "hunk_range_invalidated"

const schema = `
CREATE TABLE IF NOT EXISTS hunk_range_snapshot (
	stack_id    uuid NOT NULL,
	path        text NOT NULL,
	commit_ids  text[] NOT NULL,
	hunks       jsonb NOT NULL,
	updated_at  timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (stack_id, path)
)`

// Store caches PathRanges snapshots in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to Postgres and ensures the cache table exists.
func Open(ctx context.Context, uri string) (*Store, error) {
	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ensure hunk_range_snapshot table")
	}

	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Pool exposes the underlying connection pool for Listen, which needs a
// dedicated long-lived connection rather than one borrowed per query.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

type snapshotRow struct {
	Hunks []hunkdep.HunkRange `json:"hunks"`
}

// Save upserts the current snapshot of pr for (stackID, path) and notifies
// InvalidationChannel.
func (s *Store) Save(ctx context.Context, stackID ids.StackID, path string, pr *hunkdep.PathRanges) error {
	payload, err := json.Marshal(snapshotRow{Hunks: pr.Hunks})
	if err != nil {
		return errors.Wrap(err, "marshal hunk range snapshot")
	}

	commitIDs := pr.CommitIDs()
	commitIDStrs := make([]string, len(commitIDs))
	for i, id := range commitIDs {
		commitIDStrs[i] = id.String()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin save transaction")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO hunk_range_snapshot (stack_id, path, commit_ids, hunks, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (stack_id, path) DO UPDATE
		SET commit_ids = EXCLUDED.commit_ids, hunks = EXCLUDED.hunks, updated_at = now()
	`, stackID.String(), path, commitIDStrs, payload)
	if err != nil {
		return errors.Wrap(err, "upsert hunk range snapshot")
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, InvalidationChannel, stackID.String()+":"+path); err != nil {
		return errors.Wrap(err, "notify hunk range invalidated")
	}

	return errors.Wrap(tx.Commit(ctx), "commit save transaction")
}

// Load reads a cached snapshot back, reconstructing a PathRanges via
// hunkdep.Restore. found is false with a nil error when nothing is
// cached yet for (stackID, path).
func (s *Store) Load(ctx context.Context, stackID ids.StackID, path string) (*hunkdep.PathRanges, bool, error) {
	var commitIDStrs []string
	var payload []byte

	err := s.pool.QueryRow(ctx, `
		SELECT commit_ids, hunks FROM hunk_range_snapshot
		WHERE stack_id = $1 AND path = $2
	`, stackID.String(), path).Scan(&commitIDStrs, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "load hunk range snapshot")
	}

	var row snapshotRow
	if err := json.Unmarshal(payload, &row); err != nil {
		return nil, false, errors.Wrap(err, "unmarshal hunk range snapshot")
	}

	commitIDs := make([]ids.CommitID, 0, len(commitIDStrs))
	for _, s := range commitIDStrs {
		id, err := ids.ParseCommitID(s)
		if err != nil {
			return nil, false, errors.Wrap(err, "parse cached commit id")
		}
		commitIDs = append(commitIDs, id)
	}

	return hunkdep.Restore(row.Hunks, commitIDs), true, nil
}

// Listen issues LISTEN on InvalidationChannel and calls onInvalidate for
// every notification received, until ctx is cancelled. It is meant to run
// in its own goroutine in a multi-replica deployment, so every replica
// can drop its in-memory copy of a path another replica just mutated.
func Listen(ctx context.Context, pool *pgxpool.Pool, onInvalidate func(stackID, path string)) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return errors.Wrap(err, "acquire listener connection")
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, fmt.Sprintf("LISTEN %s", InvalidationChannel)); err != nil {
		return errors.Wrap(err, "listen on invalidation channel")
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "wait for invalidation notification")
		}

		stackID, path, ok := splitPayload(notification.Payload)
		if !ok {
			logger.Warn("malformed invalidation payload", zap.String("payload", notification.Payload))
			continue
		}
		onInvalidate(stackID, path)
	}
}

func splitPayload(payload string) (stackID, path string, ok bool) {
	for i := 0; i < len(payload); i++ {
		if payload[i] == ':' {
			return payload[:i], payload[i+1:], true
		}
	}
	return "", "", false
}
