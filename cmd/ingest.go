package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/benchhq/hunkdep/pkg/config"
	"github.com/benchhq/hunkdep/pkg/diffparse"
	"github.com/benchhq/hunkdep/pkg/ids"
	"github.com/benchhq/hunkdep/pkg/store"
	"github.com/benchhq/hunkdep/pkg/tracker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// IngestCmd folds a single unified diff patch into a stack's hunk
// ownership for one path, straight against the Postgres cache, without
// going through the HTTP API. Useful for backfilling a stack's history
// from a script.
func IngestCmd() *cobra.Command {
	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a single commit's diff for a path",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return config.BindFlags(cmd.Flags(), viper.GetViper())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()
			cfg := config.From(v)

			return runIngest(cmd.Context(), cfg, ingestArgs{
				stackID:  v.GetString("stack-id"),
				commitID: v.GetString("commit-id"),
				path:     v.GetString("path"),
				patch:    v.GetString("patch-file"),
			})
		},
	}

	ingestCmd.Flags().String("stack-id", "", "stack id the commit belongs to")
	ingestCmd.Flags().String("commit-id", "", "git object id of the commit")
	ingestCmd.Flags().String("path", "", "file path the diff applies to")
	ingestCmd.Flags().String("patch-file", "-", "unified diff file, or - for stdin")

	return ingestCmd
}

type ingestArgs struct {
	stackID  string
	commitID string
	path     string
	patch    string
}

func runIngest(ctx context.Context, cfg config.Config, args ingestArgs) error {
	if cfg.PGURI == "" {
		return fmt.Errorf("ingest requires --pg-uri")
	}
	if args.stackID == "" || args.commitID == "" || args.path == "" {
		return fmt.Errorf("--stack-id, --commit-id, and --path are required")
	}

	stackID, err := ids.ParseStackID(args.stackID)
	if err != nil {
		return fmt.Errorf("parse stack id: %w", err)
	}
	commitID, err := ids.ParseCommitID(args.commitID)
	if err != nil {
		return fmt.Errorf("parse commit id: %w", err)
	}

	patch, err := readPatch(args.patch)
	if err != nil {
		return fmt.Errorf("read patch: %w", err)
	}

	diffs, err := diffparse.ParseFileDiff(patch)
	if err != nil {
		return fmt.Errorf("parse patch: %w", err)
	}

	s, err := store.Open(ctx, cfg.PGURI)
	if err != nil {
		return fmt.Errorf("open postgres cache: %w", err)
	}
	defer s.Close()

	t := tracker.New(s)
	if err := t.Add(ctx, stackID, commitID, args.path, diffs); err != nil {
		return fmt.Errorf("ingest commit: %w", err)
	}

	fmt.Printf("ingested %s for %s at %s\n", args.commitID, args.path, args.stackID)
	return nil
}

func readPatch(source string) ([]byte, error) {
	if source == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(source)
}
