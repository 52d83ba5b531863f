package cmd

import (
	"github.com/spf13/cobra"
)

// RootCmd is the hunkdepd entry point: a service that tracks which
// commit in a stacked-branch history owns each line range of a path, and
// answers intersection queries against that history as it grows.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hunkdepd",
		Short: "Hunk dependency tracker",
		Long:  `hunkdepd tracks per-path hunk ownership across a stack of commits and answers line-range intersection queries against it.`,
	}

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(IngestCmd())

	return rootCmd
}
