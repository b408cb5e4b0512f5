// Package cli is the thin command-line shell over the index builder and
// verifier. All index logic lives below it; this layer parses flags,
// resolves the working directory, and prints run summaries.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand wires the ark command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ark",
		Short: "Build and verify evidence-grade repository indexes",
		Long: `Ark maintains a multi-resolution, file-backed repository index for
coding agents: a structural repo map, a symbol stream, a test catalog,
and a content-hash ledger, committed atomically under .ark/index/.`,
		SilenceUsage: true,
	}

	indexCmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Build or incrementally refresh the repository index",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIndex(version),
	}
	indexCmd.Flags().Bool("force", false, "Ignore the cached index and re-index everything")
	indexCmd.Flags().StringSlice("include", nil, "Include globs (default: all files)")
	indexCmd.Flags().StringSlice("exclude", nil, "Exclude globs, gitignore syntax")
	indexCmd.Flags().Int("max-file-kb", 0, "Per-file size cap in KiB")
	indexCmd.Flags().Int("max-files", 0, "Candidate-count cap before the build fails")
	indexCmd.Flags().Bool("no-gitignore", false, "Ignore .gitignore files during discovery")
	indexCmd.Flags().Bool("follow-symlinks", false, "Follow symlinks whose targets stay inside the repo")
	indexCmd.Flags().Bool("no-adapters", false, "Disable tree-sitter adapters, regex baseline only")
	indexCmd.Flags().BoolP("verbose", "v", false, "Print per-phase progress")
	indexCmd.Flags().Bool("json", false, "Print a machine-readable run summary")

	verifyCmd := &cobra.Command{
		Use:   "verify [path]",
		Short: "Validate a cached index without re-indexing",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runVerify,
	}
	verifyCmd.Flags().Bool("json", false, "Print the machine-readable verification result")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ark %s\n", version)
		},
	}

	rootCmd.AddCommand(indexCmd, verifyCmd, versionCmd)
	return rootCmd
}
