package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nramsrud/ark-index/internal/adapters"
	"github.com/Nramsrud/ark-index/internal/builder"
	"github.com/Nramsrud/ark-index/internal/extract"
)

func runIndex(version string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot(args)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		include, _ := cmd.Flags().GetStringSlice("include")
		exclude, _ := cmd.Flags().GetStringSlice("exclude")
		maxFileKB, _ := cmd.Flags().GetInt("max-file-kb")
		maxFiles, _ := cmd.Flags().GetInt("max-files")
		noGitignore, _ := cmd.Flags().GetBool("no-gitignore")
		followSymlinks, _ := cmd.Flags().GetBool("follow-symlinks")
		noAdapters, _ := cmd.Flags().GetBool("no-adapters")
		verbose, _ := cmd.Flags().GetBool("verbose")
		asJSON, _ := cmd.Flags().GetBool("json")

		adapterFactory := func() []extract.Adapter { return adapters.DefaultChain() }
		if noAdapters {
			adapterFactory = nil
		}

		opts := builder.Options{
			RepoRoot:         root,
			Force:            force,
			IncludeGlobs:     include,
			ExcludeGlobs:     exclude,
			MaxFileKB:        maxFileKB,
			MaxFiles:         maxFiles,
			RespectGitignore: !noGitignore,
			FollowSymlinks:   followSymlinks,
			Adapters:         adapterFactory,
			Verbose:          verbose,
			Log: func(format string, a ...any) {
				fmt.Fprintf(os.Stderr, format+"\n", a...)
			},
			ToolVersion: version,
		}

		result := builder.Build(opts)
		if err := printIndexSummary(result, root, opts.IndexDir(), asJSON); err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("index failed: %s", result.Error.Error())
		}
		return nil
	}
}

func resolveRoot(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	root, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("failed to access path %q: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path %q is not a directory", path)
	}
	return root, nil
}

func printIndexSummary(result builder.Result, root, indexDir string, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if !result.Success {
		fmt.Printf("index failed: %s\n", result.Error.Error())
		return nil
	}

	mode := "full"
	if result.Stats.Incremental {
		mode = "incremental"
	}
	fmt.Printf("index complete (%s) in %dms\n", mode, result.Stats.DurationMS)
	fmt.Printf("output: %s\n", indexDir)
	fmt.Printf("files: total=%d changed=%d\n", result.Stats.TotalFiles, result.Stats.FilesChanged)
	fmt.Printf("indexed: symbols=%d tests=%d modules=%d\n",
		result.Stats.TotalSymbols, result.Stats.TotalTests, result.Stats.TotalModules)
	if len(result.Warnings) > 0 {
		fmt.Printf("warnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			parts := []string{w.Code}
			if w.File != "" {
				parts = append(parts, w.File)
			}
			parts = append(parts, w.Message)
			fmt.Printf("  %s\n", strings.Join(parts, ": "))
		}
	}
	return nil
}
