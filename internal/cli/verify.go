package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Nramsrud/ark-index/internal/artifact"
)

func runVerify(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(args)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	indexDir := filepath.Join(root, ".ark", "index")
	result := artifact.Verify(indexDir)

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		if result.Valid {
			fmt.Printf("index at %s is valid\n", indexDir)
		} else {
			fmt.Printf("index at %s is INVALID\n", indexDir)
		}
		for _, e := range result.Errors {
			fmt.Printf("  error: %s\n", e)
		}
		for _, w := range result.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}

	if !result.Valid {
		return fmt.Errorf("index verification failed with %d error(s)", len(result.Errors))
	}
	return nil
}
