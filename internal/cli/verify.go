package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/crimeetl/internal/pipeline"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <dir>",
	Short: "Check emitted CSV tables for consistency",
	Long: `Verify re-reads the CSV tables in a directory and checks that surrogate
keys are dense, dimension rows are unique, every crime has exactly one row
in each bridge (Crime_Beat may omit crimes whose beat is unknown), bridge
keys resolve, and every crime is classified.

Example:
  crimeetl verify ./out`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		checks, err := pipeline.Verify(args[0])
		if err != nil {
			return err
		}

		failed := 0
		for _, c := range checks {
			if c.Passed {
				fmt.Fprintf(os.Stderr, "✓ %s\n", c.Name)
				continue
			}
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", c.Name, c.Detail)
		}

		fmt.Fprintf(os.Stderr, "\n  %d checks, %d failed\n\n", len(checks), failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d checks failed", failed, len(checks))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
