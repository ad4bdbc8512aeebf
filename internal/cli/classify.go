package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/crimeetl/internal/classify"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify [crime_type...]",
	Short: "Print severity and nature of crime types",
	Long: `Classify prints the severity tier and nature of each crime type.
Without arguments it lists every known label. Unknown labels classify as
Unknown.

Example:
  crimeetl classify "AUTO THEFT" RAPE`,
	Run: func(cmd *cobra.Command, args []string) {
		labels := args
		if len(labels) == 0 {
			labels = classify.Labels()
		}
		for _, label := range labels {
			c := classify.Classify(strings.TrimSpace(label))
			fmt.Printf("%-22s %-8s %s\n", c.CrimeType, c.Severity, c.Nature)
		}
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
