package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/crimeetl/internal/model"
	"github.com/ppiankov/crimeetl/internal/pipeline"
)

var runTimeout time.Duration

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the crime star schema from the configured partitions",
	Long: `Run reads the configured partitions, cleans and merges them, and emits
the Crime table, the Property/Date/Beat/Location dimensions and the four
bridge tables.

Nothing is written unless every table was built and verified.

Example:
  crimeetl run --input-dir ./data --output-dir ./out
  crimeetl run --format sqlite --sqlite ./out/crime.db
  crimeetl run --report run.yaml --workers 4 --timeout 5m`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("input-dir", "", "directory holding the partitions")
	runCmd.Flags().String("glob", "", "discover partitions by glob instead of the configured list")
	runCmd.Flags().String("output-dir", "", "directory for CSV output")
	runCmd.Flags().String("format", "", "output format (csv, sqlite)")
	runCmd.Flags().String("sqlite", "", "SQLite database path for --format sqlite")
	runCmd.Flags().Int("workers", 0, "number of concurrent partition reads")
	runCmd.Flags().Bool("no-cache", false, "disable the date parse cache")
	runCmd.Flags().String("report", "", "write a YAML run report to this path")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "total timeout for the run")

	_ = viper.BindPFlag("input.dir", runCmd.Flags().Lookup("input-dir"))
	_ = viper.BindPFlag("input.glob", runCmd.Flags().Lookup("glob"))
	_ = viper.BindPFlag("output.dir", runCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("output.format", runCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.sqlite_path", runCmd.Flags().Lookup("sqlite"))
	_ = viper.BindPFlag("concurrency.workers", runCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("output.report", runCmd.Flags().Lookup("report"))
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  crimeetl run\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", cfg.Input.Dir)
	if cfg.Input.Glob != "" {
		fmt.Fprintf(os.Stderr, "  Glob:         %s\n", cfg.Input.Glob)
	} else {
		fmt.Fprintf(os.Stderr, "  Partitions:   %d\n", len(cfg.Input.Partitions))
	}
	if strings.EqualFold(cfg.Output.Format, model.FormatSQLite) {
		fmt.Fprintf(os.Stderr, "  Output:       sqlite %s\n", cfg.Output.SQLitePath)
	} else {
		fmt.Fprintf(os.Stderr, "  Output:       csv %s\n", cfg.Output.Dir)
	}
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", runTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	p, err := pipeline.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	report, err := p.Run(ctx)
	if err != nil {
		if model.IsIntegrity(err) {
			fmt.Fprintf(os.Stderr, "✗ Integrity check failed, nothing was written\n")
		}
		return fmt.Errorf("run: %w", err)
	}

	report.RenderSummary(os.Stderr)

	if cfg.Output.Report != "" {
		if err := report.WriteReport(cfg.Output.Report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", cfg.Output.Report)
	}

	if cfg.Output.Verbose && report.Unify != nil {
		if perr := report.Unify.ParseErr(); perr != nil {
			fmt.Fprintf(os.Stderr, "\nUnparseable dates (first %d):\n", len(report.Unify.ParseErrors))
			for _, pe := range report.Unify.ParseErrors {
				fmt.Fprintf(os.Stderr, "  ✗ %v\n", pe)
			}
		}
	}

	return nil
}
