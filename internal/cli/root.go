package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/crimeetl/internal/model"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "crimeetl",
	Short: "crimeetl - Build a crime star schema from partitioned incident extracts",
	Long: `crimeetl turns partitioned police incident extracts into a small star
schema: a Crime fact table, Property/Date/Beat/Location dimensions, and
the bridge tables linking every crime to its dimension rows.

Rows are cleaned (trimmed, deduplicated, incomplete and out-of-jurisdiction
rows dropped) and every crime type is classified by severity and nature.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of crimeetl.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("crimeetl %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.crimeetl/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.crimeetl")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(model.DefaultConfig())

	// Read in environment variables that match CRIMEETL_*, e.g.
	// CRIMEETL_OUTPUT_FORMAT for output.format
	viper.SetEnvPrefix("CRIMEETL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file, environment and bound flags over the
// defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(cfg *model.Config) {
	viper.SetDefault("input.dir", cfg.Input.Dir)
	viper.SetDefault("input.partitions", cfg.Input.Partitions)
	viper.SetDefault("input.glob", cfg.Input.Glob)
	viper.SetDefault("output.dir", cfg.Output.Dir)
	viper.SetDefault("output.format", cfg.Output.Format)
	viper.SetDefault("output.sqlite_path", cfg.Output.SQLitePath)
	viper.SetDefault("output.report", cfg.Output.Report)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("log.level", cfg.Log.Level)
}

// setupLogging installs the default slog logger
func setupLogging() {
	lvl := viper.GetString("log.level")
	if verbose && logLevel == "" {
		lvl = "debug"
	}

	level := slog.LevelInfo
	switch strings.ToLower(lvl) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
