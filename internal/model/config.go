package model

import (
	"fmt"
	"runtime"
	"strings"
)

// Config holds the complete crimeetl configuration
type Config struct {
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// InputConfig selects the raw partitions
type InputConfig struct {
	// Dir is prepended to every relative partition path
	Dir string `yaml:"dir" mapstructure:"dir"`
	// Partitions is the ordered partition list. Order matters: the first
	// partition is truncated and dedup keeps first occurrences.
	Partitions []string `yaml:"partitions" mapstructure:"partitions"`
	// Glob replaces Partitions when set (doublestar syntax, sorted by name)
	Glob string `yaml:"glob,omitempty" mapstructure:"glob"`
}

// OutputConfig selects the sink
type OutputConfig struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`
	Format     string `yaml:"format" mapstructure:"format"` // csv or sqlite
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	Report     string `yaml:"report,omitempty" mapstructure:"report"` // optional YAML run report path
	Verbose    bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ConcurrencyConfig bounds parallel partition reads
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// CacheConfig controls the date parse memo
type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// Output formats
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// DefaultPartitions is the fixed partition list of the crime extract
var DefaultPartitions = []string{
	"crime.csv",
	"crime_25471_50000.csv",
	"crime_50001_75000.csv",
	"crime_75001_100000.csv",
	"crime_100001_125000.csv",
	"crime_125001_150000.csv",
	"crime_150001_175000.csv",
	"crime_175001_200000.csv",
	"crime_200001_225000.csv",
}

// DefaultConfig returns the configuration of the standard batch job
func DefaultConfig() *Config {
	partitions := make([]string, len(DefaultPartitions))
	copy(partitions, DefaultPartitions)

	return &Config{
		Input: InputConfig{
			Dir:        "data",
			Partitions: partitions,
		},
		Output: OutputConfig{
			Dir:        ".",
			Format:     FormatCSV,
			SQLitePath: "crime.db",
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration can drive a run
func (c *Config) Validate() error {
	if len(c.Input.Partitions) == 0 && c.Input.Glob == "" {
		return fmt.Errorf("input: %w", ErrNoPartitions)
	}
	switch strings.ToLower(c.Output.Format) {
	case FormatCSV:
		if c.Output.Dir == "" {
			return fmt.Errorf("output.dir is required for csv output")
		}
	case FormatSQLite:
		if c.Output.SQLitePath == "" {
			return fmt.Errorf("output.sqlite_path is required for sqlite output")
		}
	default:
		return fmt.Errorf("output.format %q: %w", c.Output.Format, ErrUnknownFormat)
	}
	if c.Concurrency.Workers < 0 {
		return fmt.Errorf("concurrency.workers must be >= 0, got %d", c.Concurrency.Workers)
	}
	return nil
}
