package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/ppiankov/crimeetl/internal/model"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults(model.DefaultConfig())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Output.Format != model.FormatCSV {
		t.Errorf("expected csv, got %s", cfg.Output.Format)
	}
	if len(cfg.Input.Partitions) != len(model.DefaultPartitions) {
		t.Errorf("expected %d partitions, got %d", len(model.DefaultPartitions), len(cfg.Input.Partitions))
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "input:\n  glob: \"crime*.csv\"\noutput:\n  format: sqlite\n  sqlite_path: /tmp/x.db\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CRIMEETL_CONCURRENCY_WORKERS", "3")

	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })
	initConfig()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Input.Glob != "crime*.csv" {
		t.Errorf("expected glob from file, got %q", cfg.Input.Glob)
	}
	if cfg.Output.Format != model.FormatSQLite || cfg.Output.SQLitePath != "/tmp/x.db" {
		t.Errorf("unexpected output config %+v", cfg.Output)
	}
	if cfg.Concurrency.Workers != 3 {
		t.Errorf("expected 3 workers from env, got %d", cfg.Concurrency.Workers)
	}
	if cfg.Output.Dir != "." {
		t.Errorf("expected default output dir, got %q", cfg.Output.Dir)
	}
}
