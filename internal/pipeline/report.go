package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/crimeetl/internal/relate"
	"github.com/ppiankov/crimeetl/internal/unify"
)

// Report summarizes a run: inputs, drops per reason, and emitted row counts
type Report struct {
	StartedAt   time.Time       `yaml:"started_at"`
	Elapsed     string          `yaml:"elapsed,omitempty"`
	Partitions  []string        `yaml:"partitions"`
	Unify       *unify.Stats    `yaml:"unify,omitempty"`
	DatesCached int             `yaml:"dates_cached"`
	Tables      []TableCount    `yaml:"tables,omitempty"`
	Bridges     []*relate.Stats `yaml:"bridges,omitempty"`
}

// TableCount is the row count of one emitted table
type TableCount struct {
	Table string `yaml:"table"`
	Rows  int    `yaml:"rows"`
}

// WriteReport writes the report as YAML to path
func (r *Report) WriteReport(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a human-readable summary
func (r *Report) RenderSummary(w io.Writer) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Run Complete\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")

	if s := r.Unify; s != nil {
		fmt.Fprintf(w, "  Partitions:          %d\n", len(s.Partitions))
		fmt.Fprintf(w, "  Input rows:          %d\n", s.InputRows)
		fmt.Fprintf(w, "  Truncated:           %d\n", s.Truncated)
		fmt.Fprintf(w, "  Incomplete:          %d\n", s.Incomplete)
		fmt.Fprintf(w, "  Duplicates:          %d\n", s.Duplicates)
		fmt.Fprintf(w, "  Out of jurisdiction: %d\n", s.OutOfJurisdiction)
		fmt.Fprintf(w, "  Bad dates:           %d\n", s.DateParseFailures)
		fmt.Fprintf(w, "  Crimes:              %d\n", s.Records)
		fmt.Fprintf(w, "\n")
	}

	for _, t := range r.Tables {
		fmt.Fprintf(w, "  %-16s %8d rows\n", t.Table, t.Rows)
	}

	for _, b := range r.Bridges {
		if b.Unmatched == 0 {
			continue
		}
		if b.Dropped > 0 {
			fmt.Fprintf(w, "  ⚠ %s: %d unmatched facts dropped\n", b.Bridge, b.Dropped)
		} else {
			fmt.Fprintf(w, "  ⚠ %s: %d unmatched facts with null key\n", b.Bridge, b.Unmatched)
		}
	}

	if r.Elapsed != "" {
		fmt.Fprintf(w, "\n  Elapsed: %s\n", r.Elapsed)
	}
	fmt.Fprintf(w, "\n")
}
