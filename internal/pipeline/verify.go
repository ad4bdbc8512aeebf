package pipeline

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ppiankov/crimeetl/internal/classify"
	"github.com/ppiankov/crimeetl/internal/dimension"
	"github.com/ppiankov/crimeetl/internal/model"
	"github.com/ppiankov/crimeetl/internal/source"
)

// Check is the outcome of one verification
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Verify re-reads the CSV output in dir and checks it: every table present,
// dense surrogate keys, unique dimension rows, one bridge row per crime
// (Crime_Beat may omit unmatched crimes), resolvable bridge keys, and
// classification of every crime row.
//
// The returned error is only for I/O failures; failed checks are reported in
// the slice.
func Verify(dir string) ([]Check, error) {
	reader := &source.CSVReader{}
	tables := make(map[string]*model.RawPartition, len(model.TableOrder))
	for _, name := range model.TableOrder {
		part, err := reader.ReadFile(filepath.Join(dir, name+".csv"))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		tables[name] = part
	}

	var checks []Check
	add := func(name string, err error) {
		c := Check{Name: name, Passed: err == nil}
		if err != nil {
			c.Detail = err.Error()
		}
		checks = append(checks, c)
	}

	crime := tables[model.TableCrime]
	add("Crime keys", denseKeys(crime))
	add("Crime classification", classified(crime))

	for _, spec := range dimension.All() {
		dim := tables[spec.Table]
		add(spec.Table+" keys", denseKeys(dim))
		add(spec.Table+" uniqueness", uniqueRows(dim))
		add(spec.Bridge+" completeness", bridged(tables[spec.Bridge], len(crime.Rows), len(dim.Rows), spec.DropUnmatched))
	}

	return checks, nil
}

// denseKeys checks the first column runs 1..n in order
func denseKeys(t *model.RawPartition) error {
	for i, row := range t.Rows {
		if len(row) == 0 || row[0] != strconv.Itoa(i+1) {
			return fmt.Errorf("row %d: expected key %d", i+1, i+1)
		}
	}
	return nil
}

// uniqueRows checks no two rows share all non-key values
func uniqueRows(t *model.RawPartition) error {
	seen := make(map[string]int, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) < 2 {
			return fmt.Errorf("row %d: no values", i+1)
		}
		key := strings.Join(row[1:], "\x1f")
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("rows %d and %d are identical", prev, i+1)
		}
		seen[key] = i + 1
	}
	return nil
}

func classified(t *model.RawPartition) error {
	if len(t.Columns) < 4 {
		return fmt.Errorf("expected 4 columns, got %d", len(t.Columns))
	}
	for i, row := range t.Rows {
		c := classify.Classify(row[1])
		if row[2] != string(c.Severity) || row[3] != string(c.Nature) {
			return fmt.Errorf("row %d: %s classified %s/%s, want %s/%s", i+1, row[1], row[2], row[3], c.Severity, c.Nature)
		}
	}
	return nil
}

// bridged checks cIDs are ascending crime keys and dimension keys resolve
func bridged(t *model.RawPartition, crimes, dimRows int, mayDrop bool) error {
	if !mayDrop && len(t.Rows) != crimes {
		return fmt.Errorf("%d rows for %d crimes", len(t.Rows), crimes)
	}

	last := 0
	for i, row := range t.Rows {
		if len(row) != 2 {
			return fmt.Errorf("row %d: expected 2 values, got %d", i+1, len(row))
		}
		cid, err := strconv.Atoi(row[0])
		if err != nil || cid <= last || cid > crimes {
			return fmt.Errorf("row %d: bad cID %q", i+1, row[0])
		}
		if !mayDrop && cid != i+1 {
			return fmt.Errorf("row %d: cID %d out of sequence", i+1, cid)
		}
		last = cid

		if row[1] == "" {
			if mayDrop {
				return fmt.Errorf("row %d: null key", i+1)
			}
			continue
		}
		id, err := strconv.Atoi(row[1])
		if err != nil || id < 1 || id > dimRows {
			return fmt.Errorf("row %d: key %q does not resolve", i+1, row[1])
		}
	}
	return nil
}
