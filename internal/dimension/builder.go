package dimension

import (
	"fmt"
	"strings"

	"github.com/ppiankov/crimeetl/internal/classify"
	"github.com/ppiankov/crimeetl/internal/model"
)

// Dimension is a built, deduplicated dimension table. Row i has surrogate
// key i+1.
type Dimension struct {
	Spec *Spec
	Rows [][]string

	index map[string]int // join key -> surrogate key
}

// Build projects the record set onto spec, drops projections with an empty
// value, deduplicates on the full projected tuple keeping first occurrence
// and numbers the survivors from 1.
//
// Two surviving rows that share a join key would make the fact rejoin fan
// out, which is reported as a *model.IntegrityError.
func Build(spec *Spec, set *model.RecordSet) (*Dimension, error) {
	idx, err := spec.joinPositions()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var rows [][]string

	for i := range set.Records {
		values := spec.Project(set, &set.Records[i])
		if hasEmpty(values) {
			continue
		}
		key := strings.Join(values, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, values)
	}

	index := make(map[string]int, len(rows))
	for i, values := range rows {
		jk := joinKey(values, idx)
		if prev, dup := index[jk]; dup {
			return nil, &model.IntegrityError{
				Table:  spec.Table,
				Detail: fmt.Sprintf("%s %d and %d share join key %q", spec.KeyName, prev, i+1, strings.ReplaceAll(jk, "\x1f", ", ")),
			}
		}
		index[jk] = i + 1
	}

	return &Dimension{Spec: spec, Rows: rows, index: index}, nil
}

// Lookup returns the surrogate key for a join key
func (d *Dimension) Lookup(joinKey string) (int, bool) {
	id, ok := d.index[joinKey]
	return id, ok
}

// Len returns the number of rows
func (d *Dimension) Len() int {
	return len(d.Rows)
}

// Table renders the dimension for a sink, surrogate key first
func (d *Dimension) Table() *model.Table {
	cols := make([]model.Column, 0, len(d.Spec.Columns)+1)
	cols = append(cols, model.Column{Name: d.Spec.KeyName, Kind: model.KindInteger})
	cols = append(cols, d.Spec.Columns...)

	rows := make([][]model.Value, len(d.Rows))
	for i, values := range d.Rows {
		row := make([]model.Value, 0, len(values)+1)
		row = append(row, model.Int(i+1))
		for _, v := range values {
			row = append(row, model.Text(v))
		}
		rows[i] = row
	}

	return &model.Table{Name: d.Spec.Table, Columns: cols, Rows: rows}
}

// Crime builds the Crime table: one row per fact, in fact order, never
// deduplicated, so its cID is the fact sequence number.
func Crime(set *model.RecordSet) *model.Table {
	rows := make([][]model.Value, len(set.Records))
	for i := range set.Records {
		rec := &set.Records[i]
		c := classify.Classify(rec.CrimeType)
		rows[i] = []model.Value{
			model.Int(i + 1),
			model.Text(rec.CrimeType),
			model.Text(string(c.Severity)),
			model.Text(string(c.Nature)),
		}
	}

	return &model.Table{
		Name: model.TableCrime,
		Columns: []model.Column{
			{Name: "cID", Kind: model.KindInteger},
			{Name: "crime_type", Kind: model.KindText},
			{Name: "severity", Kind: model.KindText},
			{Name: "crime_nature", Kind: model.KindText},
		},
		Rows: rows,
	}
}

func hasEmpty(values []string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}
