package unify

import (
	"strings"

	"github.com/ppiankov/crimeetl/internal/model"
)

// Project restricts a raw partition to model.CanonicalColumns, in canonical
// order, trimming every field. A missing column is a *model.SchemaError.
// Extra columns are dropped. When a header repeats a column name the first
// occurrence wins.
func Project(part *model.RawPartition) ([][]string, error) {
	index := make(map[string]int, len(part.Columns))
	for i, c := range part.Columns {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}

	positions := make([]int, len(model.CanonicalColumns))
	for i, col := range model.CanonicalColumns {
		pos, ok := index[col]
		if !ok {
			return nil, &model.SchemaError{Partition: part.ID, Column: col}
		}
		positions[i] = pos
	}

	rows := make([][]string, len(part.Rows))
	for r, raw := range part.Rows {
		row := make([]string, len(positions))
		for i, pos := range positions {
			if pos < len(raw) {
				row[i] = strings.TrimSpace(raw[pos])
			}
		}
		rows[r] = row
	}
	return rows, nil
}
