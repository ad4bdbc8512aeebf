// Package relate builds the bridge tables linking each crime to its
// dimension rows.
package relate

import (
	"fmt"
	"log/slog"

	"github.com/ppiankov/crimeetl/internal/dimension"
	"github.com/ppiankov/crimeetl/internal/model"
)

// Stats summarizes one bridge
type Stats struct {
	Bridge    string `yaml:"bridge"`
	Facts     int    `yaml:"facts"`
	Matched   int    `yaml:"matched"`
	Unmatched int    `yaml:"unmatched"`
	Dropped   int    `yaml:"dropped"` // unmatched rows removed from the bridge
	Rows      int    `yaml:"rows"`
}

// Build rejoins every fact to dim and emits the bridge table {cID, <key>}.
//
// The rejoin is a left join on the dimension's join key. Row i of the joined
// result must be fact Seq i+1 and crime row i must carry cID i+1; anything
// else is a *model.IntegrityError and nothing is returned. Unmatched facts
// keep a null key unless the dimension drops them, which happens after cIDs
// are assigned so surviving rows keep their original cID.
func Build(set *model.RecordSet, dim *dimension.Dimension, crime *model.Table) (*model.Table, *Stats, error) {
	spec := dim.Spec

	if err := checkCrime(spec.Bridge, set, crime); err != nil {
		return nil, nil, err
	}

	keyOf, err := spec.KeyFunc(set)
	if err != nil {
		return nil, nil, err
	}

	type joined struct {
		seq int
		id  int
		ok  bool
	}
	rows := make([]joined, 0, set.Len())
	for i := range set.Records {
		rec := &set.Records[i]
		id, ok := dim.Lookup(keyOf(rec))
		rows = append(rows, joined{seq: rec.Seq, id: id, ok: ok})
	}

	if len(rows) != set.Len() {
		return nil, nil, &model.IntegrityError{
			Table:  spec.Bridge,
			Detail: fmt.Sprintf("join produced %d rows for %d facts", len(rows), set.Len()),
		}
	}

	stats := &Stats{Bridge: spec.Bridge, Facts: set.Len()}
	out := make([][]model.Value, 0, len(rows))

	for i, r := range rows {
		if r.seq != i+1 {
			return nil, nil, &model.IntegrityError{
				Table:  spec.Bridge,
				Detail: fmt.Sprintf("row %d holds fact %d", i+1, r.seq),
			}
		}
		cid := i + 1

		if !r.ok {
			stats.Unmatched++
			if spec.DropUnmatched {
				stats.Dropped++
				continue
			}
			out = append(out, []model.Value{model.Int(cid), model.Null()})
			continue
		}
		stats.Matched++
		out = append(out, []model.Value{model.Int(cid), model.Int(r.id)})
	}
	stats.Rows = len(out)

	if stats.Unmatched > 0 {
		slog.Warn("facts without a dimension row",
			"bridge", spec.Bridge,
			"unmatched", stats.Unmatched,
			"dropped", stats.Dropped,
		)
	}
	slog.Debug("built bridge", "bridge", spec.Bridge, "rows", stats.Rows)

	return &model.Table{
		Name: spec.Bridge,
		Columns: []model.Column{
			{Name: "cID", Kind: model.KindInteger},
			{Name: spec.KeyName, Kind: model.KindInteger},
		},
		Rows: out,
	}, stats, nil
}

// checkCrime verifies the crime table is one row per fact with cID = row+1
func checkCrime(bridge string, set *model.RecordSet, crime *model.Table) error {
	if crime == nil {
		return &model.IntegrityError{Table: bridge, Detail: "no crime table"}
	}
	if crime.Len() != set.Len() {
		return &model.IntegrityError{
			Table:  bridge,
			Detail: fmt.Sprintf("crime has %d rows for %d facts", crime.Len(), set.Len()),
		}
	}
	for i, row := range crime.Rows {
		want := model.Int(i + 1)
		if len(row) == 0 || row[0] != want {
			return &model.IntegrityError{
				Table:  bridge,
				Detail: fmt.Sprintf("crime row %d has cID %v", i+1, row),
			}
		}
	}
	return nil
}
