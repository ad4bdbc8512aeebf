// Package dimension builds the deduplicated dimension tables of the crime
// star schema and assigns their surrogate keys.
package dimension

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/crimeetl/internal/model"
)

// Spec declares one dimension: its columns, how a fact projects onto them,
// and which of them form the join key used to rejoin facts.
type Spec struct {
	Table   string         // Dimension table name
	KeyName string         // Surrogate key column, e.g. "pID"
	Columns []model.Column // Non-key columns in emission order

	// JoinKey names the columns a fact is matched on. Every other column
	// must be derived from these.
	JoinKey []string

	// Bridge is the relationship table linking facts to this dimension
	Bridge string

	// DropUnmatched removes bridge rows whose fact found no dimension row.
	// Only the Beat bridge does this; the others keep a null key.
	DropUnmatched bool

	// Project maps a fact onto Columns
	Project func(set *model.RecordSet, rec *model.UnifiedRecord) []string
}

// joinPositions resolves JoinKey names to column positions
func (s *Spec) joinPositions() ([]int, error) {
	idx := make([]int, len(s.JoinKey))
	for i, name := range s.JoinKey {
		pos := -1
		for j, c := range s.Columns {
			if c.Name == name {
				pos = j
				break
			}
		}
		if pos < 0 {
			return nil, fmt.Errorf("dimension %s: join column %q is not a column", s.Table, name)
		}
		idx[i] = pos
	}
	return idx, nil
}

// KeyFunc returns a function computing the join key of a fact
func (s *Spec) KeyFunc(set *model.RecordSet) (func(rec *model.UnifiedRecord) string, error) {
	idx, err := s.joinPositions()
	if err != nil {
		return nil, err
	}
	return func(rec *model.UnifiedRecord) string {
		return joinKey(s.Project(set, rec), idx)
	}, nil
}

func joinKey(values []string, idx []int) string {
	parts := make([]string, len(idx))
	for i, pos := range idx {
		parts[i] = values[pos]
	}
	return strings.Join(parts, "\x1f")
}

// ZoneOf derives the police zone from a beat: its first character
func ZoneOf(beat string) string {
	if beat == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(beat)
	return beat[:size]
}

// QuarterOf maps a month number (1-12) to its calendar quarter
func QuarterOf(month int) int {
	return (month-1)/3 + 1
}

// Property dimension: pID, type
var Property = &Spec{
	Table:   model.TableProperty,
	KeyName: "pID",
	Columns: []model.Column{{Name: "type", Kind: model.KindText}},
	JoinKey: []string{"type"},
	Bridge:  model.TableCrimeProperty,
	Project: func(_ *model.RecordSet, rec *model.UnifiedRecord) []string {
		return []string{rec.PropertyType}
	},
}

// Date dimension: dID, date, month, quarter, year
var Date = &Spec{
	Table:   model.TableDate,
	KeyName: "dID",
	Columns: []model.Column{
		{Name: "date", Kind: model.KindText},
		{Name: "month", Kind: model.KindText},
		{Name: "quarter", Kind: model.KindInteger},
		{Name: "year", Kind: model.KindText},
	},
	JoinKey: []string{"date"},
	Bridge:  model.TableCrimeDate,
	Project: func(set *model.RecordSet, rec *model.UnifiedRecord) []string {
		month := int(rec.Date.Month())
		return []string{
			set.FormatDate(rec.Date),
			strconv.Itoa(month),
			strconv.Itoa(QuarterOf(month)),
			strconv.Itoa(rec.Date.Year()),
		}
	},
}

// Beat dimension: bID, beat, zone
var Beat = &Spec{
	Table:   model.TableBeat,
	KeyName: "bID",
	Columns: []model.Column{
		{Name: "beat", Kind: model.KindText},
		{Name: "zone", Kind: model.KindText},
	},
	JoinKey:       []string{"beat"},
	Bridge:        model.TableCrimeBeat,
	DropUnmatched: true, // unmatched facts get no Crime_Beat row
	Project: func(_ *model.RecordSet, rec *model.UnifiedRecord) []string {
		return []string{rec.Beat, ZoneOf(rec.Beat)}
	},
}

// Location dimension: lID, road, neighborhood, npu
var Location = &Spec{
	Table:   model.TableLocation,
	KeyName: "lID",
	Columns: []model.Column{
		{Name: "road", Kind: model.KindText},
		{Name: "neighborhood", Kind: model.KindText},
		{Name: "npu", Kind: model.KindText},
	},
	JoinKey: []string{"road", "neighborhood", "npu"},
	Bridge:  model.TableCrimeLocation,
	Project: func(_ *model.RecordSet, rec *model.UnifiedRecord) []string {
		return []string{rec.Road, rec.Neighborhood, rec.NPU}
	},
}

// All lists the deduplicated dimensions in emission order
func All() []*Spec {
	return []*Spec{Property, Date, Beat, Location}
}
