package relate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/crimeetl/internal/dimension"
	"github.com/ppiankov/crimeetl/internal/model"
)

func fact(seq int, crime, beat, typ string) model.UnifiedRecord {
	return model.UnifiedRecord{
		Seq:          seq,
		Number:       "n",
		CrimeType:    crime,
		Date:         time.Date(2009, time.January, seq, 0, 0, 0, 0, time.UTC),
		Beat:         beat,
		Neighborhood: "Downtown",
		NPU:          "M",
		PropertyType: typ,
		Road:         "PEACHTREE ST",
		City:         "Atlanta",
		County:       "Fulton County",
		State:        "Georgia",
		Country:      "United States",
	}
}

func set(recs ...model.UnifiedRecord) *model.RecordSet {
	return &model.RecordSet{Records: recs, DateLayout: model.DateOnlyLayout}
}

func cells(t *model.Table) [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		for _, v := range row {
			out[i] = append(out[i], v.String())
		}
	}
	return out
}

func TestBuild_SharedBeat(t *testing.T) {
	s := set(
		fact(1, "RAPE", "301", "Street"),
		fact(2, "HOMICIDE", "301", "Street"),
	)
	dim, err := dimension.Build(dimension.Beat, s)
	require.NoError(t, err)
	require.Equal(t, 1, dim.Len())

	bridge, stats, err := Build(s, dim, dimension.Crime(s))
	require.NoError(t, err)

	assert.Equal(t, model.TableCrimeBeat, bridge.Name)
	assert.Equal(t, []string{"cID", "bID"}, bridge.ColumnNames())
	assert.Equal(t, [][]string{{"1", "1"}, {"2", "1"}}, cells(bridge))
	assert.Equal(t, 2, stats.Matched)
	assert.Zero(t, stats.Unmatched)
}

func TestBuild_AllDimensionsComplete(t *testing.T) {
	s := set(
		fact(1, "RAPE", "301", "Street"),
		fact(2, "AUTO THEFT", "512", "Residence"),
		fact(3, "HOMICIDE", "301", "Street"),
	)
	crime := dimension.Crime(s)

	for _, spec := range dimension.All() {
		dim, err := dimension.Build(spec, s)
		require.NoError(t, err, spec.Table)

		bridge, stats, err := Build(s, dim, crime)
		require.NoError(t, err, spec.Table)

		assert.Equal(t, s.Len(), bridge.Len(), spec.Bridge)
		assert.Equal(t, s.Len(), stats.Matched, spec.Bridge)
		for i, row := range bridge.Rows {
			assert.Equal(t, model.Int(i+1), row[0], spec.Bridge)
			assert.True(t, row[1].Valid, spec.Bridge)
		}
	}
}

// A dimension built from a different record set leaves facts unmatched
func TestBuild_Unmatched(t *testing.T) {
	full := set(
		fact(1, "RAPE", "301", "Street"),
		fact(2, "HOMICIDE", "999", "Garage"),
		fact(3, "ROBBERY", "301", "Street"),
	)
	partial := set(fact(1, "RAPE", "301", "Street"))
	crime := dimension.Crime(full)

	beats, err := dimension.Build(dimension.Beat, partial)
	require.NoError(t, err)
	beatBridge, beatStats, err := Build(full, beats, crime)
	require.NoError(t, err)

	// Beat drops the unmatched fact but keeps cIDs
	assert.Equal(t, [][]string{{"1", "1"}, {"3", "1"}}, cells(beatBridge))
	assert.Equal(t, 1, beatStats.Dropped)
	assert.Equal(t, 2, beatStats.Rows)

	props, err := dimension.Build(dimension.Property, partial)
	require.NoError(t, err)
	propBridge, propStats, err := Build(full, props, crime)
	require.NoError(t, err)

	// Property keeps the fact with a null key
	assert.Equal(t, [][]string{{"1", "1"}, {"2", ""}, {"3", "1"}}, cells(propBridge))
	assert.False(t, propBridge.Rows[1][1].Valid)
	assert.Equal(t, 1, propStats.Unmatched)
	assert.Zero(t, propStats.Dropped)
}

func TestBuild_MisalignedSeq(t *testing.T) {
	s := set(
		fact(1, "RAPE", "301", "Street"),
		fact(3, "HOMICIDE", "301", "Street"),
	)
	dim, err := dimension.Build(dimension.Property, s)
	require.NoError(t, err)

	_, _, err = Build(s, dim, dimension.Crime(s))
	require.Error(t, err)
	assert.True(t, model.IsIntegrity(err))
}

func TestBuild_CrimeMismatch(t *testing.T) {
	s := set(fact(1, "RAPE", "301", "Street"), fact(2, "RAPE", "302", "Street"))
	dim, err := dimension.Build(dimension.Beat, s)
	require.NoError(t, err)

	short := dimension.Crime(set(fact(1, "RAPE", "301", "Street")))
	_, _, err = Build(s, dim, short)
	assert.True(t, model.IsIntegrity(err))

	_, _, err = Build(s, dim, nil)
	assert.True(t, model.IsIntegrity(err))

	crime := dimension.Crime(s)
	crime.Rows[1][0] = model.Int(7)
	_, _, err = Build(s, dim, crime)
	assert.True(t, model.IsIntegrity(err))
}
