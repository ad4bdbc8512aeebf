// Package unify merges raw partitions into one cleaned, ordered record set.
package unify

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/crimeetl/internal/model"
)

// FirstPartitionRowLimit is how many rows of the first partition are used.
// Rows of the first extract (crime.csv) past this point are an artifact of
// that file. Later partitions are never cut.
const FirstPartitionRowLimit = 25471

// ExcludedCity is outside the jurisdiction of the dataset
const ExcludedCity = "Sandy Springs"

// maxParseErrorSamples bounds how many ParseErrors Stats keeps verbatim
const maxParseErrorSamples = 20

// canonical column positions after Project
const (
	posNumber = iota
	posCrime
	posDate
	posBeat
	posNeighborhood
	posNPU
	posType
	posRoad
	posCity
	posCounty
	posState
	posCountry
)

// PartitionStats counts rows per input partition
type PartitionStats struct {
	Partition string `yaml:"partition"`
	RawRows   int    `yaml:"raw_rows"`
	Used      int    `yaml:"used"` // after the first-partition cut
}

// Stats accounts for every row the Unifier dropped
type Stats struct {
	Partitions        []PartitionStats `yaml:"partitions"`
	InputRows         int              `yaml:"input_rows"`
	Truncated         int              `yaml:"truncated"`
	Incomplete        int              `yaml:"incomplete"`
	Duplicates        int              `yaml:"duplicates"`
	OutOfJurisdiction int              `yaml:"out_of_jurisdiction"`
	DateParseFailures int              `yaml:"date_parse_failures"`
	Records           int              `yaml:"records"`

	// ParseErrors keeps the first few date failures for reporting
	ParseErrors []*model.ParseError `yaml:"-"`
}

// Unifier runs the cleaning stage
type Unifier struct {
	dates    *DateParser
	progress rate.Sometimes
}

// New creates a Unifier using dates for date parsing
func New(dates *DateParser) *Unifier {
	if dates == nil {
		dates = NewDateParser(nil)
	}
	return &Unifier{
		dates:    dates,
		progress: rate.Sometimes{First: 1, Interval: 2 * time.Second},
	}
}

// Unify turns ordered raw partitions into the fact record set.
//
// Steps, in order: project onto the canonical columns and trim, cut the first
// partition at FirstPartitionRowLimit, concatenate, drop rows with an empty
// field, drop exact duplicates (first occurrence wins), drop ExcludedCity,
// parse dates. Seq is assigned last, so it is dense over the survivors.
//
// Schema errors abort; date failures drop the row and are counted.
func (u *Unifier) Unify(parts []*model.RawPartition) (*model.RecordSet, *Stats, error) {
	if len(parts) == 0 {
		return nil, nil, model.ErrNoPartitions
	}

	stats := &Stats{}
	var rows [][]string

	for i, part := range parts {
		projected, err := Project(part)
		if err != nil {
			return nil, nil, err
		}

		ps := PartitionStats{Partition: part.ID, RawRows: len(projected)}
		if i == 0 && len(projected) > FirstPartitionRowLimit {
			stats.Truncated = len(projected) - FirstPartitionRowLimit
			projected = projected[:FirstPartitionRowLimit]
		}
		ps.Used = len(projected)

		stats.Partitions = append(stats.Partitions, ps)
		stats.InputRows += ps.RawRows
		rows = append(rows, projected...)
	}

	seen := make(map[string]struct{}, len(rows))
	records := make([]model.UnifiedRecord, 0, len(rows))
	clock := false

	for n, row := range rows {
		u.progress.Do(func() {
			slog.Info("unifying", "row", n+1, "of", len(rows), "kept", len(records))
		})

		if incomplete(row) {
			stats.Incomplete++
			continue
		}

		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		if row[posCity] == ExcludedCity {
			stats.OutOfJurisdiction++
			continue
		}

		date, err := u.dates.Parse(row[posDate])
		if err != nil {
			stats.DateParseFailures++
			if len(stats.ParseErrors) < maxParseErrorSamples {
				stats.ParseErrors = append(stats.ParseErrors, &model.ParseError{
					Number: row[posNumber],
					Value:  row[posDate],
					Err:    err,
				})
			}
			continue
		}
		if hasClock(date) {
			clock = true
		}

		records = append(records, model.UnifiedRecord{
			Seq:          len(records) + 1,
			Number:       row[posNumber],
			CrimeType:    row[posCrime],
			Date:         date,
			Beat:         row[posBeat],
			Neighborhood: row[posNeighborhood],
			NPU:          row[posNPU],
			PropertyType: row[posType],
			Road:         row[posRoad],
			City:         row[posCity],
			County:       row[posCounty],
			State:        row[posState],
			Country:      row[posCountry],
		})
	}

	stats.Records = len(records)

	layout := model.DateOnlyLayout
	if clock {
		layout = model.DateTimeLayout
	}

	if stats.DateParseFailures > 0 {
		slog.Warn("dropped rows with unparseable dates", "count", stats.DateParseFailures)
	}
	slog.Info("unified partitions",
		"partitions", len(parts),
		"input_rows", stats.InputRows,
		"truncated", stats.Truncated,
		"incomplete", stats.Incomplete,
		"duplicates", stats.Duplicates,
		"out_of_jurisdiction", stats.OutOfJurisdiction,
		"records", stats.Records,
	)

	return &model.RecordSet{Records: records, DateLayout: layout}, stats, nil
}

// ParseErr joins the sampled parse errors, or returns nil
func (s *Stats) ParseErr() error {
	if len(s.ParseErrors) == 0 {
		return nil
	}
	errs := make([]error, len(s.ParseErrors))
	for i, pe := range s.ParseErrors {
		errs[i] = pe
	}
	return errors.Join(errs...)
}

func incomplete(row []string) bool {
	for _, v := range row {
		if v == "" {
			return true
		}
	}
	return false
}
