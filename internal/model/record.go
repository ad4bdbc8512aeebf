package model

import "time"

// Canonical raw column names every partition must carry
const (
	ColNumber       = "number"
	ColCrime        = "crime"
	ColDate         = "date"
	ColBeat         = "beat"
	ColNeighborhood = "neighborhood"
	ColNPU          = "npu"
	ColType         = "type"
	ColRoad         = "road"
	ColCity         = "city"
	ColCounty       = "county"
	ColState        = "state"
	ColCountry      = "country"
)

// CanonicalColumns is the projection applied to every raw partition, in order
var CanonicalColumns = []string{
	ColNumber,
	ColCrime,
	ColDate,
	ColBeat,
	ColNeighborhood,
	ColNPU,
	ColType,
	ColRoad,
	ColCity,
	ColCounty,
	ColState,
	ColCountry,
}

// RawPartition is one extract as returned by a source reader
type RawPartition struct {
	ID      string     // Partition identifier (usually the file name)
	Columns []string   // Header row
	Rows    [][]string // Data rows, text only
}

// UnifiedRecord is one cleaned incident.
// Seq is the 1-based fact position; it is assigned once, after every filter
// has run, and every bridge table is checked against it.
type UnifiedRecord struct {
	Seq          int
	Number       string
	CrimeType    string
	Date         time.Time
	Beat         string
	Neighborhood string
	NPU          string
	PropertyType string
	Road         string
	City         string
	County       string
	State        string
	Country      string
}

// Date layouts used when rendering the date column
const (
	DateOnlyLayout = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// RecordSet is the Unifier output shared read-only by every later stage
type RecordSet struct {
	Records []UnifiedRecord

	// DateLayout is DateOnlyLayout when every parsed date falls on midnight,
	// DateTimeLayout otherwise.
	DateLayout string
}

// FormatDate renders t with the set's date layout
func (s *RecordSet) FormatDate(t time.Time) string {
	if s.DateLayout == "" {
		return t.Format(DateOnlyLayout)
	}
	return t.Format(s.DateLayout)
}

// Len returns the number of facts
func (s *RecordSet) Len() int {
	return len(s.Records)
}
