package model

import "strconv"

// Emitted table names
const (
	TableCrime         = "Crime"
	TableProperty      = "Property"
	TableDate          = "Date"
	TableBeat          = "Beat"
	TableLocation      = "Location"
	TableCrimeProperty = "Crime_Property"
	TableCrimeBeat     = "Crime_Beat"
	TableCrimeDate     = "Crime_Date"
	TableCrimeLocation = "Crime_Location"
)

// TableOrder is the emission order of a run
var TableOrder = []string{
	TableCrime,
	TableProperty,
	TableDate,
	TableBeat,
	TableLocation,
	TableCrimeProperty,
	TableCrimeBeat,
	TableCrimeDate,
	TableCrimeLocation,
}

// ColumnKind is the storage type of a column
type ColumnKind int

const (
	KindText    ColumnKind = iota // Free text
	KindInteger                   // Surrogate keys and other integers
)

func (k ColumnKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	default:
		return "text"
	}
}

// Column describes one column of an emitted table
type Column struct {
	Name string     `json:"name" yaml:"name"`
	Kind ColumnKind `json:"kind" yaml:"kind"`
}

// Value is a single nullable cell
type Value struct {
	Text  string
	Valid bool
}

// Text returns a non-null text value
func Text(s string) Value {
	return Value{Text: s, Valid: true}
}

// Int returns a non-null integer value
func Int(n int) Value {
	return Value{Text: strconv.Itoa(n), Valid: true}
}

// Null returns a null value
func Null() Value {
	return Value{}
}

// String renders the value as written to CSV (null is empty)
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return v.Text
}

// Table is an immutable snapshot of one output table
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]Value
}

// ColumnNames returns the header in emission order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}
