package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPartitions is returned when a run resolves to zero input partitions.
	ErrNoPartitions = errors.New("crimeetl: no input partitions")

	// ErrUnknownFormat is returned for unrecognized input or output formats.
	ErrUnknownFormat = errors.New("crimeetl: unknown format")
)

// SchemaError reports a partition that lacks a required column. It aborts the run.
type SchemaError struct {
	Partition string
	Column    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: partition %q is missing required column %q", e.Partition, e.Column)
}

// ParseError reports a row whose date could not be parsed.
// The row is excluded and the run continues.
type ParseError struct {
	Number string // Incident number of the offending row
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: incident %s: date %q: %v", e.Number, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IntegrityError reports a bridge that no longer lines up 1:1 with the fact
// sequence. Nothing may be emitted once one is raised.
type IntegrityError struct {
	Table  string
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity: %s: %s", e.Table, e.Detail)
}

// IsIntegrity reports whether err wraps an IntegrityError
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
