package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/crimeetl/internal/model"
)

// CSVReader decodes comma-separated partitions with a header row
type CSVReader struct{}

// ReadFile opens and decodes path
func (r *CSVReader) ReadFile(path string) (*model.RawPartition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	return r.Decode(f)
}

// Decode reads a header row followed by data rows
func (r *CSVReader) Decode(in io.Reader) (*model.RawPartition, error) {
	cr := csv.NewReader(bufio.NewReader(in))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	header = cleanHeader(header)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		rows = append(rows, rec)
	}

	rows, err = normalizeRows(header, rows)
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}

	return &model.RawPartition{
		Columns: header,
		Rows:    rows,
	}, nil
}
