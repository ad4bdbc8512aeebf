// Package source loads raw crime partitions from disk.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ppiankov/crimeetl/internal/model"
)

// Reader loads one partition by identifier
type Reader interface {
	Read(ctx context.Context, partition string) (*model.RawPartition, error)
}

// FileReader resolves partition identifiers as paths under Dir and picks a
// decoder by file extension
type FileReader struct {
	Dir  string
	csv  *CSVReader
	xlsx *XLSXReader
}

// NewFileReader creates a reader rooted at dir
func NewFileReader(dir string) *FileReader {
	return &FileReader{
		Dir:  dir,
		csv:  &CSVReader{},
		xlsx: &XLSXReader{},
	}
}

// Read loads the partition at Dir/partition
func (r *FileReader) Read(ctx context.Context, partition string) (*model.RawPartition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := r.path(partition)
	var (
		part *model.RawPartition
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		part, err = r.csv.ReadFile(path)
	case ".xlsx", ".xlsm":
		part, err = r.xlsx.ReadFile(path)
	default:
		return nil, fmt.Errorf("partition %s: extension %q: %w", partition, ext, model.ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("partition %s: %w", partition, err)
	}

	part.ID = partition
	return part, nil
}

func (r *FileReader) path(partition string) string {
	if r.Dir == "" || filepath.IsAbs(partition) {
		return partition
	}
	return filepath.Join(r.Dir, partition)
}

// normalizeRows pads short rows with empty cells so every row matches the
// header width. Longer rows are rejected.
func normalizeRows(header []string, rows [][]string) ([][]string, error) {
	width := len(header)
	for i, row := range rows {
		switch {
		case len(row) == width:
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		default:
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(row), width)
		}
	}
	return rows, nil
}

// cleanHeader trims header cells and strips a UTF-8 byte order mark
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
