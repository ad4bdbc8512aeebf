package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/crimeetl/internal/model"
)

// XLSXReader decodes the first sheet of a workbook. Row 1 is the header.
type XLSXReader struct {
	// Sheet overrides the sheet name; empty means the first sheet
	Sheet string
}

// ReadFile opens and decodes path
func (r *XLSXReader) ReadFile(path string) (*model.RawPartition, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening XLSX: %w", err)
	}
	defer func() { _ = f.Close() }()

	return r.decode(f)
}

func (r *XLSXReader) decode(f *excelize.File) (*model.RawPartition, error) {
	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx sheet %s: missing header row", sheet)
	}

	header := cleanHeader(rows[0])
	data, err := normalizeRows(header, rows[1:])
	if err != nil {
		return nil, fmt.Errorf("xlsx sheet %s: %w", sheet, err)
	}

	return &model.RawPartition{
		Columns: header,
		Rows:    data,
	}, nil
}
