package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/crimeetl/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCSVReader_Decode(t *testing.T) {
	in := "\ufeffnumber, crime ,date\n1,RAPE,1/1/2009\n2,\"AGG ASSAULT\",1/2/2009\n3,HOMICIDE\n"

	part, err := (&CSVReader{}).Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	wantHeader := []string{"number", "crime", "date"}
	for i, h := range wantHeader {
		if part.Columns[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, part.Columns[i], h)
		}
	}

	if len(part.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(part.Rows))
	}
	if part.Rows[1][1] != "AGG ASSAULT" {
		t.Errorf("expected quoted field unquoted, got %q", part.Rows[1][1])
	}
	// Short row is padded, the missing cell reads as empty
	if len(part.Rows[2]) != 3 || part.Rows[2][2] != "" {
		t.Errorf("expected padded short row, got %q", part.Rows[2])
	}
}

func TestCSVReader_Errors(t *testing.T) {
	if _, err := (&CSVReader{}).Decode(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := (&CSVReader{}).Decode(strings.NewReader("a,b\n1,2,3\n")); err == nil {
		t.Error("expected error for row wider than header")
	}
}

func TestFileReader_CSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "p1.csv", "number,crime\n1,RAPE\n")

	r := NewFileReader(dir)
	part, err := r.Read(context.Background(), "p1.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if part.ID != "p1.csv" {
		t.Errorf("expected ID p1.csv, got %s", part.ID)
	}
	if len(part.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(part.Rows))
	}
}

func TestFileReader_XLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p1.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"number", "crime", "beat"},
		{"1", "RAPE", "301"},
		{"2", "HOMICIDE"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	part, err := NewFileReader(dir).Read(context.Background(), "p1.xlsx")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(part.Columns) != 3 || part.Columns[2] != "beat" {
		t.Errorf("unexpected header %v", part.Columns)
	}
	if len(part.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(part.Rows))
	}
	if part.Rows[0][2] != "301" {
		t.Errorf("expected beat 301, got %q", part.Rows[0][2])
	}
	if part.Rows[1][2] != "" {
		t.Errorf("expected padded empty beat, got %q", part.Rows[1][2])
	}
}

func TestFileReader_UnknownExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "p1.parquet", "x")

	_, err := NewFileReader(dir).Read(context.Background(), "p1.parquet")
	if !errors.Is(err, model.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestFileReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileReader(t.TempDir()).Read(ctx, "p1.csv")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"crime_100001_125000.csv",
		"crime.csv",
		"crime_25471_50000.csv",
		"crime_50001_75000.csv",
		"notes.txt",
		"nested/crime_x.csv",
	} {
		writeFile(t, dir, name, "number\n")
	}

	got, err := Discover(dir, "*.csv")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []string{
		"crime.csv",
		"crime_25471_50000.csv",
		"crime_50001_75000.csv",
		"crime_100001_125000.csv",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	all, err := Discover(dir, "**/*.csv")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 files with **, got %d: %v", len(all), all)
	}
}

func TestDiscover_NoMatch(t *testing.T) {
	_, err := Discover(t.TempDir(), "*.csv")
	if !errors.Is(err, model.ErrNoPartitions) {
		t.Errorf("expected ErrNoPartitions, got %v", err)
	}
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"a2", "a10", true},
		{"a10", "a2", false},
		{"crime.csv", "crime_1.csv", true},
		{"a", "ab", true},
		{"same", "same", false},
	}
	for _, tt := range tests {
		if got := naturalLess(tt.a, tt.b); got != tt.want {
			t.Errorf("naturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
