package tabular

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadCSVSkipsHeader(t *testing.T) {
	schema := testSchema(t, 3)
	body := "x_000,x_001,x_002,y\n1,2,3,9\n4,5,6,8\n"

	ds, err := ReadCSV(strings.NewReader(body), schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("rows = %d, want 2", ds.Len())
	}
	if !ds.Labeled() {
		t.Fatal("expected labeled dataset")
	}
}

func TestReadCSVRejectsGarbage(t *testing.T) {
	schema := testSchema(t, 2)
	_, err := ReadCSV(strings.NewReader("1,abc\n"), schema)
	if err == nil {
		t.Fatal("expected error")
	}
	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError, got %v", err)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	schema := testSchema(t, 3)
	rows := [][]float64{{1.5, -2, 3}, {0.25, 5, -6.125}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ds, err := ReadCSV(&buf, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range rows {
		got := ds.Row(i)
		for j := range row {
			if got[j] != row[j] {
				t.Fatalf("row %d col %d = %f, want %f", i, j, got[j], row[j])
			}
		}
	}
}

func TestLoadDirConcatenates(t *testing.T) {
	schema := testSchema(t, 2)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.csv"), []byte("1,2,3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.csv"), []byte("4,5,6\n7,8,9\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadDir(dir, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("rows = %d, want 3", ds.Len())
	}
}

func TestLoadDirEmpty(t *testing.T) {
	schema := testSchema(t, 2)
	_, err := LoadDir(t.TempDir(), schema)
	if err == nil {
		t.Fatal("expected error")
	}
	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError, got %v", err)
	}
}
