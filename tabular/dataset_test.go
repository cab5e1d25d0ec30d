package tabular

import (
	"errors"
	"testing"
)

func testSchema(t *testing.T, features int) Schema {
	t.Helper()
	schema, err := NewSchema("x", features, "y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return schema
}

func TestFromRowsDetectsLabel(t *testing.T) {
	schema := testSchema(t, 3)

	tests := []struct {
		name        string
		rows        [][]float64
		wantLabeled bool
		wantErr     bool
	}{
		{
			name:        "unlabeled",
			rows:        [][]float64{{1, 2, 3}, {4, 5, 6}},
			wantLabeled: false,
		},
		{
			name:        "labeled",
			rows:        [][]float64{{1, 2, 3, 9}, {4, 5, 6, 8}},
			wantLabeled: true,
		},
		{
			name:    "wrong width",
			rows:    [][]float64{{1, 2}},
			wantErr: true,
		},
		{
			name:    "ragged",
			rows:    [][]float64{{1, 2, 3}, {4, 5}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := FromRows(schema, tt.rows)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				var dimErr *DimensionError
				if !errors.As(err, &dimErr) {
					t.Fatalf("expected DimensionError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ds.Labeled() != tt.wantLabeled {
				t.Fatalf("labeled = %v, want %v", ds.Labeled(), tt.wantLabeled)
			}
			if ds.Len() != len(tt.rows) {
				t.Fatalf("len = %d, want %d", ds.Len(), len(tt.rows))
			}
		})
	}
}

func TestFeaturesExcludeLabel(t *testing.T) {
	schema := testSchema(t, 2)
	ds, err := FromRows(schema, [][]float64{{1, 2, 10}, {3, 4, 20}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	features := ds.Features()
	rows, cols := features.Dims()
	if rows != 2 || cols != 2 {
		t.Fatalf("features dims = %dx%d, want 2x2", rows, cols)
	}
	labels := ds.Labels()
	if len(labels) != 2 || labels[0] != 10 || labels[1] != 20 {
		t.Fatalf("unexpected labels: %v", labels)
	}
}

func TestSyntheticScenario(t *testing.T) {
	schema := testSchema(t, 100)
	ds, err := Synthetic(schema, 1500, 10, 0.5, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 1500 {
		t.Fatalf("rows = %d, want 1500", ds.Len())
	}
	if !ds.Labeled() {
		t.Fatal("synthetic dataset should be labeled")
	}
	if len(ds.Row(0)) != 101 {
		t.Fatalf("row width = %d, want 101", len(ds.Row(0)))
	}
}
