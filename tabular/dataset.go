package tabular

import (
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Dataset is an ordered batch of fixed-width numeric rows. Labeled rows carry
// the label as the last column, after the schema's feature columns.
type Dataset struct {
	schema  Schema
	rows    [][]float64
	labeled bool
}

// FromRows builds a dataset, deciding labeled vs unlabeled by row width.
// Every row must have the same width, and that width must equal either the
// schema's feature count or feature count plus one.
func FromRows(schema Schema, rows [][]float64) (*Dataset, error) {
	if err := schema.validate(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &DataError{Reason: "no rows"}
	}

	width := len(rows[0])
	var labeled bool
	switch width {
	case schema.Width():
		labeled = false
	case schema.LabeledWidth():
		labeled = true
	default:
		return nil, &DimensionError{Got: width, Want: schema.Width()}
	}

	for i, row := range rows {
		if len(row) != width {
			return nil, &DimensionError{Got: len(row), Want: width, Reason: "ragged row " + strconv.Itoa(i)}
		}
	}

	return &Dataset{schema: schema, rows: rows, labeled: labeled}, nil
}

// Schema returns the dataset's column layout.
func (d *Dataset) Schema() Schema {
	return d.schema
}

// Len returns the row count.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Labeled reports whether rows carry a trailing label column.
func (d *Dataset) Labeled() bool {
	return d.labeled
}

// Row returns row i including the label column when present.
func (d *Dataset) Row(i int) []float64 {
	return d.rows[i]
}

// Features returns the feature columns as a dense matrix, excluding the label.
func (d *Dataset) Features() *mat.Dense {
	n := d.schema.Width()
	m := mat.NewDense(len(d.rows), n, nil)
	for i, row := range d.rows {
		m.SetRow(i, row[:n])
	}
	return m
}

// Labels returns the label column. It is nil for unlabeled datasets.
func (d *Dataset) Labels() []float64 {
	if !d.labeled {
		return nil
	}
	labels := make([]float64, len(d.rows))
	last := d.schema.Width()
	for i, row := range d.rows {
		labels[i] = row[last]
	}
	return labels
}
