package tabular

import "fmt"

// DataError reports missing or empty input data.
type DataError struct {
	Path   string
	Reason string
}

func (e *DataError) Error() string {
	if e.Path == "" {
		return "data error: " + e.Reason
	}
	return fmt.Sprintf("data error: %s: %s", e.Path, e.Reason)
}

// DimensionError reports a row or matrix whose width does not match the schema.
type DimensionError struct {
	Got    int
	Want   int
	Reason string
}

func (e *DimensionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("dimension error: %s (got %d, want %d)", e.Reason, e.Got, e.Want)
	}
	return fmt.Sprintf("dimension error: got %d columns, want %d", e.Got, e.Want)
}
