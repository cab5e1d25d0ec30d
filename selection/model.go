package selection

import (
	"errors"
	"fmt"

	"featuremill/tabular"
)

// StageState records one stage's fitted outcome. Kept holds the surviving
// columns as indices into the original schema, not into the stage's narrowed
// input, so downstream masks never need re-mapping.
type StageState struct {
	Name       string `json:"name"`
	InputWidth int    `json:"input_width"`
	Kept       []int  `json:"kept"`
}

// Model is the immutable fitted artifact: the per-stage selection state and
// the ordered list of surviving original feature names. It is safe for
// concurrent use once created.
type Model struct {
	Schema           tabular.Schema `json:"schema"`
	Stages           []StageState   `json:"stages"`
	Selected         []int          `json:"selected"`
	SelectedFeatures []string       `json:"selected_features"`
}

// Transform reduces each row to the selected feature columns. Labeled rows
// keep their label, moved to the first output column ahead of the features.
// Output row count always equals input row count.
func (m *Model) Transform(ds *tabular.Dataset) ([][]float64, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, &tabular.DataError{Reason: "no rows to transform"}
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	width := m.Schema.Width()
	if ds.Schema().Width() != width {
		return nil, &tabular.DimensionError{Got: ds.Schema().Width(), Want: width, Reason: "schema width"}
	}

	out := make([][]float64, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		reduced := make([]float64, 0, len(m.Selected)+1)
		if ds.Labeled() {
			reduced = append(reduced, row[width])
		}
		for _, idx := range m.Selected {
			reduced = append(reduced, row[idx])
		}
		out[i] = reduced
	}
	return out, nil
}

func (m *Model) validate() error {
	if m == nil {
		return errors.New("nil model")
	}
	if len(m.Selected) == 0 {
		return errors.New("model has no selected features")
	}
	if len(m.Selected) != len(m.SelectedFeatures) {
		return errors.New("selected indices and names disagree")
	}
	width := m.Schema.Width()
	for _, idx := range m.Selected {
		if idx < 0 || idx >= width {
			return fmt.Errorf("selected index %d outside schema width %d", idx, width)
		}
	}
	return nil
}
