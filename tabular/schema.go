package tabular

import (
	"errors"
	"fmt"
)

// Schema describes the fixed layout of a dataset: the ordered feature columns
// and the name of the optional label column. It is passed explicitly into fit
// and transform so a single process can serve models with different layouts.
type Schema struct {
	FeatureNames []string `json:"feature_names" yaml:"feature_names"`
	LabelName    string   `json:"label_name" yaml:"label_name"`
}

// NewSchema builds a schema with generated feature names (prefix_000, prefix_001, ...).
func NewSchema(prefix string, features int, labelName string) (Schema, error) {
	if features <= 0 {
		return Schema{}, errors.New("features must be positive")
	}
	if prefix == "" {
		prefix = "x"
	}
	names := make([]string, features)
	for i := range names {
		names[i] = fmt.Sprintf("%s_%03d", prefix, i)
	}
	return Schema{FeatureNames: names, LabelName: labelName}, nil
}

// Width returns the number of feature columns.
func (s Schema) Width() int {
	return len(s.FeatureNames)
}

// LabeledWidth returns the column count of a labeled row.
func (s Schema) LabeledWidth() int {
	return len(s.FeatureNames) + 1
}

func (s Schema) validate() error {
	if len(s.FeatureNames) == 0 {
		return errors.New("schema has no feature columns")
	}
	seen := make(map[string]struct{}, len(s.FeatureNames))
	for _, name := range s.FeatureNames {
		if name == "" {
			return errors.New("schema has an empty feature name")
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("duplicate feature name %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
