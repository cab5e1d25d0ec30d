package selection

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"featuremill/tabular"
)

// Two artifacts per model directory, loadable independently: the fitted
// pipeline state and the plain-JSON selected feature names.
const (
	PipelineArtifact = "pipeline.json.gz"
	FeaturesArtifact = "selected_features.json"
)

// Save writes both artifacts into dir, creating it if needed.
func (m *Model) Save(dir string) error {
	if err := m.validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(dir, PipelineArtifact))
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(file)
	if err := json.NewEncoder(zw).Encode(m); err != nil {
		file.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	names, err := json.MarshalIndent(m.SelectedFeatures, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FeaturesArtifact), names, 0o644)
}

// Load reads the fitted pipeline artifact from dir.
func Load(dir string) (*Model, error) {
	file, err := os.Open(filepath.Join(dir, PipelineArtifact))
	if err != nil {
		return nil, &tabular.DataError{Path: dir, Reason: err.Error()}
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, &tabular.DataError{Path: dir, Reason: "corrupt pipeline artifact: " + err.Error()}
	}
	defer zr.Close()

	var model Model
	if err := json.NewDecoder(zr).Decode(&model); err != nil {
		return nil, &tabular.DataError{Path: dir, Reason: "corrupt pipeline artifact: " + err.Error()}
	}
	if err := model.validate(); err != nil {
		return nil, err
	}
	return &model, nil
}

// LoadSelectedFeatures reads only the feature-name artifact from dir.
func LoadSelectedFeatures(dir string) ([]string, error) {
	payload, err := os.ReadFile(filepath.Join(dir, FeaturesArtifact))
	if err != nil {
		return nil, &tabular.DataError{Path: dir, Reason: err.Error()}
	}
	var names []string
	if err := json.Unmarshal(payload, &names); err != nil {
		return nil, &tabular.DataError{Path: dir, Reason: "corrupt feature list: " + err.Error()}
	}
	return names, nil
}
