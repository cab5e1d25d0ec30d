package automl

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCandidate() *Candidate {
	return &Candidate{
		Name:  "cand-1",
		Score: 0.92,
		Containers: []ContainerDefinition{
			{
				Image:        "registry.example.com/automl-processing:1",
				ModelDataURL: "s3://bucket/cand-1/processing.tar.gz",
				Accepts:      []string{"text/csv"},
				Produces:     "text/csv",
			},
			{
				Image:        "registry.example.com/automl-model:1",
				ModelDataURL: "s3://bucket/cand-1/model.tar.gz",
				Accepts:      []string{"text/csv"},
				Produces:     "application/json",
			},
		},
	}
}

func selectorContainer() ContainerDefinition {
	return ContainerDefinition{
		Image:        "registry.example.com/featuremill:1",
		ModelDataURL: "s3://bucket/selector/model.tar.gz",
		Environment:  map[string]string{"MODEL_DIR": "/opt/model"},
		Accepts:      []string{"text/csv"},
		Produces:     "text/csv",
	}
}

func TestComposeChainOrdersStages(t *testing.T) {
	chain, err := ComposeChain("selector-then-automl", selectorContainer(), sampleCandidate())
	require.NoError(t, err)

	require.Len(t, chain.Containers, 3)
	assert.Equal(t, "registry.example.com/featuremill:1", chain.Containers[0].Image)
	assert.Equal(t, "application/json", chain.Accept())
}

func TestComposeChainRejectsContentTypeMismatch(t *testing.T) {
	selector := selectorContainer()
	selector.Produces = "application/x-recordio"

	_, err := ComposeChain("bad", selector, sampleCandidate())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not accept")
}

func TestWriteSpecRoundTrip(t *testing.T) {
	chain, err := ComposeChain("selector-then-automl", selectorContainer(), sampleCandidate())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pipeline.json")
	require.NoError(t, chain.WriteSpec(path))

	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	var loaded PipelineModel
	require.NoError(t, json.Unmarshal(payload, &loaded))
	assert.Equal(t, chain.Name, loaded.Name)
	require.Len(t, loaded.Containers, 3)
}
