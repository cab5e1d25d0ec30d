package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featuremill/tabular"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	model, ds := fitSynthetic(t)
	dir := t.TempDir()

	require.NoError(t, model.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, model.Selected, loaded.Selected)
	assert.Equal(t, model.SelectedFeatures, loaded.SelectedFeatures)
	assert.Equal(t, model.Stages, loaded.Stages)

	// The reloaded model transforms identically.
	want, err := model.Transform(ds)
	require.NoError(t, err)
	got, err := loaded.Transform(ds)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSelectedFeaturesLoadIndependently(t *testing.T) {
	model, _ := fitSynthetic(t)
	dir := t.TempDir()
	require.NoError(t, model.Save(dir))

	names, err := LoadSelectedFeatures(dir)
	require.NoError(t, err)
	assert.Equal(t, model.SelectedFeatures, names)
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	var dataErr *tabular.DataError
	assert.True(t, errors.As(err, &dataErr))
}
