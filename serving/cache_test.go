package serving

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelCacheReusesLoadedModel(t *testing.T) {
	model, _ := fittedModel(t)
	dir := t.TempDir()
	require.NoError(t, model.Save(dir))

	cache, err := NewModelCache(4, nil)
	require.NoError(t, err)
	defer cache.Close()

	first, err := cache.Get(dir)
	require.NoError(t, err)
	second, err := cache.Get(dir)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestModelCacheMissingDir(t *testing.T) {
	cache, err := NewModelCache(4, nil)
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.Get(t.TempDir())
	require.Error(t, err)
}

func TestModelCacheInvalidatesOnRewrite(t *testing.T) {
	model, _ := fittedModel(t)
	dir := t.TempDir()
	require.NoError(t, model.Save(dir))

	cache, err := NewModelCache(4, nil)
	require.NoError(t, err)
	defer cache.Close()

	first, err := cache.Get(dir)
	require.NoError(t, err)

	// Rewriting the artifacts should evict the cached entry.
	require.NoError(t, model.Save(dir))

	deadline := time.Now().Add(2 * time.Second)
	for {
		current, err := cache.Get(dir)
		require.NoError(t, err)
		if current != first {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cache entry never invalidated")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
