package store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePutGetDelete(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	body := "1,2,3\n"
	require.NoError(t, s.Put(ctx, "data/train/part-0.csv", strings.NewReader(body), int64(len(body))))

	rc, err := s.Get(ctx, "data/train/part-0.csv")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, body, string(got))

	require.NoError(t, s.Delete(ctx, "data/train/part-0.csv"))
	_, err = s.Get(ctx, "data/train/part-0.csv")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStoreListByPrefix(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"models/a/pipeline.json.gz", "models/a/selected_features.json", "data/train.csv"} {
		require.NoError(t, s.Put(ctx, key, strings.NewReader("x"), 1))
	}

	keys, err := s.List(ctx, "models/a/")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"models/a/pipeline.json.gz", "models/a/selected_features.json"}, keys)
}

func TestUploadDirPreservesLayout(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.csv"), []byte("1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "b.csv"), []byte("2\n"), 0o600))

	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, UploadDir(context.Background(), s, "runs/1", src))

	keys, err := s.List(context.Background(), "runs/1/")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"runs/1/a.csv", "runs/1/nested/b.csv"}, keys)
}
