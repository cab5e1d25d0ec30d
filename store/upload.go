package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// uploadConcurrency bounds parallel uploads so large training sets don't
// exhaust file handles or connections.
const uploadConcurrency = 4

// UploadDir pushes every file under dir to the store beneath prefix,
// preserving the relative layout. Files upload concurrently.
func UploadDir(ctx context.Context, s Store, prefix, dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(uploadConcurrency)
	for _, path := range paths {
		group.Go(func() error {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			info, err := file.Stat()
			if err != nil {
				return err
			}
			key := prefix + "/" + filepath.ToSlash(rel)
			return s.Put(ctx, key, file, info.Size())
		})
	}
	return group.Wait()
}
