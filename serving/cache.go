package serving

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"featuremill/selection"
)

// ModelCache keeps loaded models keyed by directory and evicts an entry when
// its artifacts change on disk, so a retrain is picked up without a restart.
type ModelCache struct {
	logger  *zap.Logger
	cache   *lru.Cache[string, *selection.Model]
	watcher *fsnotify.Watcher
}

// NewModelCache builds a cache holding up to size models.
func NewModelCache(size int, logger *zap.Logger) (*ModelCache, error) {
	if size <= 0 {
		size = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[string, *selection.Model](size)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	c := &ModelCache{logger: logger, cache: cache, watcher: watcher}
	go c.watch()
	return c, nil
}

// Get returns the model for dir, loading and caching it on a miss.
func (c *ModelCache) Get(dir string) (*selection.Model, error) {
	key, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if model, ok := c.cache.Get(key); ok {
		return model, nil
	}

	model, err := ModelFn(key)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, model)
	if err := c.watcher.Add(key); err != nil {
		c.logger.Warn("model dir not watched", zap.String("dir", key), zap.Error(err))
	}
	return model, nil
}

// Close stops the directory watcher.
func (c *ModelCache) Close() error {
	return c.watcher.Close()
}

func (c *ModelCache) watch() {
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			dir := filepath.Dir(event.Name)
			if c.cache.Remove(dir) {
				c.logger.Info("model artifacts changed, cache invalidated", zap.String("dir", dir))
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("model watcher error", zap.Error(err))
		}
	}
}
