package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"mapl/internal/project"
)

// Current schema version - increment when BuildPayload format changes
const buildCacheSchemaVersion uint16 = 1

// BuildCache хранит результаты успешных сборок по ключу сборки.
// Thread-safe for concurrent access.
type BuildCache struct {
	mu  sync.RWMutex
	dir string
}

// BuildPayload is everything a successful build writes to disk.
type BuildPayload struct {
	Schema uint16

	// Order lists the compiled scripts in request order.
	Order       []string
	Files       map[string][]byte
	SymbolTable string
	Symbols     map[string]uint16
}

// OpenBuildCache initializes and returns a build cache at the standard location.
func OpenBuildCache(app string) (*BuildCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewBuildCache(filepath.Join(base, app))
}

// NewBuildCache returns a cache rooted at dir, creating it when needed.
func NewBuildCache(dir string) (*BuildCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &BuildCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *BuildCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *BuildCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "builds", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the cache.
func (c *BuildCache) Put(key project.Digest, payload *BuildPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = buildCacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload from the cache. A payload written by another schema
// version is reported as a miss.
func (c *BuildCache) Get(key project.Digest, out *BuildPayload) (hit bool, err error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == buildCacheSchemaVersion, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *BuildCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o750)
}
