package compiler

import (
	"fmt"
	"io/fs"
	"os"

	"mapl/internal/source"
)

// Loader reads script sources by normalized absolute path.
type Loader interface {
	Load(path string) ([]byte, error)
}

// OSLoader reads scripts from disk.
type OSLoader struct{}

func (OSLoader) Load(path string) ([]byte, error) {
	// #nosec G304 -- script paths come from the command line and import statements
	return os.ReadFile(path)
}

// MapLoader serves scripts from memory, keyed by path.
type MapLoader map[string]string

func (m MapLoader) Load(path string) ([]byte, error) {
	if src, ok := m[path]; ok {
		return []byte(src), nil
	}
	if src, ok := m[source.NormalizePath(path)]; ok {
		return []byte(src), nil
	}
	return nil, fmt.Errorf("load %s: %w", path, fs.ErrNotExist)
}
