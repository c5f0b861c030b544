package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mapl/internal/source"
)

// File extensions the toolchain accepts and produces.
const (
	SourceExt   = ".mapl"
	BytecodeExt = ".maplb"
	SymbolsExt  = ".h"
)

// ErrBadExtension is wrapped by CheckExt failures.
var ErrBadExtension = errors.New("wrong file extension")

// ImportMeta is one #import of a script, resolved against the importing file.
type ImportMeta struct {
	Path string
	Span source.Span
}

// ScriptMeta describes one script of the import graph.
type ScriptMeta struct {
	Path        string       // нормализованный абсолютный путь
	Span        source.Span  // span всего файла
	Imports     []ImportMeta // импорты в порядке появления
	ContentHash Digest
	// ClosureHash covers the script and everything it imports, transitively.
	ClosureHash Digest
}

// HasExt reports whether path ends in ext, ignoring case.
func HasExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// CheckExt returns an error naming role when path does not end in ext.
func CheckExt(role, path, ext string) error {
	if HasExt(path, ext) {
		return nil
	}
	return fmt.Errorf("the %s path '%s' must have a '%s' file extension: %w", role, path, ext, ErrBadExtension)
}

// OutputPath swaps the script extension for the bytecode one.
func OutputPath(script string) string {
	return strings.TrimSuffix(script, filepath.Ext(script)) + BytecodeExt
}

// SymbolsPrefix is the symbol table file name without its extension.
func SymbolsPrefix(symbolsPath string) string {
	base := filepath.Base(symbolsPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
