package source

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			continue
		}
		if content[i] == '\n' && i > 0 && content[i-1] == '\r' {
			changed = true
		}
		out = append(out, content[i])
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 16)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- file sizes are bounded by uint32 spans
		}
	}
	return out
}

// toLineCol maps a byte offset to a 1-based line and column.
// lineIdx holds the offsets of every '\n'.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// количество переводов строки строго перед off = номер строки (0-based)
	line, _ := slices.BinarySearch(lineIdx, off)
	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1} // #nosec G115
}

// NormalizePath returns the canonical spelling of a script path: NFC-normalized,
// lexically cleaned, forward slashes.
func NormalizePath(p string) string {
	if p == "" {
		return p
	}
	p = norm.NFC.String(filepath.ToSlash(p))
	return path.Clean(p)
}

// IsAbsolute reports whether p is an absolute path on this platform or in slash form.
func IsAbsolute(p string) bool {
	return filepath.IsAbs(p) || strings.HasPrefix(filepath.ToSlash(p), "/")
}

// AbsolutePath resolves p against the working directory.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return NormalizePath(abs), nil
}

// RelativePath returns p relative to baseDir, or the absolute path when p lies outside it.
func RelativePath(p, baseDir string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return NormalizePath(abs), nil
	}
	return NormalizePath(rel), nil
}

// BaseName returns the last element of p.
func BaseName(p string) string {
	return path.Base(NormalizePath(p))
}

// ResolveImport resolves an import path against the directory of the importing file.
func ResolveImport(importer, imported string) string {
	imported = filepath.ToSlash(imported)
	if strings.HasPrefix(imported, "/") {
		return NormalizePath(imported)
	}
	return NormalizePath(path.Join(path.Dir(NormalizePath(importer)), imported))
}
