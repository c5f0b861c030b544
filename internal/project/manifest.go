package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a decoded mapl.toml with every path made absolute.
type Manifest struct {
	Path    string
	Root    string
	Name    string
	Symbols string
	Prefix  string
	Debug   bool
	Scripts []ScriptEntry
}

// ScriptEntry pairs a script with the bytecode file it compiles to.
type ScriptEntry struct {
	Path   string
	Output string
}

var (
	// ErrBuildSectionMissing indicates that [build] is missing.
	ErrBuildSectionMissing = errors.New("missing [build]")
	// ErrSymbolsMissing indicates that [build].symbols is missing.
	ErrSymbolsMissing = errors.New("missing [build].symbols")
	// ErrNoScripts indicates that no [[script]] entry was declared.
	ErrNoScripts = errors.New("no [[script]] entries")
)

type manifestFile struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Build struct {
		Symbols string `toml:"symbols"`
		Prefix  string `toml:"prefix"`
		Debug   bool   `toml:"debug"`
	} `toml:"build"`
	Script []struct {
		Path   string `toml:"path"`
		Output string `toml:"output"`
	} `toml:"script"`
}

// LoadManifest parses mapl.toml at path. Relative paths inside it are
// resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if !meta.IsDefined("build") {
		return nil, fmt.Errorf("%s: %w", path, ErrBuildSectionMissing)
	}
	symbols := strings.TrimSpace(cfg.Build.Symbols)
	if !meta.IsDefined("build", "symbols") || symbols == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrSymbolsMissing)
	}
	if len(cfg.Script) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoScripts)
	}

	root := filepath.Dir(path)
	m := &Manifest{
		Path:    path,
		Root:    root,
		Name:    strings.TrimSpace(cfg.Project.Name),
		Symbols: resolveIn(root, symbols),
		Prefix:  strings.TrimSpace(cfg.Build.Prefix),
		Debug:   cfg.Build.Debug,
	}
	if err := CheckExt("symbol table", m.Symbols, SymbolsExt); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.Prefix == "" {
		m.Prefix = SymbolsPrefix(m.Symbols)
	}
	for i, s := range cfg.Script {
		script := strings.TrimSpace(s.Path)
		if script == "" {
			return nil, fmt.Errorf("%s: [[script]] #%d has no path", path, i+1)
		}
		entry := ScriptEntry{Path: resolveIn(root, script)}
		if err := CheckExt("script file", entry.Path, SourceExt); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if out := strings.TrimSpace(s.Output); out != "" {
			entry.Output = resolveIn(root, out)
		} else {
			entry.Output = OutputPath(entry.Path)
		}
		if err := CheckExt("output", entry.Output, BytecodeExt); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		m.Scripts = append(m.Scripts, entry)
	}
	return m, nil
}

func resolveIn(root, p string) string {
	p = filepath.FromSlash(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	return filepath.Clean(p)
}
