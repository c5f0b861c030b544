package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mapl/internal/project"
)

const noManifestMessage = "no mapl.toml found\nplease specify the scripts explicitly, e.g.:\n  mapl build -s gen/MaPLSymbols.h scripts/main.mapl"

// buildInputs is what a build needs to know about its files.
type buildInputs struct {
	Scripts []project.ScriptEntry
	Symbols string
	Prefix  string
	Debug   bool
	// BaseDir is where paths are shown relative to.
	BaseDir string
}

type inputFlags struct {
	outputs []string
	symbols string
	prefix  string
	debug   bool
}

// resolveInputs turns command arguments into absolute script, output and
// symbol paths. Without arguments the nearest mapl.toml is used.
func resolveInputs(args []string, flags inputFlags, workDir string) (*buildInputs, error) {
	if len(args) == 0 {
		return inputsFromManifest(flags, workDir)
	}
	scripts, err := pairScripts(args, flags.outputs, workDir)
	if err != nil {
		return nil, err
	}
	in := &buildInputs{
		Scripts: scripts,
		Prefix:  flags.prefix,
		Debug:   flags.debug,
		BaseDir: workDir,
	}
	if flags.symbols != "" {
		in.Symbols = absIn(workDir, flags.symbols)
	} else {
		// как в исходном CLI: MaPLSymbols.h рядом с первым скриптом
		in.Symbols = filepath.Join(filepath.Dir(scripts[0].Path), "MaPLSymbols"+project.SymbolsExt)
	}
	if in.Prefix == "" {
		in.Prefix = project.SymbolsPrefix(in.Symbols)
	}
	return in, nil
}

// pairScripts matches the i-th -o with the i-th script. Scripts without an
// explicit output get their path with the bytecode extension.
func pairScripts(args, outputs []string, workDir string) ([]project.ScriptEntry, error) {
	if len(outputs) > len(args) {
		return nil, fmt.Errorf("%d outputs given for %d scripts", len(outputs), len(args))
	}
	scripts := make([]project.ScriptEntry, len(args))
	for i, arg := range args {
		entry := project.ScriptEntry{Path: absIn(workDir, arg)}
		if err := project.CheckExt("script file", entry.Path, project.SourceExt); err != nil {
			return nil, err
		}
		if i < len(outputs) {
			entry.Output = absIn(workDir, outputs[i])
		} else {
			entry.Output = project.OutputPath(entry.Path)
		}
		if err := project.CheckExt("output", entry.Output, project.BytecodeExt); err != nil {
			return nil, err
		}
		scripts[i] = entry
	}
	return scripts, nil
}

func inputsFromManifest(flags inputFlags, workDir string) (*buildInputs, error) {
	if len(flags.outputs) > 0 {
		return nil, errors.New("-o requires script arguments")
	}
	path, err := project.FindManifest(workDir)
	if errors.Is(err, project.ErrNoManifest) {
		return nil, errors.New(noManifestMessage)
	}
	if err != nil {
		return nil, err
	}
	m, err := project.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	in := &buildInputs{
		Scripts: m.Scripts,
		Symbols: m.Symbols,
		Prefix:  m.Prefix,
		Debug:   m.Debug || flags.debug,
		BaseDir: m.Root,
	}
	if flags.symbols != "" {
		in.Symbols = absIn(workDir, flags.symbols)
		if err := project.CheckExt("symbol table", in.Symbols, project.SymbolsExt); err != nil {
			return nil, err
		}
		in.Prefix = project.SymbolsPrefix(in.Symbols)
	}
	if flags.prefix != "" {
		in.Prefix = flags.prefix
	}
	return in, nil
}

// scriptPaths lists the scripts of the arguments, or of the nearest
// manifest when there are none.
func scriptPaths(args []string, workDir string) ([]string, string, error) {
	if len(args) > 0 {
		paths := make([]string, len(args))
		for i, arg := range args {
			paths[i] = absIn(workDir, arg)
		}
		return paths, workDir, nil
	}
	in, err := inputsFromManifest(inputFlags{}, workDir)
	if err != nil {
		return nil, "", err
	}
	paths := make([]string, len(in.Scripts))
	for i, s := range in.Scripts {
		paths[i] = s.Path
	}
	return paths, in.BaseDir, nil
}

func absIn(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

func workingDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return wd, nil
}
