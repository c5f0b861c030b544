package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mapl/internal/buildpipeline"
	"mapl/internal/diag"
	"mapl/internal/driver"
)

var depsCmd = &cobra.Command{
	Use:   "deps [flags] [file.mapl...]",
	Short: "Show the import graph of MaPL scripts",
	Long: `Deps reads the scripts and everything they import and prints the import
graph in dependency order, importers first. Import cycles and missing
imports are reported as errors.`,
	RunE: runDeps,
}

func init() {
	depsCmd.Flags().String("format", "text", "output format (text|json|dot)")
}

type depsScriptJSON struct {
	Path    string   `json:"path"`
	Imports []string `json:"imports,omitempty"`
	Closure string   `json:"closure,omitempty"`
	Missing bool     `json:"missing,omitempty"`
}

type depsJSON struct {
	Scripts []depsScriptJSON `json:"scripts"`
	Batches [][]string       `json:"batches"`
	Cycles  []string         `json:"cycles,omitempty"`
}

func runDeps(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	workDir, err := workingDir()
	if err != nil {
		return err
	}
	paths, baseDir, err := scriptPaths(args, workDir)
	if err != nil {
		return err
	}

	res := driver.Deps(paths, nil, maxDiagnostics)
	name := func(p string) string { return buildpipeline.DisplayName(p, baseDir) }

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		err = writeDepsJSON(out, res, name)
	case "dot":
		err = writeDepsDot(out, res, name)
	case "text":
		err = writeDepsText(out, res, name)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if res.Failed() {
		if emitErr := emitDiagnostics(cmd, diagFormatPretty, res.Bag, res.FileSet); emitErr != nil {
			return emitErr
		}
		return fmt.Errorf("import graph has %s", plural(res.Bag.Count(diag.SevError), "error"))
	}
	return nil
}

func writeDepsText(w io.Writer, res *driver.DepsResult, name func(string) string) error {
	for i, batch := range res.Topo.Batches {
		printf(w, "batch %d:\n", i+1)
		for _, p := range res.Index.Names(batch) {
			printf(w, "  %s\n", name(p))
			if imports := res.Imports(p); len(imports) > 0 {
				names := make([]string, len(imports))
				for j, imp := range imports {
					names[j] = name(imp)
				}
				printf(w, "    imports: %s\n", strings.Join(names, ", "))
			}
		}
	}
	if res.Topo.Cyclic {
		names := res.Index.Names(res.Topo.Cycles)
		for i := range names {
			names[i] = name(names[i])
		}
		printf(w, "cycle: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func writeDepsJSON(w io.Writer, res *driver.DepsResult, name func(string) string) error {
	var zero [32]byte
	out := depsJSON{Batches: make([][]string, 0, len(res.Topo.Batches))}
	for _, id := range res.Topo.Order {
		slot := &res.Slots[int(id)]
		entry := depsScriptJSON{Path: name(slot.Meta.Path), Missing: !slot.Present}
		for _, imp := range res.Imports(slot.Meta.Path) {
			entry.Imports = append(entry.Imports, name(imp))
		}
		if slot.Meta.ClosureHash != zero {
			entry.Closure = hex.EncodeToString(slot.Meta.ClosureHash[:])
		}
		out.Scripts = append(out.Scripts, entry)
	}
	for _, batch := range res.Topo.Batches {
		names := res.Index.Names(batch)
		for i := range names {
			names[i] = name(names[i])
		}
		out.Batches = append(out.Batches, names)
	}
	for _, p := range res.Index.Names(res.Topo.Cycles) {
		out.Cycles = append(out.Cycles, name(p))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeDepsDot(w io.Writer, res *driver.DepsResult, name func(string) string) error {
	printf(w, "digraph imports {\n")
	for _, p := range res.Index.IDToName {
		printf(w, "  %q;\n", name(p))
		for _, imp := range res.Imports(p) {
			printf(w, "  %q -> %q;\n", name(p), name(imp))
		}
	}
	printf(w, "}\n")
	return nil
}
