package driver

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"mapl/internal/ast"
	"mapl/internal/compiler"
	"mapl/internal/diag"
	"mapl/internal/parser"
	"mapl/internal/project"
	"mapl/internal/project/dag"
	"mapl/internal/source"
)

// DepsResult is the import graph reachable from a set of root scripts.
type DepsResult struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	// Roots lists the normalized root paths in the order given.
	Roots []string
	Index dag.ScriptIndex
	Graph dag.Graph
	Slots []dag.ScriptSlot
	Topo  *dag.Topo
}

// Failed reports whether any script could not be read or parsed, or the
// graph is broken.
func (r *DepsResult) Failed() bool {
	return r.Bag.HasErrors()
}

// Script returns the slot of path.
func (r *DepsResult) Script(path string) (*dag.ScriptSlot, bool) {
	id, ok := r.Index.NameToID[source.NormalizePath(path)]
	if !ok {
		return nil, false
	}
	return &r.Slots[int(id)], true
}

// Imports returns the scripts path imports directly, sorted.
func (r *DepsResult) Imports(path string) []string {
	id, ok := r.Index.NameToID[source.NormalizePath(path)]
	if !ok {
		return nil
	}
	return r.Index.Names(r.Graph.Edges[int(id)])
}

// Deps reads every root and, transitively, every script it imports, then
// builds and checks the import graph. Content and closure digests are filled
// in for every script that was read.
func Deps(paths []string, loader compiler.Loader, maxDiagnostics int) *DepsResult {
	if loader == nil {
		loader = compiler.OSLoader{}
	}
	res := &DepsResult{
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(maxDiagnostics),
	}
	r := diag.BagReporter{Bag: res.Bag}

	var queue []string
	seen := make(map[string]bool)
	for _, p := range paths {
		if !source.IsAbsolute(p) {
			id := res.FileSet.AddVirtual(p, nil)
			diag.ReportError(r, diag.IOPathNotAbsolute, source.Span{File: id},
				"Path '"+p+"' must be specified as an absolute path.").Emit()
			continue
		}
		p = source.NormalizePath(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		res.Roots = append(res.Roots, p)
		queue = append(queue, p)
	}

	var metas []project.ScriptMeta
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		content, err := loader.Load(path)
		if err != nil {
			if slices.Contains(res.Roots, path) {
				id := res.FileSet.Add(path, nil, source.FileVirtual)
				diag.ReportError(r, diag.IOLoadFileError, source.Span{File: id},
					"Unable to read script file.").Emit()
			}
			// отсутствующий импорт сообщит BuildGraph в файле-импортёре
			continue
		}
		id := res.FileSet.AddRaw(path, content, 0)
		file := res.FileSet.Get(id)
		meta := scanScript(file, r)
		for _, imp := range meta.Imports {
			if !seen[imp.Path] {
				seen[imp.Path] = true
				queue = append(queue, imp.Path)
			}
		}
		metas = append(metas, meta)
	}

	res.Index = dag.BuildIndex(metas)
	nodes := make([]dag.ScriptNode, 0, len(metas))
	for _, meta := range metas {
		nodes = append(nodes, dag.ScriptNode{Meta: meta, Reporter: r})
	}
	res.Graph, res.Slots = dag.BuildGraph(res.Index, nodes)
	res.Topo = dag.ToposortKahn(res.Graph)
	dag.ReportCycles(res.Index, res.Slots, res.Topo)

	content := make([]project.Digest, len(res.Slots))
	for i := range res.Slots {
		content[i] = res.Slots[i].Meta.ContentHash
	}
	for id, digest := range dag.ClosureDigests(res.Graph, res.Topo, content) {
		res.Slots[int(id)].Meta.ClosureHash = digest
	}
	res.Bag.Sort()
	return res
}

// scanScript parses file and lists its imports, resolved against the file.
func scanScript(file *source.File, r diag.Reporter) project.ScriptMeta {
	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("script too large: %w", err))
	}
	meta := project.ScriptMeta{
		Path:        file.Path,
		Span:        source.Span{File: file.ID, End: end},
		ContentHash: project.Sum(file.Content),
	}
	prog := parser.Parse(file, r).Program
	for _, id := range prog.File.Stmts {
		imp, ok := prog.Stmts.Import(id)
		if !ok {
			continue
		}
		meta.Imports = append(meta.Imports, project.ImportMeta{
			Path: source.ResolveImport(file.Path, importLiteral(imp)),
			Span: imp.PathSpan,
		})
	}
	return meta
}

func importLiteral(imp *ast.StmtImportData) string {
	raw := imp.Path
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	return raw
}

