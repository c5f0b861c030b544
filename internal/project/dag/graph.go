package dag

import (
	"fmt"
	"slices"
	"strings"

	"mapl/internal/diag"
	"mapl/internal/project"
	"mapl/internal/source"
)

type Graph struct {
	Edges   [][]ScriptID // Edges[importer] = []imported
	Indeg   []int        // входящие степени для Kahn (учитывает только присутствующие скрипты)
	Present []bool       // скрипт реально загружен (а не только импортируется)
}

type ScriptNode struct {
	Meta     project.ScriptMeta
	Reporter diag.Reporter
}

type ScriptSlot struct {
	Meta     project.ScriptMeta
	Reporter diag.Reporter
	Present  bool
}

func BuildGraph(idx ScriptIndex, nodes []ScriptNode) (Graph, []ScriptSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ScriptID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]ScriptSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Path = name
	}

	for _, node := range nodes {
		id, ok := idx.NameToID[node.Meta.Path]
		if !ok || slots[int(id)].Present {
			// один и тот же путь загружается один раз
			continue
		}
		slot := &slots[int(id)]
		slot.Meta = node.Meta
		slot.Reporter = node.Reporter
		slot.Present = true
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Imports) == 0 {
			continue
		}
		seen := make(map[ScriptID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			target, ok := idx.NameToID[dep.Path]
			if !ok {
				continue
			}
			if target == toID(from) {
				slot.report(diag.IOImportCycle, dep.Span,
					"Import statement forms a dependency cycle: "+source.BaseName(slot.Meta.Path)+" imports itself.")
				continue
			}
			if _, dup := seen[target]; dup {
				continue
			}
			seen[target] = struct{}{}

			g.Edges[from] = append(g.Edges[from], target)
			if g.Present[int(target)] {
				g.Indeg[int(target)]++
			} else {
				slot.report(diag.IOImportNotFound, dep.Span,
					"Unable to resolve path for import statement: "+dep.Path)
			}
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}

func (s *ScriptSlot) report(code diag.Code, at source.Span, msg string) {
	if s.Reporter == nil {
		return
	}
	s.Reporter.Report(code, diag.SevError, at, msg, nil, nil)
}

// ReportCycles logs one error per script left on a cycle, at its first
// import of another cyclic script.
func ReportCycles(idx ScriptIndex, slots []ScriptSlot, topo *Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, source.BaseName(idx.IDToName[int(id)]))
	}
	summary := strings.Join(names, ", ")

	for _, id := range topo.Cycles {
		slot := &slots[int(id)]
		if !slot.Present {
			continue
		}
		at := slot.Meta.Span
		for _, imp := range slot.Meta.Imports {
			if to, ok := idx.NameToID[imp.Path]; ok && slices.Contains(topo.Cycles, to) {
				at = imp.Span
				break
			}
		}
		slot.report(diag.IOImportCycle, at, fmt.Sprintf(
			"Script '%s' is part of an import cycle between: %s.", source.BaseName(slot.Meta.Path), summary))
	}
}
