package dag

import (
	"slices"

	"mapl/internal/project"
)

// Topo orders scripts importers first. Reverse it to visit dependencies
// before the scripts that import them.
type Topo struct {
	Order   []ScriptID   // линейный порядок (только реальные скрипты)
	Batches [][]ScriptID // волны независимых скриптов
	Cyclic  bool
	Cycles  []ScriptID // узлы, оставшиеся в цикле
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]ScriptID, 0, nodeCount),
		Batches: make([][]ScriptID, 0),
	}

	active := 0
	current := make([]ScriptID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, toID(i))
		}
	}
	slices.Sort(current)

	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]ScriptID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, toID(i))
			}
		}
		slices.Sort(topo.Cycles)
	}

	return topo
}

// ClosureDigests combines every script's content digest with the closure
// digests of its imports, dependencies first. Scripts on a cycle are left
// out; their closure is undefined.
func ClosureDigests(g Graph, topo *Topo, content []project.Digest) map[ScriptID]project.Digest {
	out := make(map[ScriptID]project.Digest, len(topo.Order))
	for i := len(topo.Order) - 1; i >= 0; i-- {
		id := topo.Order[i]
		deps := make([]project.Digest, 0, len(g.Edges[int(id)]))
		complete := true
		for _, to := range g.Edges[int(id)] {
			d, ok := out[to]
			if !ok {
				complete = false
				break
			}
			deps = append(deps, d)
		}
		if complete {
			out[id] = project.Combine(content[int(id)], deps...)
		}
	}
	return out
}
