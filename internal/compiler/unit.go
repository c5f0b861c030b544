package compiler

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"mapl/internal/api"
	"mapl/internal/ast"
	"mapl/internal/bytecode"
	"mapl/internal/diag"
	"mapl/internal/parser"
	"mapl/internal/source"
	"mapl/internal/trace"
	"mapl/internal/varstack"
)

type unitState uint8

const (
	unitPending unitState = iota
	unitCompiling
	unitDone
)

// Unit is one compiled script. Its buffer starts with the flattened bytecode
// of every file it imports, followed by an end-of-dependencies marker and the
// file's own statements.
type Unit struct {
	Path    string
	File    source.FileID
	Program *ast.Program
	// Bag holds the diagnostics whose primary span is in this file.
	Bag *diag.Bag

	cache    *Cache
	reporter diag.Reporter
	errors   *diag.CountingReporter
	buf      *bytecode.Buffer
	stack    *varstack.Stack
	registry *api.Registry
	// bases records where each file of the closure, this one included,
	// starts in this unit's memory.
	bases map[string]bytecode.Base
	deps  []*Unit
	state unitState
}

func (u *Unit) Buffer() *bytecode.Buffer { return u.buf }
func (u *Unit) Registry() *api.Registry { return u.registry }
func (u *Unit) Stack() *varstack.Stack { return u.stack }
func (u *Unit) Reporter() diag.Reporter { return u.reporter }
func (u *Unit) Deps() []*Unit { return u.deps }
func (u *Unit) Base() bytecode.Base { return u.bases[u.Path] }
func (u *Unit) HasErrors() bool { return u.errors.Errors > 0 }
func (u *Unit) Bases() map[string]bytecode.Base { return u.bases }

// Failed reports whether u or any file it depends on logged an error.
func (u *Unit) Failed() bool {
	if u.HasErrors() {
		return true
	}
	for _, d := range u.closure() {
		if d.HasErrors() {
			return true
		}
	}
	return false
}

// closure lists every direct and transitive dependency once, dependencies
// before their importers.
func (u *Unit) closure() []*Unit {
	var out []*Unit
	seen := map[*Unit]bool{u: true}
	var walk func(*Unit)
	walk = func(n *Unit) {
		for _, d := range n.deps {
			if seen[d] {
				continue
			}
			seen[d] = true
			walk(d)
			out = append(out, d)
		}
	}
	walk(u)
	return out
}

func (c *Cache) build(u *Unit) {
	u.state = unitCompiling
	c.active = append(c.active, u)
	span := trace.Begin(c.tracer, trace.ScopeUnit, "unit:"+source.BaseName(u.Path), c.parent)
	parent := c.parent
	c.parent = span.ID()
	defer func() {
		c.parent = parent
		c.active = c.active[:len(c.active)-1]
		u.state = unitDone
		failed := u.Failed()
		outcome := "ok"
		if failed {
			outcome = "failed"
		}
		span.End(outcome)
		if c.onUnit != nil {
			c.onUnit(u.Path, failed)
		}
	}()

	u.parse()
	if u.HasErrors() {
		return
	}
	if !u.resolveImports() {
		return
	}
	u.link()
	if u.Failed() {
		return
	}
	u.emit()
}

func (u *Unit) parse() {
	c := u.cache
	span := trace.Begin(c.tracer, trace.ScopePass, "parse", c.parent)
	res := parser.Parse(c.fileSet.Get(u.File), u.reporter)
	u.Program = res.Program
	span.End(fmt.Sprintf("%d statements", len(u.Program.File.Stmts)))
}

// resolveImports compiles every imported file that is not compiled yet.
// It returns false when an import closes a cycle.
func (u *Unit) resolveImports() bool {
	c := u.cache
	for _, id := range u.Program.File.Stmts {
		imp, ok := u.Program.Stmts.Import(id)
		if !ok {
			continue
		}
		target := source.ResolveImport(u.Path, unquote(imp.Path))
		dep, ok := c.dependency(target)
		if !ok {
			diag.ReportError(u.reporter, diag.IOImportNotFound, imp.PathSpan,
				"Unable to resolve path for import statement: "+imp.Path).Emit()
			continue
		}
		switch dep.state {
		case unitCompiling:
			u.reportCycle(dep, u.Program.Stmts.Get(id).Span)
			return false
		case unitPending:
			c.build(dep)
		}
		if !slices.Contains(u.deps, dep) {
			u.deps = append(u.deps, dep)
		}
	}
	return true
}

func (u *Unit) reportCycle(dep *Unit, at source.Span) {
	active := u.cache.active
	start := 0
	for i, a := range active {
		if a == dep {
			start = i
			break
		}
	}
	names := make([]string, 0, len(active)-start+1)
	for _, a := range active[start:] {
		names = append(names, source.BaseName(a.Path))
	}
	names = append(names, source.BaseName(dep.Path))
	diag.ReportError(u.reporter, diag.IOImportCycle, at,
		"Import statement forms a dependency cycle: "+strings.Join(names, " -> ")+".").Emit()
}

// link splices the dependency closure into u and then checks u's own API
// against everything it inherited.
func (u *Unit) link() {
	c := u.cache
	span := trace.Begin(c.tracer, trace.ScopePass, "api", c.parent)
	defer span.End("")

	closure := u.closure()
	var prim, alloc int
	for _, d := range closure {
		u.bases[d.Path] = u.base(prim, alloc)
		usage := d.stack.Usage()
		prim += int(usage.Primitive)
		alloc += int(usage.Allocated)
	}
	u.bases[u.Path] = u.base(prim, alloc)
	u.stack.SetBase(u.bases[u.Path])

	for _, d := range closure {
		rel := bytecode.Rebase{From: d.bases, To: u.bases}
		u.buf.AppendBufferRelocated(d.buf, d.buf.EndOfDependencies(), rel)
		u.stack.Append(d.stack, rel)
		u.registry.AssimilateRegistry(d.registry)
	}
	u.stack.FlagAllAsDependency()
	u.registry.FlagAllAsDependency()
	u.buf.ZeroDebugLines()
	u.buf.AddAnnotation(bytecode.AnnotationEndOfDependencies, "")

	u.registry.Assimilate(u.Program)
	u.registry.PerformErrorChecking()
	u.registry.FindInheritanceCyclesAndDiamonds()
}

func (u *Unit) base(prim, alloc int) bytecode.Base {
	p, errP := safecast.Conv[uint16](prim)
	a, errA := safecast.Conv[uint16](alloc)
	if errP != nil || errA != nil {
		diag.ReportError(u.reporter, diag.IntAddressOverrun, source.Span{File: u.File},
			"The imported scripts need more memory than MaPL's 2-byte addressing can describe.").Emit()
	}
	return bytecode.Base{Primitive: p, Allocated: a}
}

func (u *Unit) emit() {
	c := u.cache
	span := trace.Begin(c.tracer, trace.ScopePass, "emit", c.parent)
	em := newEmitter(u)
	for _, id := range u.Program.File.Stmts {
		em.compileStmt(u.buf, id)
	}
	span.End(fmt.Sprintf("%d bytes", u.buf.Len()))
}

func unquote(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	return raw
}
