package compiler

import (
	"mapl/internal/api"
	"mapl/internal/bytecode"
	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/trace"
	"mapl/internal/varstack"
)

// Cache owns every file reached during one compilation, so each path is
// parsed and compiled at most once however many files import it.
// A Cache is not safe for concurrent use.
type Cache struct {
	fileSet        *source.FileSet
	loader         Loader
	debug          bool
	maxDiagnostics int
	tracer         trace.Tracer
	parent         uint64
	onUnit         func(path string, failed bool)

	units  map[string]*Unit
	order  []*Unit
	active []*Unit
	// routes sends a diagnostic to the bag of the file its span points into.
	routes map[source.FileID]diag.Reporter
}

// NewCache prepares an empty cache. Files are added to fileSet as they load.
func NewCache(fileSet *source.FileSet, opts Options) *Cache {
	opts = opts.withDefaults()
	return &Cache{
		fileSet:        fileSet,
		loader:         opts.Loader,
		debug:          opts.IncludeDebugBytes,
		maxDiagnostics: opts.MaxDiagnostics,
		tracer:         opts.Tracer,
		onUnit:         opts.OnUnit,
		units:          make(map[string]*Unit),
		routes:         make(map[source.FileID]diag.Reporter),
	}
}

// FileSet returns the files loaded so far.
func (c *Cache) FileSet() *source.FileSet { return c.fileSet }

// Unit returns the cached unit for path.
func (c *Cache) Unit(path string) (*Unit, bool) {
	u, ok := c.units[source.NormalizePath(path)]
	return u, ok
}

// Units returns every cached unit in load order.
func (c *Cache) Units() []*Unit { return c.order }

// Compile compiles path and, recursively, everything it imports. A file
// that cannot be read yields a unit carrying the load error.
func (c *Cache) Compile(path string) *Unit {
	path = source.NormalizePath(path)
	if u, ok := c.units[path]; ok {
		if u.state == unitPending {
			c.build(u)
		}
		return u
	}
	u, err := c.open(path)
	if err != nil {
		u = c.newUnit(path, c.fileSet.Add(path, nil, source.FileVirtual))
		u.state = unitDone
		diag.ReportError(u.reporter, diag.IOLoadFileError, source.Span{File: u.File},
			"Unable to read script file.").Emit()
		return u
	}
	c.build(u)
	return u
}

// dependency returns the unit of an imported file, loading it on first use.
// Files that cannot be read are not cached.
func (c *Cache) dependency(path string) (*Unit, bool) {
	if u, ok := c.units[path]; ok {
		return u, u.Program != nil || u.state == unitPending
	}
	u, err := c.open(path)
	if err != nil {
		return nil, false
	}
	return u, true
}

func (c *Cache) open(path string) (*Unit, error) {
	content, err := c.loader.Load(path)
	if err != nil {
		return nil, err
	}
	return c.newUnit(path, c.fileSet.AddRaw(path, content, 0)), nil
}

func (c *Cache) newUnit(path string, file source.FileID) *Unit {
	bag := diag.NewBag(c.maxDiagnostics)
	counter := &diag.CountingReporter{Next: diag.BagReporter{Bag: bag}}
	own := diag.NewDedupReporter(counter)
	c.routes[file] = own
	r := &diag.RoutingReporter{Routes: c.routes, Fallback: own}
	u := &Unit{
		Path:     path,
		File:     file,
		Bag:      bag,
		cache:    c,
		reporter: r,
		errors:   counter,
		buf:      bytecode.NewBuffer(r, file),
		stack:    varstack.New(r),
		registry: api.NewRegistry(r),
		bases:    make(map[string]bytecode.Base),
	}
	c.units[path] = u
	c.order = append(c.order, u)
	return u
}
