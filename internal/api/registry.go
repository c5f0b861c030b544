package api

import (
	"mapl/internal/diag"
)

// Registry holds every API declaration visible to one compilation unit.
// The first declaration of a name wins; later ones are reported and dropped.
type Registry struct {
	reporter diag.Reporter

	functions  []*Function
	properties map[string]*Property
	propOrder  []string
	types      map[string]*Type
	typeOrder  []string
}

// NewRegistry creates an empty registry reporting declaration errors to r.
func NewRegistry(r diag.Reporter) *Registry {
	return &Registry{
		reporter:   r,
		properties: make(map[string]*Property),
		types:      make(map[string]*Type),
	}
}

// GlobalFunctions returns the #global functions in declaration order.
func (r *Registry) GlobalFunctions() []*Function { return r.functions }

// GlobalProperties returns the #global properties in declaration order.
func (r *Registry) GlobalProperties() []*Property {
	out := make([]*Property, 0, len(r.propOrder))
	for _, name := range r.propOrder {
		out = append(out, r.properties[name])
	}
	return out
}

// Types returns the #type declarations in declaration order.
func (r *Registry) Types() []*Type {
	out := make([]*Type, 0, len(r.typeOrder))
	for _, name := range r.typeOrder {
		out = append(out, r.types[name])
	}
	return out
}

// AddFunction registers a global function. Collisions are found later by
// PerformErrorChecking because they depend on parameter types.
func (r *Registry) AddFunction(f *Function) {
	r.functions = append(r.functions, f)
}

// AddProperty registers a global property.
func (r *Registry) AddProperty(p *Property) {
	if existing, ok := r.properties[p.Name]; ok {
		diag.ReportCollision(r.reporter, diag.Collision{
			Code:       diag.APIDuplicateGlobalProp,
			Later:      p.Span,
			Earlier:    existing.Span,
			LaterMsg:   "Global property '" + p.Name + "' is in conflict with a previously declared global property of the same name.",
			EarlierMsg: "Global property '" + existing.Name + "' later comes into conflict with a global property of the same name.",
		})
		return
	}
	r.properties[p.Name] = p
	r.propOrder = append(r.propOrder, p.Name)
}

// AddType registers a #type declaration.
func (r *Registry) AddType(t *Type) {
	if existing, ok := r.types[t.Name]; ok {
		diag.ReportCollision(r.reporter, diag.Collision{
			Code:       diag.APIDuplicateType,
			Later:      t.NameSpan,
			Earlier:    existing.NameSpan,
			LaterMsg:   "Type '" + t.Name + "' is in conflict with a previously declared type of the same name.",
			EarlierMsg: "Type '" + t.Name + "' later comes into conflict with a type of the same name.",
		})
		return
	}
	r.types[t.Name] = t
	r.typeOrder = append(r.typeOrder, t.Name)
}

// AddTypeProperty adds p to t, reporting a duplicate name inside the same type.
func (r *Registry) AddTypeProperty(t *Type, p *Property) {
	if existing, ok := t.Properties[p.Name]; ok {
		r.reportPropertyCollision(p, existing)
		return
	}
	t.Properties[p.Name] = p
	t.PropertyOrder = append(t.PropertyOrder, p.Name)
}

func (r *Registry) reportPropertyCollision(p, existing *Property) {
	diag.ReportCollision(r.reporter, diag.Collision{
		Code:       diag.APIDuplicateProperty,
		Later:      p.Span,
		Earlier:    existing.Span,
		LaterMsg:   "Property '" + p.Name + "' in type '" + p.Owner + "' is in conflict with a previously declared property of the same name in type '" + existing.Owner + "'.",
		EarlierMsg: "Property '" + existing.Name + "' in type '" + existing.Owner + "' later comes into conflict with a property of the same name in type '" + p.Owner + "'.",
	})
}

// AssimilateRegistry merges the declarations other owns itself. Entries that
// other inherited from its own dependencies are skipped, so merging every
// file of a dependency closure once yields each declaration once.
func (r *Registry) AssimilateRegistry(other *Registry) {
	for _, f := range other.functions {
		if f.FromDependency {
			continue
		}
		cp := *f
		r.AddFunction(&cp)
	}
	for _, name := range other.propOrder {
		p := other.properties[name]
		if p.FromDependency {
			continue
		}
		cp := *p
		r.AddProperty(&cp)
	}
	for _, name := range other.typeOrder {
		t := other.types[name]
		if t.FromDependency {
			continue
		}
		cp := *t
		r.AddType(&cp)
	}
}

// FlagAllAsDependency marks every current declaration as inherited.
func (r *Registry) FlagAllAsDependency() {
	for _, f := range r.functions {
		f.FromDependency = true
	}
	for _, p := range r.properties {
		p.FromDependency = true
	}
	for _, t := range r.types {
		t.FromDependency = true
	}
}
