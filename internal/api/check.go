package api

import (
	"strings"

	"mapl/internal/diag"
	"mapl/internal/types"
)

// PerformErrorChecking validates every declaration against the whole registry:
// generic names that shadow types, references to missing types or with the
// wrong number of generics, and colliding functions, properties and subscripts.
func (r *Registry) PerformErrorChecking() {
	for _, t := range r.Types() {
		for _, g := range t.Generics {
			if conflicting := r.FindType(g); conflicting != nil {
				diag.ReportError(r.reporter, diag.APIGenericShadowsType, t.Span,
					"Generic descriptor '"+g+"' conflicts with a type of the same name.").
					WithNote(conflicting.NameSpan, "type declared here").Emit()
				diag.ReportError(r.reporter, diag.APIGenericShadowsType, conflicting.NameSpan,
					"Type '"+g+"' later comes into conflict with a generic descriptor of the same name.").
					WithNote(t.Span, "generic declared here").Emit()
			}
		}
		for _, super := range t.Supertypes {
			r.checkGeneric(super)
		}
		params := t.GenericParameters()
		for i, f := range t.Functions {
			r.checkFunctionTypes(f)
			r.checkFunctionCollisionsInList(f, t.Functions[:i], params)
			for _, super := range t.Supertypes {
				r.checkFunctionCollisions(f, super.Name, remapGenerics(super, params), map[string]bool{t.Name: true})
			}
		}
		for _, name := range t.PropertyOrder {
			p := t.Properties[name]
			r.checkGeneric(p.Type)
			if conflicting := r.FindTypeProperty(p.Owner, p.Name, p); conflicting != nil {
				r.reportPropertyCollision(p, conflicting)
			}
		}
		for _, s := range t.Subscripts {
			r.checkGeneric(s.Return)
			r.checkGeneric(s.Index)
			r.checkSubscriptCollisions(s, t.Name, params, map[string]bool{})
		}
	}
	for i, f := range r.functions {
		r.checkFunctionTypes(f)
		r.checkFunctionCollisionsInList(f, r.functions[:i], nil)
	}
	for _, p := range r.GlobalProperties() {
		r.checkGeneric(p.Type)
	}
}

func (r *Registry) checkFunctionTypes(f *Function) {
	r.checkGeneric(f.Return)
	for _, p := range f.Params {
		r.checkGeneric(p)
	}
}

// checkGeneric reports references to undeclared types and generic arity mismatches.
func (r *Registry) checkGeneric(g types.GenericType) {
	if g.Primitive != types.Pointer {
		return
	}
	if t := r.FindType(g.Name); t != nil {
		if len(g.Generics) != len(t.Generics) {
			diag.ReportError(r.reporter, diag.APIGenericArity, g.Span,
				"The number of generics specified for '"+g.Name+"' doesn't match the number of generics in the type declaration.").
				WithNote(t.NameSpan, "type declared here").Emit()
		}
	} else {
		diag.ReportError(r.reporter, diag.APIMissingType, g.Span,
			"Unable to find the type declaration for '"+g.Name+"'.").Emit()
	}
	for _, child := range g.Generics {
		r.checkGeneric(child)
	}
}

func remapGenerics(super types.GenericType, subs []types.GenericType) []types.GenericType {
	out := make([]types.GenericType, len(super.Generics))
	for i, g := range super.Generics {
		out[i] = g.SubstituteGeneric(subs)
	}
	return out
}

// checkFunctionCollisionsInList compares f with every function of list, whose
// parameters are expressed through subs.
func (r *Registry) checkFunctionCollisionsInList(f *Function, list []*Function, subs []types.GenericType) {
	for _, other := range list {
		if other == f || other.Variadic != f.Variadic || other.Name != f.Name || len(other.Params) != len(f.Params) {
			continue
		}
		equivalent := true
		for i := range other.Params {
			if !other.Params[i].SubstituteGeneric(subs).Equal(f.Params[i]) {
				equivalent = false
				break
			}
		}
		if !equivalent {
			continue
		}
		diag.ReportCollision(r.reporter, diag.Collision{
			Code:       diag.APIFunctionCollision,
			Later:      f.Span,
			Earlier:    other.Span,
			LaterMsg:   "Function '" + f.Signature() + "' is in conflict with previously declared function '" + other.Signature() + "'.",
			EarlierMsg: "Function '" + other.Signature() + "' later comes into conflict with function '" + f.Signature() + "'.",
		})
	}
}

// checkFunctionCollisions compares f with the functions of typeName and its ancestors.
func (r *Registry) checkFunctionCollisions(f *Function, typeName string, subs []types.GenericType, seen map[string]bool) {
	t := r.FindType(typeName)
	if t == nil || seen[typeName] {
		return
	}
	seen[typeName] = true
	defer delete(seen, typeName)
	r.checkFunctionCollisionsInList(f, t.Functions, subs)
	for _, super := range t.Supertypes {
		r.checkFunctionCollisions(f, super.Name, remapGenerics(super, subs), seen)
	}
}

func (r *Registry) checkSubscriptCollisions(s *Subscript, typeName string, subs []types.GenericType, seen map[string]bool) {
	t := r.FindType(typeName)
	if t == nil || seen[typeName] {
		return
	}
	seen[typeName] = true
	defer delete(seen, typeName)
	for _, other := range t.Subscripts {
		if other == s || !other.Index.SubstituteGeneric(subs).Equal(s.Index) {
			continue
		}
		diag.ReportError(r.reporter, diag.APISubscriptCollision, s.Span,
			"Subscript with index type '"+s.Index.Erased().String()+"' on type '"+s.Owner+
				"' is in conflict with subscript with index type '"+other.Index.Erased().String()+"' on type '"+other.Owner+"'.").
			WithNote(other.Span, "conflicting subscript").Emit()
	}
	for _, super := range t.Supertypes {
		r.checkSubscriptCollisions(s, super.Name, remapGenerics(super, subs), seen)
	}
}

// FindInheritanceCyclesAndDiamonds reports every type inherited twice by the
// same descendant, and the first inheritance cycle found. Checking stops at a cycle.
func (r *Registry) FindInheritanceCyclesAndDiamonds() {
	for _, t := range r.Types() {
		cycle := r.walkInheritance(t, map[string]bool{}, map[string]bool{})
		if len(cycle) > 0 {
			diag.ReportError(r.reporter, diag.APIInheritanceCycle, t.Span,
				"Type inheritance forms a cycle: "+strings.Join(cycle, " -> ")+".").Emit()
			return
		}
	}
}

func (r *Registry) walkInheritance(t *Type, path, visited map[string]bool) []string {
	if path[t.Name] {
		return []string{t.Name}
	}
	if visited[t.Name] {
		diag.ReportError(r.reporter, diag.APIInheritanceDiamond, t.Span,
			"The type '"+t.Name+"' is inherited more than once by the same type, forming an 'inheritance diamond'.").Emit()
		return nil
	}
	visited[t.Name] = true
	if len(t.Supertypes) == 0 {
		return nil
	}
	path[t.Name] = true
	defer delete(path, t.Name)
	for _, super := range t.Supertypes {
		parent := r.FindType(super.Name)
		if parent == nil {
			continue
		}
		if cycle := r.walkInheritance(parent, path, visited); len(cycle) > 0 {
			return append([]string{t.Name}, cycle...)
		}
	}
	return nil
}
