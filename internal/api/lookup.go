package api

import (
	"mapl/internal/types"
)

// FindType returns the #type declaration named name, or nil.
func (r *Registry) FindType(name string) *Type {
	return r.types[name]
}

// supertypeArgs substitutes subs into the generic arguments of a supertype reference.
func supertypeArgs(super types.GenericType, subs []types.Type) []types.Type {
	out := make([]types.Type, len(super.Generics))
	for i, g := range super.Generics {
		out[i] = g.Substitute(subs)
	}
	return out
}

func (r *Registry) findFunctionInList(list []*Function, name string, args, subs []types.Type, excluding *Function) *Function {
	for _, f := range list {
		if f == excluding || f.Name != name {
			continue
		}
		// вариативная функция принимает больше аргументов, чем объявлено
		if (!f.Variadic && len(f.Params) != len(args)) || (f.Variadic && len(f.Params) > len(args)) {
			continue
		}
		compatible := true
		for i, p := range f.Params {
			if !r.IsAssignable(args[i], p.Substitute(subs)) {
				compatible = false
				break
			}
		}
		if compatible {
			return f
		}
	}
	return nil
}

// FindTypeFunction searches typeName and then its supertypes depth-first for a
// function accepting args. subs are the generic arguments of typeName.
func (r *Registry) FindTypeFunction(typeName, name string, args, subs []types.Type, excluding *Function) *Function {
	return r.findTypeFunction(typeName, name, args, subs, excluding, map[string]bool{})
}

func (r *Registry) findTypeFunction(typeName, name string, args, subs []types.Type, excluding *Function, seen map[string]bool) *Function {
	t := r.FindType(typeName)
	if t == nil || seen[typeName] {
		return nil
	}
	seen[typeName] = true
	defer delete(seen, typeName)
	if f := r.findFunctionInList(t.Functions, name, args, subs, excluding); f != nil {
		return f
	}
	for _, super := range t.Supertypes {
		if f := r.findTypeFunction(super.Name, name, args, supertypeArgs(super, subs), excluding, seen); f != nil {
			return f
		}
	}
	return nil
}

// FindGlobalFunction returns the first #global function accepting args.
func (r *Registry) FindGlobalFunction(name string, args []types.Type, excluding *Function) *Function {
	return r.findFunctionInList(r.functions, name, args, nil, excluding)
}

// FindTypeProperty searches typeName and its supertypes for a property.
func (r *Registry) FindTypeProperty(typeName, name string, excluding *Property) *Property {
	return r.findTypeProperty(typeName, name, excluding, map[string]bool{})
}

func (r *Registry) findTypeProperty(typeName, name string, excluding *Property, seen map[string]bool) *Property {
	t := r.FindType(typeName)
	if t == nil || seen[typeName] {
		return nil
	}
	seen[typeName] = true
	defer delete(seen, typeName)
	if p, ok := t.Properties[name]; ok && p != excluding {
		return p
	}
	for _, super := range t.Supertypes {
		if p := r.findTypeProperty(super.Name, name, excluding, seen); p != nil {
			return p
		}
	}
	return nil
}

// FindGlobalProperty returns the #global property named name, or nil.
func (r *Registry) FindGlobalProperty(name string) *Property {
	return r.properties[name]
}

// FindSubscript searches typeName and its supertypes for a subscript whose
// index type accepts index.
func (r *Registry) FindSubscript(typeName string, index types.Type, subs []types.Type, excluding *Subscript) *Subscript {
	return r.findSubscript(typeName, index, subs, excluding, map[string]bool{})
}

func (r *Registry) findSubscript(typeName string, index types.Type, subs []types.Type, excluding *Subscript, seen map[string]bool) *Subscript {
	t := r.FindType(typeName)
	if t == nil || seen[typeName] {
		return nil
	}
	seen[typeName] = true
	defer delete(seen, typeName)
	for _, s := range t.Subscripts {
		if s == excluding {
			continue
		}
		if r.IsAssignable(index, s.Index.Substitute(subs)) {
			return s
		}
	}
	for _, super := range t.Supertypes {
		if s := r.findSubscript(super.Name, index, supertypeArgs(super, subs), excluding, seen); s != nil {
			return s
		}
	}
	return nil
}

// IsAssignable reports whether a value of type from can be stored where to is expected.
// NULL goes to any pointer, a pointer goes to any ancestor whose generics match
// after substitution, and ambiguous numeric literals go to wide enough concrete kinds.
func (r *Registry) IsAssignable(from, to types.Type) bool {
	if from.Primitive == to.Primitive {
		if to.Primitive != types.Pointer {
			return true
		}
		if from.IsNull() {
			return true
		}
		if from.Name == to.Name {
			return r.genericsAssignable(from.Generics, to.Generics)
		}
		equivalent := r.FindEquivalentGenerics(from, to.Name)
		if equivalent.Primitive == types.TypeError {
			return false
		}
		return r.genericsAssignable(equivalent.Generics, to.Generics)
	}
	return types.NumericAssignable(from.Primitive, to.Primitive)
}

func (r *Registry) genericsAssignable(from, to []types.Type) bool {
	if len(from) != len(to) {
		return false
	}
	for i := range from {
		if !r.IsAssignable(from[i], to[i]) {
			return false
		}
	}
	return true
}

// InheritsFrom reports whether typeName is ancestor or inherits from it.
func (r *Registry) InheritsFrom(typeName, ancestor string) bool {
	return r.inheritsFrom(typeName, ancestor, map[string]bool{})
}

func (r *Registry) inheritsFrom(typeName, ancestor string, seen map[string]bool) bool {
	if typeName == ancestor {
		return true
	}
	if seen[typeName] {
		return false
	}
	seen[typeName] = true
	t := r.FindType(typeName)
	if t == nil {
		return false
	}
	for _, super := range t.Supertypes {
		if r.inheritsFrom(super.Name, ancestor, seen) {
			return true
		}
	}
	return false
}

// FindEquivalentGenerics walks from's supertypes to ancestor, substituting
// generic arguments at every step, and returns from viewed as ancestor.
// Unreachable ancestors yield TypeError.
func (r *Registry) FindEquivalentGenerics(from types.Type, ancestor string) types.Type {
	return r.findEquivalentGenerics(from, ancestor, map[string]bool{})
}

func (r *Registry) findEquivalentGenerics(from types.Type, ancestor string, seen map[string]bool) types.Type {
	if from.Primitive != types.Pointer || ancestor == "" || from.Name == ancestor {
		return from
	}
	if seen[from.Name] {
		return types.Of(types.TypeError)
	}
	seen[from.Name] = true
	defer delete(seen, from.Name)
	if t := r.FindType(from.Name); t != nil {
		for _, super := range t.Supertypes {
			view := types.Type{Primitive: super.Primitive, Name: super.Name, Generics: supertypeArgs(super, from.Generics)}
			if found := r.findEquivalentGenerics(view, ancestor, seen); found.Primitive != types.TypeError {
				return found
			}
		}
	}
	return types.Of(types.TypeError)
}

// MutualAncestors returns the types that both a and b inherit from (each type
// counts as its own ancestor), dropping any candidate that is itself an
// ancestor of another candidate. The result follows declaration order.
func (r *Registry) MutualAncestors(a, b string) []string {
	var common []string
	for _, t := range r.Types() {
		if r.InheritsFrom(a, t.Name) && r.InheritsFrom(b, t.Name) {
			common = append(common, t.Name)
		}
	}
	var out []string
	for _, candidate := range common {
		nearest := true
		for _, other := range common {
			if other != candidate && r.InheritsFrom(other, candidate) {
				nearest = false
				break
			}
		}
		if nearest {
			out = append(out, candidate)
		}
	}
	return out
}
