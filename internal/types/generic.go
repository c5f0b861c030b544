package types

import (
	"mapl/internal/source"
)

// GenericType is a type as written inside an API declaration. When Primitive is
// Uninitialized the node stands for the Index-th generic parameter of the
// enclosing #type and Name keeps the parameter's spelling.
type GenericType struct {
	Primitive Primitive
	Name      string
	Index     int
	Generics  []GenericType
	Span      source.Span
}

// IsParameter reports whether g refers to a generic parameter.
func (g GenericType) IsParameter() bool {
	return g.Primitive == Uninitialized
}

// Substitute replaces every generic parameter with the matching concrete type.
// A parameter index outside subs yields TypeError.
func (g GenericType) Substitute(subs []Type) Type {
	if g.Primitive == Uninitialized {
		if g.Index < 0 || g.Index >= len(subs) {
			return Of(TypeError)
		}
		return subs[g.Index]
	}
	out := Type{Primitive: g.Primitive, Name: g.Name}
	if len(g.Generics) > 0 {
		out.Generics = make([]Type, len(g.Generics))
		for i := range g.Generics {
			out.Generics[i] = g.Generics[i].Substitute(subs)
		}
	}
	return out
}

// SubstituteGeneric rewrites parameters in terms of another declaration's parameters.
// Out-of-range indices are kept unchanged.
func (g GenericType) SubstituteGeneric(subs []GenericType) GenericType {
	if g.Primitive == Uninitialized {
		if g.Index < 0 || g.Index >= len(subs) {
			return g
		}
		return subs[g.Index]
	}
	out := GenericType{Primitive: g.Primitive, Name: g.Name, Span: g.Span}
	if len(g.Generics) > 0 {
		out.Generics = make([]GenericType, len(g.Generics))
		for i := range g.Generics {
			out.Generics[i] = g.Generics[i].SubstituteGeneric(subs)
		}
	}
	return out
}

// Erased returns the concrete type with every unsubstituted parameter turned into a
// pointer named after the parameter.
func (g GenericType) Erased() Type {
	p := g.Primitive
	if p == Uninitialized {
		p = Pointer
	}
	out := Type{Primitive: p, Name: g.Name}
	if len(g.Generics) > 0 {
		out.Generics = make([]Type, len(g.Generics))
		for i := range g.Generics {
			out.Generics[i] = g.Generics[i].Erased()
		}
	}
	return out
}

// Equal compares structure; parameters compare by index.
func (g GenericType) Equal(other GenericType) bool {
	if g.Primitive != other.Primitive {
		return false
	}
	switch g.Primitive {
	case Uninitialized:
		return g.Index == other.Index
	case Pointer:
		if g.Name != other.Name || len(g.Generics) != len(other.Generics) {
			return false
		}
		for i := range g.Generics {
			if !g.Generics[i].Equal(other.Generics[i]) {
				return false
			}
		}
	}
	return true
}

// DescriptorToken is the per-parameter token of a symbol descriptor.
func (g GenericType) DescriptorToken() string {
	if g.Primitive == Pointer || g.Primitive == Uninitialized {
		return g.Name
	}
	return g.Primitive.String()
}

// Parameters builds the identity substitution for a declaration's generic names.
func Parameters(names []string, span source.Span) []GenericType {
	out := make([]GenericType, len(names))
	for i, n := range names {
		out[i] = GenericType{Primitive: Uninitialized, Name: n, Index: i, Span: span}
	}
	return out
}
