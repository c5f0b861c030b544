package types

import (
	"strings"
)

// Type is a concrete MaPL type. Name and Generics are meaningful only for pointers;
// a pointer with an empty Name is the type of the NULL literal.
type Type struct {
	Primitive Primitive
	Name      string
	Generics  []Type
}

// Of returns a non-pointer type.
func Of(p Primitive) Type {
	return Type{Primitive: p}
}

// PointerTo returns a pointer type implementing the named #type.
func PointerTo(name string, generics ...Type) Type {
	return Type{Primitive: Pointer, Name: name, Generics: generics}
}

// Null is the type of the NULL literal.
func Null() Type {
	return Type{Primitive: Pointer}
}

// IsNull reports whether t is the NULL literal type.
func (t Type) IsNull() bool {
	return t.Primitive == Pointer && t.Name == ""
}

// Equal is structural equality.
func (t Type) Equal(other Type) bool {
	if t.Primitive != other.Primitive {
		return false
	}
	if t.Primitive != Pointer {
		return true
	}
	if t.Name != other.Name || len(t.Generics) != len(other.Generics) {
		return false
	}
	for i := range t.Generics {
		if !t.Generics[i].Equal(other.Generics[i]) {
			return false
		}
	}
	return true
}

// String renders t the way diagnostics spell it: "Map<string, Node>", "NULL", "int32".
func (t Type) String() string {
	if t.Primitive != Pointer {
		return t.Primitive.String()
	}
	if t.Name == "" {
		return "NULL"
	}
	if len(t.Generics) == 0 {
		return t.Name
	}
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte('<')
	for i, g := range t.Generics {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(g.String())
	}
	b.WriteByte('>')
	return b.String()
}

// FunctionSignature is the human readable form of a function used in collision
// and lookup diagnostics: "Owner::name(int32, Node, ...)".
func FunctionSignature(owner, name string, params []Type, variadic bool) string {
	var b strings.Builder
	if owner != "" {
		b.WriteString(owner)
		b.WriteString("::")
	}
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	if variadic {
		if len(params) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteByte(')')
	return b.String()
}
