package ast

import (
	"mapl/internal/source"
	"mapl/internal/token"
)

// TypeExpr is a written type: a primitive keyword or a pointer type name with
// optional generic arguments.
type TypeExpr struct {
	Span source.Span
	// Keyword is the primitive keyword, or token.Invalid for pointer types.
	Keyword  token.Kind
	Name     string
	NameSpan source.Span
	Generics []TypeID
}

// IsPointer reports whether t names a #type rather than a primitive.
func (t *TypeExpr) IsPointer() bool { return t.Keyword == token.Invalid }

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{Arena: NewArena[TypeExpr](capHint)}
}

// NewPrimitive allocates a primitive type reference.
func (t *TypeExprs) NewPrimitive(span source.Span, keyword token.Kind) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Span: span, Keyword: keyword}))
}

// NewPointer allocates a #type reference.
func (t *TypeExprs) NewPointer(span source.Span, name string, nameSpan source.Span, generics []TypeID) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{
		Span:     span,
		Keyword:  token.Invalid,
		Name:     name,
		NameSpan: nameSpan,
		Generics: generics,
	}))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}
