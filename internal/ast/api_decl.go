package ast

import (
	"mapl/internal/source"
)

// APIMemberKind says which of the declaration forms an APIMember holds.
type APIMemberKind uint8

const (
	APIFunction APIMemberKind = iota
	APIProperty
	APISubscript
)

// APIMember is a function, property or subscript declared by #global or inside #type.
type APIMember struct {
	Kind APIMemberKind
	Span source.Span
	// Type is the function return type (NoTypeID for void), the property
	// type or the subscript return type.
	Type     TypeID
	Name     string
	NameSpan source.Span
	Readonly bool

	Params   []TypeID
	Variadic bool
	Index    TypeID
}

type StmtGlobalData struct {
	Member APIMember
}

// GenericName is one declared generic descriptor of a #type.
type GenericName struct {
	Name string
	Span source.Span
}

type StmtTypeData struct {
	Name       string
	NameSpan   source.Span
	Generics   []GenericName
	Supertypes []TypeID
	Members    []APIMember
}
