package api

import (
	"strings"

	"mapl/internal/source"
	"mapl/internal/types"
)

// Function is a #global or #type function declaration. Owner is empty for globals.
type Function struct {
	Name     string
	Owner    string
	Return   types.GenericType
	Params   []types.GenericType
	Variadic bool
	Span     source.Span

	FromDependency bool
}

// SymbolDescriptor is the stable name used in the symbol table:
// GLOBAL_print_string_VARIADIC, Node_child_int32.
func (f *Function) SymbolDescriptor() string {
	var b strings.Builder
	b.WriteString(ownerPrefix(f.Owner))
	b.WriteByte('_')
	b.WriteString(f.Name)
	for _, p := range f.Params {
		b.WriteByte('_')
		b.WriteString(p.DescriptorToken())
	}
	if f.Variadic {
		b.WriteString("_VARIADIC")
	}
	return b.String()
}

// Signature renders the function for diagnostics: "Node::child(int32)".
func (f *Function) Signature() string {
	params := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Erased()
	}
	return types.FunctionSignature(f.Owner, f.Name, params, f.Variadic)
}

// Property is a #global or #type property declaration.
type Property struct {
	Name     string
	Owner    string
	Type     types.GenericType
	Readonly bool
	Span     source.Span

	FromDependency bool
}

func (p *Property) SymbolDescriptor() string {
	return ownerPrefix(p.Owner) + "_" + p.Name
}

// Subscript is an indexed accessor declared inside a #type.
type Subscript struct {
	Owner    string
	Return   types.GenericType
	Index    types.GenericType
	Readonly bool
	Span     source.Span
}

// Type is a #type declaration. Properties keeps declaration order in
// PropertyOrder; the map is the lookup index.
type Type struct {
	Name          string
	Generics      []string
	Supertypes    []types.GenericType
	Functions     []*Function
	Properties    map[string]*Property
	PropertyOrder []string
	Subscripts    []*Subscript
	Span          source.Span
	NameSpan      source.Span

	// FromDependency marks declarations inherited from an imported file.
	FromDependency bool
}

// NewType returns an empty declaration ready for members.
func NewType(name string, generics []string, span, nameSpan source.Span) *Type {
	return &Type{
		Name:       name,
		Generics:   generics,
		Properties: make(map[string]*Property),
		Span:       span,
		NameSpan:   nameSpan,
	}
}

// GenericParameters is the identity substitution of t's own generics.
func (t *Type) GenericParameters() []types.GenericType {
	return types.Parameters(t.Generics, t.Span)
}

func ownerPrefix(owner string) string {
	if owner == "" {
		return "GLOBAL"
	}
	return owner
}
