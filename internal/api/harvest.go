package api

import (
	"slices"

	"mapl/internal/ast"
	"mapl/internal/diag"
	"mapl/internal/types"
)

// Assimilate registers every top-level #global and #type declaration of prog.
// Declarations nested in scopes or control flow are reported and ignored.
func (r *Registry) Assimilate(prog *ast.Program) {
	for _, id := range prog.File.Stmts {
		switch prog.Stmts.Get(id).Kind {
		case ast.StmtGlobal:
			g, _ := prog.Stmts.Global(id)
			r.assimilateGlobal(prog, &g.Member)
		case ast.StmtType:
			t, _ := prog.Stmts.Type(id)
			r.assimilateType(prog, t, prog.Stmts.Get(id))
		default:
			r.reportNestedDeclarations(prog, id, false)
		}
	}
}

func (r *Registry) assimilateGlobal(prog *ast.Program, m *ast.APIMember) {
	switch m.Kind {
	case ast.APIFunction:
		r.AddFunction(r.function(prog, m, "", nil))
	case ast.APIProperty:
		r.AddProperty(&Property{
			Name:     m.Name,
			Type:     r.genericType(prog, m.Type, nil),
			Readonly: m.Readonly,
			Span:     m.Span,
		})
	}
}

func (r *Registry) assimilateType(prog *ast.Program, decl *ast.StmtTypeData, st *ast.Stmt) {
	if types.IsPrimitiveName(decl.Name) {
		diag.ReportError(r.reporter, diag.APITypeShadowsPrimitive, decl.NameSpan,
			"Type name '"+decl.Name+"' conflicts with a primitive type.").Emit()
	}
	generics := make([]string, 0, len(decl.Generics))
	for _, g := range decl.Generics {
		if types.IsPrimitiveName(g.Name) {
			diag.ReportError(r.reporter, diag.APIGenericShadowsPrim, g.Span,
				"Generics descriptor '"+g.Name+"' conflicts with a primitive type.").Emit()
		}
		if slices.Contains(generics, g.Name) {
			diag.ReportError(r.reporter, diag.APIDuplicateGeneric, g.Span,
				"Duplicate generics descriptor '"+g.Name+"'. Descriptors must be unique.").Emit()
		}
		generics = append(generics, g.Name)
	}

	t := NewType(decl.Name, generics, st.Span, decl.NameSpan)
	for _, super := range decl.Supertypes {
		t.Supertypes = append(t.Supertypes, r.genericType(prog, super, generics))
	}
	for i := range decl.Members {
		m := &decl.Members[i]
		switch m.Kind {
		case ast.APIFunction:
			t.Functions = append(t.Functions, r.function(prog, m, decl.Name, generics))
		case ast.APIProperty:
			r.AddTypeProperty(t, &Property{
				Name:     m.Name,
				Owner:    decl.Name,
				Type:     r.genericType(prog, m.Type, generics),
				Readonly: m.Readonly,
				Span:     m.Span,
			})
		case ast.APISubscript:
			t.Subscripts = append(t.Subscripts, &Subscript{
				Owner:    decl.Name,
				Return:   r.genericType(prog, m.Type, generics),
				Index:    r.genericType(prog, m.Index, generics),
				Readonly: m.Readonly,
				Span:     m.Span,
			})
		}
	}
	r.AddType(t)
}

func (r *Registry) function(prog *ast.Program, m *ast.APIMember, owner string, generics []string) *Function {
	f := &Function{
		Name:     m.Name,
		Owner:    owner,
		Return:   r.genericType(prog, m.Type, generics),
		Variadic: m.Variadic,
		Span:     m.Span,
	}
	for _, p := range m.Params {
		f.Params = append(f.Params, r.genericType(prog, p, generics))
	}
	return f
}

// genericType converts a written type. Names found in generics become
// parameter references; NoTypeID is void.
func (r *Registry) genericType(prog *ast.Program, id ast.TypeID, generics []string) types.GenericType {
	if id == ast.NoTypeID {
		return types.GenericType{Primitive: types.Void}
	}
	te := prog.Types.Get(id)
	if !te.IsPointer() {
		p, _ := types.PrimitiveForKeyword(te.Keyword.String())
		return types.GenericType{Primitive: p, Span: te.Span}
	}
	if idx := slices.Index(generics, te.Name); idx >= 0 {
		if len(te.Generics) > 0 {
			diag.ReportError(r.reporter, diag.APIGenericWithGenerics, te.Span,
				"Generic specifiers like '"+te.Name+"' cannot have their own generics.").Emit()
		}
		return types.GenericType{Primitive: types.Uninitialized, Name: te.Name, Index: idx, Span: te.Span}
	}
	out := types.GenericType{Primitive: types.Pointer, Name: te.Name, Span: te.Span}
	for _, g := range te.Generics {
		out.Generics = append(out.Generics, r.genericType(prog, g, generics))
	}
	return out
}

// reportNestedDeclarations walks into id looking for #global, #type and #import
// below the top level.
func (r *Registry) reportNestedDeclarations(prog *ast.Program, id ast.StmtID, nested bool) {
	st := prog.Stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtGlobal, ast.StmtType, ast.StmtImport:
		if nested {
			diag.ReportError(r.reporter, diag.APIDeclarationNotTopLevel, st.Span,
				"API declarations and imports are only allowed at the top level of a script.").Emit()
		}
	case ast.StmtScope:
		s, _ := prog.Stmts.Scope(id)
		for _, child := range s.Stmts {
			r.reportNestedDeclarations(prog, child, true)
		}
	case ast.StmtWhile:
		w, _ := prog.Stmts.While(id)
		r.reportNestedDeclarations(prog, w.Body, true)
	case ast.StmtFor:
		f, _ := prog.Stmts.For(id)
		r.reportNestedDeclarations(prog, f.Body, true)
	case ast.StmtDoWhile:
		d, _ := prog.Stmts.DoWhile(id)
		r.reportNestedDeclarations(prog, d.Body, true)
	case ast.StmtIf:
		i, _ := prog.Stmts.If(id)
		r.reportNestedDeclarations(prog, i.Then, true)
		r.reportNestedDeclarations(prog, i.Else, true)
	}
}
