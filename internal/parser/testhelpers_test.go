package parser

import (
	"fmt"
	"strings"
	"testing"

	"mapl/internal/ast"
	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/testkit"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes, Fixes: fixes})
}

func (r *testReporter) summary() string {
	if len(r.diagnostics) == 0 {
		return "<none>"
	}
	lines := make([]string, len(r.diagnostics))
	for i, d := range r.diagnostics {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, src string) (*ast.Program, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mapl", []byte(src))
	rep := &testReporter{}
	res := Parse(fs.Get(id), rep)
	if err := testkit.CheckSpanInvariants(res.Program, fs.Get(id)); err != nil {
		t.Fatalf("span invariants for %q: %v", src, err)
	}
	return res.Program, rep
}

// parseOK разбирает исходник и падает при любой диагностике
func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, rep := parseSource(t, src)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics for %q: %s", src, rep.summary())
	}
	return prog
}

// renderExpr печатает выражение в префиксной форме для сравнения структуры.
func renderExpr(prog *ast.Program, id ast.ExprID) string {
	ex := prog.Exprs
	switch ex.Get(id).Kind {
	case ast.ExprLit:
		lit, _ := ex.Literal(id)
		return lit.Text
	case ast.ExprIdent:
		d, _ := ex.Ident(id)
		return d.Name
	case ast.ExprCall:
		d, _ := ex.Call(id)
		return d.Name + "(" + renderList(prog, d.Args) + ")"
	case ast.ExprMember:
		d, _ := ex.Member(id)
		s := renderExpr(prog, d.Object) + "." + d.Name
		if d.IsCall {
			s += "(" + renderList(prog, d.Args) + ")"
		}
		return s
	case ast.ExprIndex:
		d, _ := ex.Index(id)
		return renderExpr(prog, d.Object) + "[" + renderExpr(prog, d.Index) + "]"
	case ast.ExprCast:
		d, _ := ex.Cast(id)
		return "(cast " + renderType(prog, d.Type) + " " + renderExpr(prog, d.Value) + ")"
	case ast.ExprUnary:
		d, _ := ex.Unary(id)
		return "(" + d.Op.String() + " " + renderExpr(prog, d.Operand) + ")"
	case ast.ExprBinary:
		d, _ := ex.Binary(id)
		return "(" + d.Op.String() + " " + renderExpr(prog, d.Left) + " " + renderExpr(prog, d.Right) + ")"
	case ast.ExprTernary:
		d, _ := ex.Ternary(id)
		return "(? " + renderExpr(prog, d.Cond) + " " + renderExpr(prog, d.Then) + " " + renderExpr(prog, d.Else) + ")"
	case ast.ExprGroup:
		d, _ := ex.Group(id)
		return "{" + renderExpr(prog, d.Inner) + "}"
	}
	return "<?>"
}

func renderList(prog *ast.Program, ids []ast.ExprID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = renderExpr(prog, id)
	}
	return strings.Join(parts, ", ")
}

func renderType(prog *ast.Program, id ast.TypeID) string {
	if id == ast.NoTypeID {
		return "void"
	}
	t := prog.Types.Get(id)
	if !t.IsPointer() {
		return t.Keyword.String()
	}
	if len(t.Generics) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Generics))
	for i, g := range t.Generics {
		parts[i] = renderType(prog, g)
	}
	return t.Name + "<" + strings.Join(parts, ",") + ">"
}

// initExpr возвращает инициализатор первого объявления переменной.
func initExpr(t *testing.T, prog *ast.Program) ast.ExprID {
	t.Helper()
	if len(prog.File.Stmts) == 0 {
		t.Fatal("no statements")
	}
	decl, ok := prog.Stmts.VarDecl(prog.File.Stmts[0])
	if !ok {
		t.Fatalf("first statement is %v, want var decl", prog.Stmts.Get(prog.File.Stmts[0]).Kind)
	}
	return decl.Value
}
