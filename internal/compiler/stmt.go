package compiler

import (
	"mapl/internal/ast"
	"mapl/internal/bytecode"
	"mapl/internal/diag"
	"mapl/internal/types"
	"mapl/internal/varstack"
)

// compileStmt appends the bytecode of one statement.
func (em *emitter) compileStmt(buf *bytecode.Buffer, id ast.StmtID) {
	stmts := em.prog.Stmts
	st := stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtVarDecl, ast.StmtAssign, ast.StmtUnary, ast.StmtExpr,
		ast.StmtBreak, ast.StmtContinue, ast.StmtExit:
		em.debugLine(buf, st.Span)
	}

	switch st.Kind {
	case ast.StmtVarDecl:
		d, _ := stmts.VarDecl(id)
		em.compileVarDecl(buf, d)
	case ast.StmtAssign:
		a, _ := stmts.Assign(id)
		em.compileAssign(buf, a)
	case ast.StmtUnary:
		u, _ := stmts.Unary(id)
		em.compileIncrement(buf, u, st)
	case ast.StmtExpr:
		e, _ := stmts.Expr(id)
		em.compileExprStmt(buf, e.Expr)
	case ast.StmtBreak, ast.StmtContinue:
		em.compileJump(buf, id, st)
	case ast.StmtExit:
		buf.AppendInstruction(bytecode.ProgramExit)
	case ast.StmtMetadata:
		m, _ := stmts.Metadata(id)
		buf.AppendInstruction(bytecode.Metadata)
		buf.AppendString(m.Text, st.Span)
	case ast.StmtScope:
		s, _ := stmts.Scope(id)
		em.vars.Push()
		for _, child := range s.Stmts {
			em.compileStmt(buf, child)
		}
		em.popScope(buf)
	case ast.StmtWhile:
		w, _ := stmts.While(id)
		em.compileWhile(buf, w, st)
	case ast.StmtFor:
		f, _ := stmts.For(id)
		em.compileFor(buf, f, st)
	case ast.StmtDoWhile:
		d, _ := stmts.DoWhile(id)
		em.compileDoWhile(buf, d, st)
	case ast.StmtIf:
		i, _ := stmts.If(id)
		em.compileIf(buf, i, st)
	case ast.StmtGlobal, ast.StmtType, ast.StmtImport:
		// API declarations and imports are handled before emission.
	}
}

func (em *emitter) compileVarDecl(buf *bytecode.Buffer, d *ast.StmtVarDeclData) {
	if em.reg.FindGlobalProperty(d.Name) != nil {
		em.errorf(diag.APIDuplicateVariable, d.NameSpan,
			"Variable with name '"+d.Name+"' conflicts with global property of the same name.")
	}
	em.checkTypeExpr(d.Type)
	v, ok := em.vars.Declare(varstack.Variable{
		Name: d.Name,
		Type: em.typeFromExpr(d.Type),
		File: em.unit.Path,
		Span: d.NameSpan,
	})
	if !ok || !d.Value.IsValid() {
		return
	}
	em.appendAssignHeader(buf, v)
	em.compileExpr(buf, d.Value, v.Type)
	em.debugUpdate(buf, v)
}

// compileExprStmt accepts only calls; every other expression used as a
// statement is a no-op.
func (em *emitter) compileExprStmt(buf *bytecode.Buffer, id ast.ExprID) {
	if em.typeOf(id).Primitive == types.TypeError {
		return
	}
	exprs := em.prog.Exprs
	expr := exprs.Get(id)
	isCall := expr.Kind == ast.ExprCall
	if m, ok := exprs.Member(id); ok && m.IsCall {
		isCall = true
	}
	if !isCall {
		em.errorf(diag.TypNoEffect, expr.Span, "This expression has no effect.")
		return
	}
	em.compileObject(buf, id, true)
}

func (em *emitter) compileJump(buf *bytecode.Buffer, id ast.StmtID, st *ast.Stmt) {
	kind, word := bytecode.AnnotationBreak, "Break"
	if st.Kind == ast.StmtContinue {
		kind, word = bytecode.AnnotationContinue, "Continue"
	}
	if em.prog.Stmts.EnclosingLoop(id) == ast.NoStmtID {
		em.errorf(diag.TypOutsideLoop, st.Span, word+" statements can only be used within loops.")
		return
	}
	// The cursor move and its distance are filled in when the loop resolves.
	buf.AddAnnotation(kind, "")
	buf.AppendInstruction(bytecode.Placeholder)
	buf.AppendUint16(0)
}
