package compiler

import (
	"mapl/internal/ast"
	"mapl/internal/bytecode"
	"mapl/internal/types"
)

// Layout of a loop:
//
//	[conditional cond skip:u16] body [step] cursor-move-back distance:u16
//
// The conditional header is dropped when the condition is constant true.
// skip covers the body plus the trailing cursor move.
const cursorMoveSize = 1 + 2

func (em *emitter) compileWhile(buf *bytecode.Buffer, w *ast.StmtWhileData, st *ast.Stmt) {
	cond, constant := em.constantCondition(w.Cond)
	if constant && !cond {
		return
	}
	scope := em.newBuffer()
	em.compileStmt(scope, w.Body)

	loop := em.newBuffer()
	if !constant {
		loop.AppendInstruction(bytecode.Conditional)
		em.compileExpr(loop, w.Cond, types.Of(types.Boolean))
		loop.AppendLength(scope.Len()+cursorMoveSize, st.Span)
	}
	loop.AppendBufferRelocated(scope, 0, nil)
	loop.AppendInstruction(bytecode.CursorMoveBack)
	loop.AppendLength(loop.Len()+2, st.Span)

	loop.ResolveControlFlow(bytecode.AnnotationBreak, true)
	loop.ResolveControlFlow(bytecode.AnnotationContinue, false)
	buf.AppendBufferRelocated(loop, 0, nil)
}

func (em *emitter) compileFor(buf *bytecode.Buffer, f *ast.StmtForData, st *ast.Stmt) {
	// The loop variable gets a frame of its own around the body's scope.
	em.vars.Push()
	defer em.popScope(buf)

	if f.Init.IsValid() {
		em.compileStmt(buf, f.Init)
	}
	cond, constant := true, true
	if f.Cond.IsValid() {
		cond, constant = em.constantCondition(f.Cond)
	}
	if constant && !cond {
		return
	}

	scope := em.newBuffer()
	em.compileStmt(scope, f.Body)
	scope.ResolveControlFlow(bytecode.AnnotationContinue, true)
	if f.Step.IsValid() {
		em.compileStmt(scope, f.Step)
	}

	loop := em.newBuffer()
	if !constant {
		loop.AppendInstruction(bytecode.Conditional)
		em.compileExpr(loop, f.Cond, types.Of(types.Boolean))
		loop.AppendLength(scope.Len()+cursorMoveSize, st.Span)
	}
	loop.AppendBufferRelocated(scope, 0, nil)
	loop.AppendInstruction(bytecode.CursorMoveBack)
	loop.AppendLength(loop.Len()+2, st.Span)

	loop.ResolveControlFlow(bytecode.AnnotationBreak, true)
	buf.AppendBufferRelocated(loop, 0, nil)
}

// compileDoWhile tests the condition after the body:
//
//	body [conditional cond 3] cursor-move-back distance:u16
func (em *emitter) compileDoWhile(buf *bytecode.Buffer, d *ast.StmtDoWhileData, st *ast.Stmt) {
	loop := em.newBuffer()
	em.compileStmt(loop, d.Body)
	loop.ResolveControlFlow(bytecode.AnnotationContinue, true)

	cond, constant := em.constantCondition(d.Cond)
	if constant && !cond {
		loop.ResolveControlFlow(bytecode.AnnotationBreak, true)
		buf.AppendBufferRelocated(loop, 0, nil)
		return
	}
	if !constant {
		loop.AppendInstruction(bytecode.Conditional)
		em.compileExpr(loop, d.Cond, types.Of(types.Boolean))
		loop.AppendLength(cursorMoveSize, st.Span)
	}
	loop.AppendInstruction(bytecode.CursorMoveBack)
	loop.AppendLength(loop.Len()+2, st.Span)

	loop.ResolveControlFlow(bytecode.AnnotationBreak, true)
	buf.AppendBufferRelocated(loop, 0, nil)
}

// compileIf emits
//
//	conditional cond skip:u16 then [cursor-move-forward len(else):u16] else
//
// A constant condition keeps only the branch that runs.
func (em *emitter) compileIf(buf *bytecode.Buffer, i *ast.StmtIfData, st *ast.Stmt) {
	if cond, ok := em.constantCondition(i.Cond); ok {
		switch {
		case cond:
			em.compileStmt(buf, i.Then)
		case i.Else.IsValid():
			em.compileStmt(buf, i.Else)
		}
		return
	}
	buf.AppendInstruction(bytecode.Conditional)
	em.compileExpr(buf, i.Cond, types.Of(types.Boolean))

	scope := em.newBuffer()
	em.compileStmt(scope, i.Then)
	els := em.newBuffer()
	if i.Else.IsValid() {
		em.compileStmt(els, i.Else)
	}
	if els.Len() > 0 {
		scope.AppendInstruction(bytecode.CursorMoveForward)
		scope.AppendLength(els.Len(), st.Span)
	}
	buf.AppendLength(scope.Len(), st.Span)
	buf.AppendBufferRelocated(scope, 0, nil)
	buf.AppendBufferRelocated(els, 0, nil)
}
