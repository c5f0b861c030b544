package compiler

import (
	"mapl/internal/api"
	"mapl/internal/ast"
	"mapl/internal/bytecode"
	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/token"
	"mapl/internal/types"
	"mapl/internal/varstack"
)

func (em *emitter) compileAssign(buf *bytecode.Buffer, a *ast.StmtAssignData) {
	target := em.prog.Exprs.Unparen(a.Target)
	if ident, ok := em.prog.Exprs.Ident(target); ok {
		if v, ok := em.vars.Lookup(ident.Name); ok {
			em.assignVariable(buf, v, a)
			return
		}
	}
	ret, ok := em.objectAssignHeader(buf, target, a.Op, a.OpSpan)
	if !ok {
		return
	}
	if instr, lit, ok := em.reduction(a.Op, ret, a.Value); ok {
		buf.AppendInstruction(instr)
		buf.AppendLiteral(lit, a.OpSpan)
		return
	}
	buf.AppendInstruction(operatorInstruction(a.Op, ret.Primitive))
	em.compileExpr(buf, a.Value, ret)
}

// assignVariable rewrites "x op= e" as "x = x op e".
func (em *emitter) assignVariable(buf *bytecode.Buffer, v varstack.Variable, a *ast.StmtAssignData) {
	p := v.Type.Primitive
	if a.Op == token.Assign {
		em.appendAssignHeader(buf, v)
		em.compileExpr(buf, a.Value, v.Type)
		em.debugUpdate(buf, v)
		return
	}
	if !em.operatorApplies(a.Op, p, a.OpSpan) {
		return
	}
	if instr, lit, ok := em.reduction(a.Op, v.Type, a.Value); ok {
		em.appendAssignHeader(buf, v)
		buf.AppendInstruction(instr)
		em.appendVariable(buf, v)
		buf.AppendLiteral(lit, a.OpSpan)
		em.debugUpdate(buf, v)
		return
	}
	em.appendAssignHeader(buf, v)
	buf.AppendInstruction(operatorInstruction(a.Op, p))
	em.appendVariable(buf, v)
	em.compileExpr(buf, a.Value, v.Type)
	em.debugUpdate(buf, v)
}

// compileIncrement handles "x++" and "x--" as an assignment of x plus or minus 1.
func (em *emitter) compileIncrement(buf *bytecode.Buffer, u *ast.StmtUnaryData, st *ast.Stmt) {
	target := em.prog.Exprs.Unparen(u.Target)
	if ident, ok := em.prog.Exprs.Ident(target); ok {
		if v, ok := em.vars.Lookup(ident.Name); ok {
			if !em.operatorApplies(u.Op, v.Type.Primitive, st.Span) {
				return
			}
			em.appendAssignHeader(buf, v)
			buf.AppendInstruction(operatorInstruction(u.Op, v.Type.Primitive))
			em.appendVariable(buf, v)
			buf.AppendLiteral(em.castLiteral(types.IntLiteral(1), v.Type, st.Span), st.Span)
			em.debugUpdate(buf, v)
			return
		}
	}
	ret, ok := em.objectAssignHeader(buf, target, u.Op, st.Span)
	if !ok {
		return
	}
	buf.AppendInstruction(operatorInstruction(u.Op, ret.Primitive))
	buf.AppendLiteral(em.castLiteral(types.IntLiteral(1), ret, st.Span), st.Span)
}

// objectAssignHeader emits the destination of an assignment to a property or
// subscript and returns the destination type. Nothing is emitted when the
// target cannot be assigned with op.
func (em *emitter) objectAssignHeader(buf *bytecode.Buffer, target ast.ExprID, op token.Kind, opSpan source.Span) (types.Type, bool) {
	ret := em.typeOf(target)
	if ret.Primitive == types.TypeError {
		return ret, false
	}
	exprs := em.prog.Exprs
	expr := exprs.Get(target)
	const readonly = "Attempted to assign a value to a read-only expression."

	switch expr.Kind {
	case ast.ExprIndex:
		ix, _ := exprs.Index(target)
		prefix := em.typeOf(ix.Object)
		s := em.reg.FindSubscript(prefix.Name, em.typeOf(ix.Index), prefix.Generics, nil)
		if s.Readonly {
			em.errorf(diag.TypReadonly, opSpan, readonly)
			return ret, false
		}
		if !em.operatorApplies(op, ret.Primitive, opSpan) {
			return ret, false
		}
		buf.AppendInstruction(bytecode.AssignSubscript)
		em.compilePrefix(buf, ix.Object)
		em.compileExpr(buf, ix.Index, s.Index.Substitute(em.genericsFor(prefix, s.Owner)))
		return ret, true

	case ast.ExprIdent, ast.ExprMember:
		object := ast.NoExprID
		var p *api.Property
		if m, ok := exprs.Member(target); ok {
			if m.IsCall {
				break
			}
			object = m.Object
			p = em.reg.FindTypeProperty(em.typeOf(m.Object).Name, m.Name, nil)
		} else {
			ident, _ := exprs.Ident(target)
			p = em.reg.FindGlobalProperty(ident.Name)
		}
		if p.Readonly {
			em.errorf(diag.TypReadonly, opSpan, readonly)
			return ret, false
		}
		if !em.operatorApplies(op, ret.Primitive, opSpan) {
			return ret, false
		}
		buf.AppendInstruction(bytecode.AssignProperty)
		em.appendPrefixOrNoOp(buf, object)
		buf.AddAnnotation(bytecode.AnnotationSymbol, p.SymbolDescriptor())
		buf.AppendUint16(0)
		return ret, true
	}
	em.errorf(diag.TypReadonly, expr.Span, readonly)
	return ret, false
}

// operatorApplies reports an assignment operator used on a type it cannot change.
func (em *emitter) operatorApplies(op token.Kind, p types.Primitive, at source.Span) bool {
	switch op {
	case token.PlusAssign:
		if p.IsNumeric() || p == types.String {
			return true
		}
		em.errorf(diag.TypOperatorMismatch, at, "This operator can only be used on numeric or string expressions.")
		return false
	case token.MinusAssign, token.StarAssign, token.SlashAssign, token.PercentAssign, token.PlusPlus, token.MinusMinus:
		if p.IsNumeric() {
			return true
		}
		em.errorf(diag.TypOperatorMismatch, at, "This operator can only be used on numeric expressions.")
		return false
	case token.AmpAssign, token.PipeAssign, token.CaretAssign, token.ShlAssign, token.ShrAssign:
		if p.IsIntegral() {
			return true
		}
		em.errorf(diag.TypOperatorMismatch, at, "This operator can only be used on integral expressions.")
		return false
	}
	return true
}

// operatorInstruction is the arithmetic applied between the old value and the
// assigned expression. Plain assignment has none.
func operatorInstruction(op token.Kind, p types.Primitive) bytecode.Instruction {
	switch op {
	case token.Assign:
		return bytecode.NoOp
	case token.PlusAssign, token.PlusPlus:
		return bytecode.Add(p)
	case token.MinusAssign, token.MinusMinus:
		return bytecode.Subtract(p)
	case token.StarAssign:
		return bytecode.Multiply(p)
	case token.SlashAssign:
		return bytecode.Divide(p)
	case token.PercentAssign:
		return bytecode.Modulo(p)
	case token.AmpAssign:
		return bytecode.BitAnd(p)
	case token.PipeAssign:
		return bytecode.BitOr(p)
	case token.CaretAssign:
		return bytecode.BitXor(p)
	case token.ShlAssign:
		return bytecode.ShiftLeft(p)
	case token.ShrAssign:
		return bytecode.ShiftRight(p)
	}
	return bytecode.Error
}

// reduction rewrites "/=" and "*=" by a constant into a cheaper operation:
// float division becomes multiplication by the reciprocal, and unsigned
// division or integral multiplication by a power of two becomes a shift.
func (em *emitter) reduction(op token.Kind, to types.Type, value ast.ExprID) (bytecode.Instruction, types.Literal, bool) {
	if op != token.SlashAssign && op != token.StarAssign {
		return bytecode.Error, types.NotConstant, false
	}
	t := em.typeOf(value)
	if t.Primitive == types.TypeError || !em.reg.IsAssignable(t, to) {
		return bytecode.Error, types.NotConstant, false
	}
	l := em.fold(value)
	if !l.IsConstant() {
		return bytecode.Error, types.NotConstant, false
	}
	c, err := types.Cast(l, to)
	if err != nil || c.Type.Primitive == types.TypeError {
		return bytecode.Error, types.NotConstant, false
	}
	p := to.Primitive
	switch {
	case op == token.SlashAssign && p.IsConcreteFloat():
		return bytecode.Multiply(p), reciprocal(c), true
	case op == token.SlashAssign && p.IsConcreteUnsignedInt():
		if shift := types.BitShift(c); shift > 0 {
			return bytecode.ShiftRight(p), shiftLiteral(shift, to), true
		}
	case op == token.StarAssign && p.IsIntegral():
		if shift := types.BitShift(c); shift > 0 {
			return bytecode.ShiftLeft(p), shiftLiteral(shift, to), true
		}
	}
	return bytecode.Error, types.NotConstant, false
}
