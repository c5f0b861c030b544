package compiler

import (
	"mapl/internal/ast"
	"mapl/internal/bytecode"
	"mapl/internal/diag"
	"mapl/internal/types"
)

// compileExpr appends the bytecode of an expression whose value is consumed
// as expected. Constant subtrees are emitted as a single literal.
func (em *emitter) compileExpr(buf *bytecode.Buffer, id ast.ExprID, expected types.Type) {
	exprs := em.prog.Exprs
	expr := exprs.Get(id)
	if expr == nil {
		return
	}
	if !expected.Primitive.IsConcrete() {
		em.errorf(diag.IntErrorOpcode, expr.Span, "Internal compiler error. No concrete expected type for expression.")
		return
	}
	t := em.typeOf(id)
	if t.Primitive == types.TypeError {
		return
	}
	if !em.reg.IsAssignable(t, expected) {
		em.errorf(diag.TypMismatch, expr.Span, "Expression is required to be of type "+expected.String()+", but was "+t.String()+" instead.")
		return
	}
	if l := em.fold(id); l.IsConstant() {
		if l.Type.Primitive.IsAmbiguous() {
			l = em.castLiteral(l, expected, expr.Span)
		}
		buf.AppendLiteral(l, expr.Span)
		return
	}

	switch expr.Kind {
	case ast.ExprCast:
		c, _ := exprs.Cast(id)
		em.compileCast(buf, c, t, expr)
	case ast.ExprUnary:
		u, _ := exprs.Unary(id)
		switch u.Op {
		case ast.ExprUnaryNot:
			buf.AppendInstruction(bytecode.LogicalNegation)
			em.compileExpr(buf, u.Operand, types.Of(types.Boolean))
		case ast.ExprUnaryBitNot:
			buf.AppendInstruction(bytecode.BitNot(expected.Primitive))
			em.compileExpr(buf, u.Operand, expected)
		case ast.ExprUnaryNeg:
			buf.AppendInstruction(bytecode.Negate(expected.Primitive))
			em.compileExpr(buf, u.Operand, expected)
		}
	case ast.ExprBinary:
		b, _ := exprs.Binary(id)
		em.compileBinary(buf, b, expected)
	case ast.ExprTernary:
		tern, _ := exprs.Ternary(id)
		if cond, ok := em.constantCondition(tern.Cond); ok {
			if cond {
				em.compileExpr(buf, tern.Then, expected)
			} else {
				em.compileExpr(buf, tern.Else, expected)
			}
			return
		}
		buf.AppendInstruction(bytecode.Ternary(expected.Primitive))
		em.compileExpr(buf, tern.Cond, types.Of(types.Boolean))
		em.compileExpr(buf, tern.Then, expected)
		em.compileExpr(buf, tern.Else, expected)
	case ast.ExprGroup:
		g, _ := exprs.Group(id)
		em.compileExpr(buf, g.Inner, expected)
	default:
		em.compileObject(buf, id, false)
	}
}

func (em *emitter) compileCast(buf *bytecode.Buffer, c *ast.ExprCastData, to types.Type, expr *ast.Expr) {
	em.checkTypeExpr(c.Type)
	inner := em.typeOf(c.Value)
	if inner.Primitive == types.TypeError {
		return
	}
	switch {
	case inner.Primitive == to.Primitive:
		if to.Primitive == types.Pointer && !inner.IsNull() &&
			!em.reg.InheritsFrom(inner.Name, to.Name) && !em.reg.InheritsFrom(to.Name, inner.Name) {
			em.errorf(diag.TypMismatch, expr.Span, "Cast attempted between incompatible pointers. The types '"+
				inner.String()+"' and '"+to.String()+"' have no child/ancestor relationship.")
			return
		}
		em.compileExpr(buf, c.Value, inner)
	case to.Primitive == types.Pointer:
		em.errorf(diag.TypMismatch, expr.Span, "Cannot cast primitive "+inner.String()+" type to pointer type "+to.String()+".")
	case inner.Primitive == types.Pointer && to.Primitive != types.String:
		em.errorf(diag.TypMismatch, expr.Span, "Pointer types, like "+inner.String()+
			", can only be cast to other pointer types with a child/ancestor relationship or 'string'.")
	case inner.Primitive.IsAmbiguous():
		if !em.reg.IsAssignable(inner, to) {
			em.reportAmbiguous(diag.TypAmbiguousLiteral, inner.Primitive, expr.Span)
			return
		}
		em.compileExpr(buf, c.Value, to)
	default:
		buf.AppendInstruction(bytecode.Typecast(to.Primitive))
		em.compileExpr(buf, c.Value, inner)
	}
}

func (em *emitter) compileBinary(buf *bytecode.Buffer, b *ast.ExprBinaryData, expected types.Type) {
	p := expected.Primitive
	switch {
	case b.Op == ast.ExprBinaryLogicalAnd || b.Op == ast.ExprBinaryLogicalOr:
		op := bytecode.LogicalAnd
		if b.Op == ast.ExprBinaryLogicalOr {
			op = bytecode.LogicalOr
		}
		buf.AppendInstruction(op)
		em.compileExpr(buf, b.Left, types.Of(types.Boolean))
		em.compileExpr(buf, b.Right, types.Of(types.Boolean))
		return

	case b.Op == ast.ExprBinaryEq || b.Op == ast.ExprBinaryNotEq:
		rec := em.reconcileExpressions(b.Left, b.Right, b.OpSpan)
		if rec.Primitive == types.TypeError {
			return
		}
		if rec.Primitive.IsAmbiguous() {
			em.reportAmbiguous(diag.TypAmbiguousLiteral, rec.Primitive, b.OpSpan)
			return
		}
		op := bytecode.Equal(rec.Primitive)
		if b.Op == ast.ExprBinaryNotEq {
			op = bytecode.NotEqual(rec.Primitive)
		}
		buf.AppendInstruction(op)
		if rec.Primitive == types.Pointer {
			em.compileExpr(buf, b.Left, em.typeOf(b.Left))
			em.compileExpr(buf, b.Right, em.typeOf(b.Right))
			return
		}
		em.compileExpr(buf, b.Left, types.Of(rec.Primitive))
		em.compileExpr(buf, b.Right, types.Of(rec.Primitive))
		return

	case b.Op.IsComparison():
		rec := em.reconcileExpressions(b.Left, b.Right, b.OpSpan)
		if rec.Primitive == types.TypeError {
			return
		}
		if rec.Primitive.IsAmbiguous() {
			em.reportAmbiguous(diag.TypAmbiguousLiteral, rec.Primitive, b.OpSpan)
			return
		}
		if !rec.Primitive.IsNumeric() {
			em.errorf(diag.TypNotNumeric, b.OpSpan, "Both operands must be numeric.")
			return
		}
		var op bytecode.Instruction
		switch b.Op {
		case ast.ExprBinaryLess:
			op = bytecode.Less(rec.Primitive)
		case ast.ExprBinaryLessEq:
			op = bytecode.LessEqual(rec.Primitive)
		case ast.ExprBinaryGreater:
			op = bytecode.Greater(rec.Primitive)
		default:
			op = bytecode.GreaterEqual(rec.Primitive)
		}
		buf.AppendInstruction(op)
		em.compileExpr(buf, b.Left, types.Of(rec.Primitive))
		em.compileExpr(buf, b.Right, types.Of(rec.Primitive))
		return

	case b.Op == ast.ExprBinaryNullCoalescing:
		buf.AppendInstruction(bytecode.PointerNullCoalescing)
		em.compileExpr(buf, b.Left, expected)
		em.compileExpr(buf, b.Right, expected)
		return

	case b.Op == ast.ExprBinaryMul && p.IsIntegral():
		if shift := types.BitShift(convertTo(em.fold(b.Left), expected)); shift > 0 {
			buf.AppendInstruction(bytecode.ShiftLeft(p))
			em.compileExpr(buf, b.Right, expected)
			buf.AppendLiteral(shiftLiteral(shift, expected), b.OpSpan)
			return
		}
		if shift := types.BitShift(convertTo(em.fold(b.Right), expected)); shift > 0 {
			buf.AppendInstruction(bytecode.ShiftLeft(p))
			em.compileExpr(buf, b.Left, expected)
			buf.AppendLiteral(shiftLiteral(shift, expected), b.OpSpan)
			return
		}

	case b.Op == ast.ExprBinaryDiv && p.IsConcreteFloat():
		if r := em.fold(b.Right); r.IsConstant() {
			buf.AppendInstruction(bytecode.Multiply(p))
			em.compileExpr(buf, b.Left, expected)
			buf.AppendLiteral(reciprocal(em.castLiteral(r, expected, b.OpSpan)), b.OpSpan)
			return
		}

	case b.Op == ast.ExprBinaryDiv && p.IsConcreteUnsignedInt():
		if shift := types.BitShift(convertTo(em.fold(b.Right), expected)); shift > 0 {
			buf.AppendInstruction(bytecode.ShiftRight(p))
			em.compileExpr(buf, b.Left, expected)
			buf.AppendLiteral(shiftLiteral(shift, expected), b.OpSpan)
			return
		}
	}

	buf.AppendInstruction(arithmeticInstruction(b.Op, p))
	em.compileExpr(buf, b.Left, expected)
	em.compileExpr(buf, b.Right, expected)
}

func arithmeticInstruction(op ast.ExprBinaryOp, p types.Primitive) bytecode.Instruction {
	switch op {
	case ast.ExprBinaryAdd:
		return bytecode.Add(p)
	case ast.ExprBinarySub:
		return bytecode.Subtract(p)
	case ast.ExprBinaryMul:
		return bytecode.Multiply(p)
	case ast.ExprBinaryDiv:
		return bytecode.Divide(p)
	case ast.ExprBinaryMod:
		return bytecode.Modulo(p)
	case ast.ExprBinaryBitAnd:
		return bytecode.BitAnd(p)
	case ast.ExprBinaryBitOr:
		return bytecode.BitOr(p)
	case ast.ExprBinaryBitXor:
		return bytecode.BitXor(p)
	case ast.ExprBinaryShiftLeft:
		return bytecode.ShiftLeft(p)
	case ast.ExprBinaryShiftRight:
		return bytecode.ShiftRight(p)
	}
	return bytecode.Error
}

// convertTo casts a constant without reporting. Non-constants pass through.
func convertTo(l types.Literal, to types.Type) types.Literal {
	if !l.IsConstant() {
		return l
	}
	out, _ := types.Cast(l, to)
	return out
}
