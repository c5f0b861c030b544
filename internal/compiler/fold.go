package compiler

import (
	"cmp"
	"math"
	"strconv"

	"mapl/internal/ast"
	"mapl/internal/token"
	"mapl/internal/types"
)

// fold evaluates an expression at compile time. Anything that depends on
// runtime state yields types.NotConstant.
func (em *emitter) fold(id ast.ExprID) types.Literal {
	exprs := em.prog.Exprs
	expr := exprs.Get(id)
	if expr == nil {
		return types.NotConstant
	}
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := exprs.Literal(id)
		return literalValue(lit)

	case ast.ExprGroup:
		g, _ := exprs.Group(id)
		return em.fold(g.Inner)

	case ast.ExprCast:
		c, _ := exprs.Cast(id)
		inner := em.fold(c.Value)
		to := em.typeFromExpr(c.Type)
		if !inner.IsConstant() || inner.Type.Primitive == types.Pointer || to.Primitive == types.Pointer {
			return types.NotConstant
		}
		out := em.castLiteral(inner, to, expr.Span)
		if out.Type.Primitive == types.TypeError {
			return types.NotConstant
		}
		return out

	case ast.ExprUnary:
		u, _ := exprs.Unary(id)
		v := em.fold(u.Operand)
		if !v.IsConstant() {
			return types.NotConstant
		}
		switch u.Op {
		case ast.ExprUnaryNot:
			if v.Type.Primitive == types.Boolean {
				return types.BoolLiteral(!v.Bool)
			}
		case ast.ExprUnaryNeg:
			return negate(v)
		case ast.ExprUnaryBitNot:
			return bitNot(v)
		}
		return types.NotConstant

	case ast.ExprBinary:
		b, _ := exprs.Binary(id)
		return em.foldBinary(b)

	case ast.ExprTernary:
		t, _ := exprs.Ternary(id)
		cond := em.fold(t.Cond)
		if cond.Type.Primitive != types.Boolean {
			return types.NotConstant
		}
		if cond.Bool {
			return em.fold(t.Then)
		}
		return em.fold(t.Else)
	}
	return types.NotConstant
}

// constantCondition reports the value of a condition that folds to a bool.
func (em *emitter) constantCondition(id ast.ExprID) (value, ok bool) {
	l := em.fold(id)
	if l.Type.Primitive != types.Boolean {
		return false, false
	}
	return l.Bool, true
}

func literalValue(lit *ast.ExprLiteralData) types.Literal {
	switch lit.Kind {
	case token.IntLit:
		v, err := strconv.ParseUint(lit.Text, 10, 64)
		if err != nil {
			return types.NotConstant
		}
		return types.IntLiteral(v)
	case token.FloatLit:
		v, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return types.NotConstant
		}
		return types.FloatLiteral(v)
	case token.StringLit:
		return types.StringLiteral(unquote(lit.Text))
	case token.KwTrue:
		return types.BoolLiteral(true)
	case token.KwFalse:
		return types.BoolLiteral(false)
	case token.KwNull:
		return types.NullLiteral()
	}
	return types.NotConstant
}

func isBool(l types.Literal, v bool) bool {
	return l.Type.Primitive == types.Boolean && l.Bool == v
}

func (em *emitter) foldBinary(b *ast.ExprBinaryData) types.Literal {
	if b.Op == ast.ExprBinaryNullCoalescing {
		// NULL ?? x is x; any other constant pointer is NULL as well
		if l := em.fold(b.Left); l.IsConstant() && l.Type.Primitive == types.Pointer {
			return em.fold(b.Right)
		}
		return types.NotConstant
	}
	l, r := em.fold(b.Left), em.fold(b.Right)
	switch b.Op {
	case ast.ExprBinaryLogicalAnd:
		if isBool(l, false) || isBool(r, false) {
			return types.BoolLiteral(false)
		}
		if isBool(l, true) && isBool(r, true) {
			return types.BoolLiteral(true)
		}
		return types.NotConstant
	case ast.ExprBinaryLogicalOr:
		if isBool(l, true) || isBool(r, true) {
			return types.BoolLiteral(true)
		}
		if isBool(l, false) && isBool(r, false) {
			return types.BoolLiteral(false)
		}
		return types.NotConstant
	}
	if !l.IsConstant() || !r.IsConstant() {
		return types.NotConstant
	}
	lp, rp := l.Type.Primitive, r.Type.Primitive

	switch {
	case b.Op == ast.ExprBinaryEq || b.Op == ast.ExprBinaryNotEq:
		if lp != types.Boolean || rp != types.Boolean {
			return types.NotConstant
		}
		return types.BoolLiteral((l.Bool == r.Bool) == (b.Op == ast.ExprBinaryEq))
	case b.Op.IsComparison():
		if !lp.IsNumeric() || !rp.IsNumeric() {
			return types.NotConstant
		}
		p := reconcilePrimitives(lp, rp)
		if p == types.TypeError {
			return types.NotConstant
		}
		v, ok := compareLiterals(b.Op, p, convert(l, p), convert(r, p))
		if !ok {
			return types.NotConstant
		}
		return types.BoolLiteral(v)
	case b.Op == ast.ExprBinaryAdd && lp == types.String && rp == types.String:
		return types.StringLiteral(l.Str + r.Str)
	case b.Op.IsBitwise():
		if !lp.IsIntegral() || !rp.IsIntegral() {
			return types.NotConstant
		}
	default:
		if !lp.IsNumeric() || !rp.IsNumeric() {
			return types.NotConstant
		}
	}
	p := reconcilePrimitives(lp, rp)
	if p == types.TypeError {
		return types.NotConstant
	}
	return applyBinary(b.Op, p, convert(l, p), convert(r, p))
}

func convert(l types.Literal, p types.Primitive) types.Literal {
	out, _ := types.Cast(l, types.Of(p))
	return out
}

func negate(v types.Literal) types.Literal {
	switch v.Type.Primitive {
	case types.Int32:
		v.Int32 = -v.Int32
	case types.Int64, types.SignedIntAmbiguous:
		v.Int64 = -v.Int64
	case types.Float32:
		v.Float32 = -v.Float32
	case types.Float64, types.FloatAmbiguous:
		v.Float64 = -v.Float64
	case types.IntAmbiguous:
		s := convert(v, types.SignedIntAmbiguous)
		s.Int64 = -s.Int64
		return s
	default:
		return types.NotConstant
	}
	return v
}

func bitNot(v types.Literal) types.Literal {
	switch v.Type.Primitive {
	case types.Char:
		v.Char = ^v.Char
	case types.Int32:
		v.Int32 = ^v.Int32
	case types.Int64, types.SignedIntAmbiguous:
		v.Int64 = ^v.Int64
	case types.UInt32:
		v.UInt32 = ^v.UInt32
	case types.UInt64, types.IntAmbiguous:
		v.UInt64 = ^v.UInt64
	default:
		return types.NotConstant
	}
	return v
}

type integer interface {
	~uint8 | ~int32 | ~int64 | ~uint32 | ~uint64
}

func intOp[T integer](op ast.ExprBinaryOp, a, b T) (T, bool) {
	switch op {
	case ast.ExprBinaryAdd:
		return a + b, true
	case ast.ExprBinarySub:
		return a - b, true
	case ast.ExprBinaryMul:
		return a * b, true
	case ast.ExprBinaryDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case ast.ExprBinaryMod:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case ast.ExprBinaryBitAnd:
		return a & b, true
	case ast.ExprBinaryBitOr:
		return a | b, true
	case ast.ExprBinaryBitXor:
		return a ^ b, true
	case ast.ExprBinaryShiftLeft:
		if b < 0 {
			return 0, false
		}
		return a << b, true
	case ast.ExprBinaryShiftRight:
		if b < 0 {
			return 0, false
		}
		return a >> b, true
	}
	return 0, false
}

func floatOp[T float32 | float64](op ast.ExprBinaryOp, a, b T) (T, bool) {
	switch op {
	case ast.ExprBinaryAdd:
		return a + b, true
	case ast.ExprBinarySub:
		return a - b, true
	case ast.ExprBinaryMul:
		return a * b, true
	case ast.ExprBinaryDiv:
		return a / b, true
	case ast.ExprBinaryMod:
		return T(math.Mod(float64(a), float64(b))), true
	}
	return 0, false
}

func compare[T cmp.Ordered](op ast.ExprBinaryOp, a, b T) (bool, bool) {
	switch op {
	case ast.ExprBinaryLess:
		return a < b, true
	case ast.ExprBinaryLessEq:
		return a <= b, true
	case ast.ExprBinaryGreater:
		return a > b, true
	case ast.ExprBinaryGreaterEq:
		return a >= b, true
	case ast.ExprBinaryEq:
		return a == b, true
	case ast.ExprBinaryNotEq:
		return a != b, true
	}
	return false, false
}

// applyBinary computes a op b for operands already converted to p.
func applyBinary(op ast.ExprBinaryOp, p types.Primitive, a, b types.Literal) types.Literal {
	out := types.Literal{Type: types.Of(p)}
	var ok bool
	switch p {
	case types.Char:
		out.Char, ok = intOp(op, a.Char, b.Char)
	case types.Int32:
		out.Int32, ok = intOp(op, a.Int32, b.Int32)
	case types.Int64, types.SignedIntAmbiguous:
		out.Int64, ok = intOp(op, a.Int64, b.Int64)
	case types.UInt32:
		out.UInt32, ok = intOp(op, a.UInt32, b.UInt32)
	case types.UInt64, types.IntAmbiguous:
		out.UInt64, ok = intOp(op, a.UInt64, b.UInt64)
	case types.Float32:
		out.Float32, ok = floatOp(op, a.Float32, b.Float32)
	case types.Float64, types.FloatAmbiguous:
		out.Float64, ok = floatOp(op, a.Float64, b.Float64)
	}
	if !ok {
		return types.NotConstant
	}
	return out
}

func compareLiterals(op ast.ExprBinaryOp, p types.Primitive, a, b types.Literal) (bool, bool) {
	switch p {
	case types.Char:
		return compare(op, a.Char, b.Char)
	case types.Int32:
		return compare(op, a.Int32, b.Int32)
	case types.Int64, types.SignedIntAmbiguous:
		return compare(op, a.Int64, b.Int64)
	case types.UInt32:
		return compare(op, a.UInt32, b.UInt32)
	case types.UInt64, types.IntAmbiguous:
		return compare(op, a.UInt64, b.UInt64)
	case types.Float32:
		return compare(op, a.Float32, b.Float32)
	case types.Float64, types.FloatAmbiguous:
		return compare(op, a.Float64, b.Float64)
	}
	return false, false
}
