package compiler

import (
	"strconv"
	"strings"

	"mapl/internal/api"
	"mapl/internal/ast"
	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/token"
	"mapl/internal/types"
)

var typeError = types.Of(types.TypeError)

// typeOf returns the static type of an expression. Every problem is reported
// once, where it occurs; enclosing expressions see TypeError and stay quiet.
func (em *emitter) typeOf(id ast.ExprID) types.Type {
	if t, ok := em.typed[id]; ok {
		return t
	}
	t := em.inferType(id)
	em.typed[id] = t
	return t
}

func (em *emitter) inferType(id ast.ExprID) types.Type {
	exprs := em.prog.Exprs
	expr := exprs.Get(id)
	if expr == nil {
		return typeError
	}
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := exprs.Literal(id)
		return em.literalType(lit, expr.Span)
	case ast.ExprGroup:
		g, _ := exprs.Group(id)
		return em.typeOf(g.Inner)
	case ast.ExprCast:
		c, _ := exprs.Cast(id)
		return em.typeFromExpr(c.Type)
	case ast.ExprUnary:
		u, _ := exprs.Unary(id)
		return em.unaryType(u, expr.Span)
	case ast.ExprBinary:
		b, _ := exprs.Binary(id)
		return em.binaryType(b)
	case ast.ExprTernary:
		t, _ := exprs.Ternary(id)
		return em.reconcileExpressions(t.Then, t.Else, expr.Span)
	default:
		return em.objectType(id)
	}
}

func (em *emitter) literalType(lit *ast.ExprLiteralData, at source.Span) types.Type {
	switch lit.Kind {
	case token.IntLit:
		if _, err := strconv.ParseUint(lit.Text, 10, 64); err != nil {
			em.errorf(diag.RngOutOfRange, at, "The integer literal "+lit.Text+" does not fit in 64 bits.")
			return typeError
		}
		return types.Of(types.IntAmbiguous)
	case token.FloatLit:
		return types.Of(types.FloatAmbiguous)
	case token.StringLit:
		return types.Of(types.String)
	case token.KwTrue, token.KwFalse:
		return types.Of(types.Boolean)
	case token.KwNull:
		return types.Null()
	}
	return typeError
}

func (em *emitter) unaryType(u *ast.ExprUnaryData, at source.Span) types.Type {
	if u.Op == ast.ExprUnaryNot {
		return types.Of(types.Boolean)
	}
	t := em.typeOf(u.Operand)
	p := t.Primitive
	if p == types.TypeError {
		return t
	}
	if u.Op == ast.ExprUnaryBitNot {
		if p.IsIntegral() {
			return t
		}
		em.errorf(diag.TypNotIntegral, at, "Bitwise negation can only be applied to integer data types.")
		return typeError
	}
	switch {
	case p.IsConcreteUnsignedInt():
		em.errorf(diag.TypUnsignedNegation, at, "Unsigned integers cannot be negated.")
		return typeError
	case p == types.IntAmbiguous:
		return types.Of(types.SignedIntAmbiguous)
	case p.IsNumeric():
		return t
	}
	em.errorf(diag.TypNotNumeric, at, "Numeric negation can only be applied to numeric data types.")
	return typeError
}

func (em *emitter) binaryType(b *ast.ExprBinaryData) types.Type {
	if b.Op.IsLogical() || b.Op.IsComparison() {
		return types.Of(types.Boolean)
	}
	if b.Op == ast.ExprBinaryNullCoalescing {
		t := em.reconcileExpressions(b.Left, b.Right, b.OpSpan)
		if t.Primitive == types.TypeError {
			return t
		}
		if t.Primitive != types.Pointer {
			em.errorf(diag.TypNotPointer, b.OpSpan, "NULL coalescing operator can only be applied to expressions which return a pointer.")
			return typeError
		}
		return t
	}
	l, r := em.typeOf(b.Left), em.typeOf(b.Right)
	lp, rp := l.Primitive, r.Primitive
	if lp == types.TypeError || rp == types.TypeError {
		return typeError
	}
	switch {
	case b.Op == ast.ExprBinaryAdd:
		if lp == types.String && rp == types.String {
			return types.Of(types.String)
		}
		if lp.IsNumeric() && rp.IsNumeric() {
			return types.Of(em.reconcile(lp, rp, b.OpSpan))
		}
		em.errorf(diag.TypNotNumeric, b.OpSpan, "Both operands must be either string (concatenation) or numeric (addition).")
	case b.Op.IsBitwise():
		if lp.IsIntegral() && rp.IsIntegral() {
			return types.Of(em.reconcile(lp, rp, b.OpSpan))
		}
		em.errorf(diag.TypNotIntegral, b.OpSpan, "Both operands must be integers.")
	default:
		if lp.IsNumeric() && rp.IsNumeric() {
			return types.Of(em.reconcile(lp, rp, b.OpSpan))
		}
		em.errorf(diag.TypNotNumeric, b.OpSpan, "Both operands must be numeric.")
	}
	return typeError
}

// reconcilePrimitives picks the type two numeric operands combine into. A
// concrete side fixes the result when the ambiguous side fits into it.
// Mismatched concrete kinds yield TypeError.
func reconcilePrimitives(l, r types.Primitive) types.Primitive {
	if l == r {
		return l
	}
	if !l.IsNumeric() || !r.IsNumeric() {
		return types.TypeError
	}
	if !l.IsAmbiguous() && !r.IsAmbiguous() {
		return types.TypeError
	}
	concrete, other := l, r
	if l.IsAmbiguous() {
		concrete, other = r, l
	}
	if !concrete.IsAmbiguous() {
		switch {
		case concrete.IsConcreteFloat():
			return concrete
		case concrete.IsConcreteSignedInt():
			if other == types.FloatAmbiguous {
				return types.TypeError
			}
			return concrete
		default:
			if other == types.IntAmbiguous {
				return concrete
			}
			return types.TypeError
		}
	}
	if l == types.FloatAmbiguous || r == types.FloatAmbiguous {
		return types.FloatAmbiguous
	}
	return types.SignedIntAmbiguous
}

func (em *emitter) reconcile(l, r types.Primitive, at source.Span) types.Primitive {
	p := reconcilePrimitives(l, r)
	if p == types.TypeError {
		em.errorf(diag.TypMismatch, at, "Type mismatch. Cannot combine "+l.String()+" and "+r.String()+" types in this way.")
	}
	return p
}

// reconcileExpressions is the type of an operator that returns one of two
// expressions. Pointers meet at their single nearest common ancestor.
func (em *emitter) reconcileExpressions(a, b ast.ExprID, at source.Span) types.Type {
	t1, t2 := em.typeOf(a), em.typeOf(b)
	if t1.Primitive == types.TypeError || t2.Primitive == types.TypeError {
		return typeError
	}
	if t1.Primitive == types.Pointer && t2.Primitive == types.Pointer {
		switch {
		case t1.IsNull():
			return t2
		case t2.IsNull(), t1.Equal(t2):
			return t1
		}
		candidates := em.reg.MutualAncestors(t1.Name, t2.Name)
		if len(candidates) == 1 {
			return em.reg.FindEquivalentGenerics(t1, candidates[0])
		}
		msg := "The return type of this operator is ambiguous and cannot be determined. Expressions in both branches of the conditional must have a matching type. "
		if len(candidates) == 0 {
			msg += "There are no common ancestors for the types '" + t1.String() + "' and '" + t2.String() + "'."
		} else {
			msg += "The possible ancestor types for '" + t1.String() + "' and '" + t2.String() + "' are '" + strings.Join(candidates, "', '") + "'."
		}
		em.errorf(diag.TypMismatch, at, msg)
		return typeError
	}
	p := em.reconcile(t1.Primitive, t2.Primitive, at)
	if p == types.TypeError {
		return typeError
	}
	return types.Type{Primitive: p, Name: t1.Name, Generics: t1.Generics}
}

// objectType resolves a variable, property, call or subscript chain.
func (em *emitter) objectType(id ast.ExprID) types.Type {
	exprs := em.prog.Exprs
	expr := exprs.Get(id)
	switch expr.Kind {
	case ast.ExprIdent:
		ident, _ := exprs.Ident(id)
		if v, ok := em.vars.Lookup(ident.Name); ok {
			return v.Type
		}
		p := em.reg.FindGlobalProperty(ident.Name)
		if p == nil {
			em.errorf(diag.TypUnknownVariable, expr.Span, "Unable to find a variable or global property named '"+ident.Name+"'.")
			return typeError
		}
		return p.Type.Substitute(nil)

	case ast.ExprCall:
		call, _ := exprs.Call(id)
		args, ok := em.argTypes(call.Args)
		if !ok {
			return typeError
		}
		f := em.reportedFunction(types.Type{}, false, call.Name, args, call.NameSpan)
		if f == nil {
			return typeError
		}
		return returnType(f, nil)

	case ast.ExprMember:
		m, _ := exprs.Member(id)
		prefix := em.typeOf(m.Object)
		if prefix.Primitive == types.TypeError {
			return prefix
		}
		if prefix.Primitive != types.Pointer {
			em.errorf(diag.TypNotPointer, m.NameSpan, "The '.' operator cannot be invoked on "+prefix.String()+", it can only be invoked on pointers.")
			return typeError
		}
		if m.IsCall {
			args, ok := em.argTypes(m.Args)
			if !ok {
				return typeError
			}
			f := em.reportedFunction(prefix, true, m.Name, args, m.NameSpan)
			if f == nil {
				return typeError
			}
			return returnType(f, em.genericsFor(prefix, f.Owner))
		}
		p := em.reg.FindTypeProperty(prefix.Name, m.Name, nil)
		if p == nil {
			em.errorf(diag.TypUnknownProperty, m.NameSpan, "Unable to find a '"+m.Name+"' property on type '"+prefix.String()+"'.")
			return typeError
		}
		return p.Type.Substitute(em.genericsFor(prefix, p.Owner))

	case ast.ExprIndex:
		ix, _ := exprs.Index(id)
		prefix := em.typeOf(ix.Object)
		if prefix.Primitive == types.TypeError {
			return prefix
		}
		if prefix.Primitive != types.Pointer {
			em.errorf(diag.TypNotPointer, expr.Span, "The subscript operator cannot be invoked on "+prefix.String()+", it can only be invoked on pointers.")
			return typeError
		}
		index := em.typeOf(ix.Index)
		if index.Primitive == types.TypeError {
			return index
		}
		s := em.reg.FindSubscript(prefix.Name, index, prefix.Generics, nil)
		if s == nil {
			em.errorf(diag.TypUnknownSubscript, expr.Span, "Unable to find a subscript on type '"+prefix.String()+"' with an index parameter of type "+index.String()+".")
			return typeError
		}
		subs := em.genericsFor(prefix, s.Owner)
		if other := em.reg.FindSubscript(prefix.Name, index, prefix.Generics, s); other != nil {
			otherSubs := em.genericsFor(prefix, other.Owner)
			em.errorf(diag.TypAmbiguousSubscript, expr.Span, "This subscript invocation is ambiguous between index types '"+
				s.Index.Substitute(subs).String()+"' and '"+other.Index.Substitute(otherSubs).String()+"' in type '"+prefix.String()+
				"'. This ambiguity can be resolved by adding a typecast to explicitly describe the type of the index.")
			return typeError
		}
		return s.Return.Substitute(subs)
	}
	return typeError
}

func (em *emitter) argTypes(args []ast.ExprID) ([]types.Type, bool) {
	out := make([]types.Type, len(args))
	ok := true
	for i, a := range args {
		out[i] = em.typeOf(a)
		if out[i].Primitive == types.TypeError {
			ok = false
		}
	}
	return out, ok
}

// findFunction looks a call up without reporting. Calls without an object
// prefix resolve against the global functions.
func (em *emitter) findFunction(invokedOn types.Type, hasObject bool, name string, args []types.Type, excluding *api.Function) *api.Function {
	if !hasObject {
		return em.reg.FindGlobalFunction(name, args, excluding)
	}
	return em.reg.FindTypeFunction(invokedOn.Name, name, args, invokedOn.Generics, excluding)
}

func (em *emitter) reportedFunction(invokedOn types.Type, hasObject bool, name string, args []types.Type, at source.Span) *api.Function {
	f := em.findFunction(invokedOn, hasObject, name, args, nil)
	sig := types.FunctionSignature("", name, args, false)
	if f == nil {
		if hasObject {
			em.errorf(diag.TypUnknownFunction, at, "Unable to find a '"+sig+"' function on type '"+invokedOn.String()+"'.")
		} else {
			em.errorf(diag.TypUnknownFunction, at, "Unable to find a global '"+sig+"' function.")
		}
		return nil
	}
	other := em.findFunction(invokedOn, hasObject, name, args, f)
	if other == nil {
		return f
	}
	const hint = "This ambiguity might be resolved by renaming these APIs, or by adding a typecast to explicitly describe the type of any literal parameters."
	if hasObject {
		em.errorf(diag.TypAmbiguousFunction, at, "This function invocation is ambiguous between functions '"+f.Signature()+"' and '"+other.Signature()+"' in type '"+invokedOn.String()+"'. "+hint)
	} else {
		em.errorf(diag.TypAmbiguousFunction, at, "This function invocation is ambiguous between global functions '"+f.Signature()+"' and '"+other.Signature()+"'. "+hint)
	}
	return nil
}

func returnType(f *api.Function, subs []types.Type) types.Type {
	if f.Return.Primitive == types.Void {
		return types.Of(types.Void)
	}
	return f.Return.Substitute(subs)
}
