package compiler

import (
	"fortio.org/safecast"

	"mapl/internal/api"
	"mapl/internal/ast"
	"mapl/internal/bytecode"
	"mapl/internal/diag"
	"mapl/internal/types"
)

// compileObject appends a variable read, property read, call or subscript.
// unused marks a call whose return value is discarded.
func (em *emitter) compileObject(buf *bytecode.Buffer, id ast.ExprID, unused bool) types.Type {
	t := em.typeOf(id)
	if t.Primitive == types.TypeError {
		return t
	}
	exprs := em.prog.Exprs
	expr := exprs.Get(id)
	switch expr.Kind {
	case ast.ExprIdent:
		ident, _ := exprs.Ident(id)
		if v, ok := em.vars.Lookup(ident.Name); ok {
			em.appendVariable(buf, v)
			return t
		}
		em.compileProperty(buf, ast.NoExprID, types.Type{}, em.reg.FindGlobalProperty(ident.Name))

	case ast.ExprCall:
		call, _ := exprs.Call(id)
		args, _ := em.argTypes(call.Args)
		f := em.findFunction(types.Type{}, false, call.Name, args, nil)
		em.compileCall(buf, ast.NoExprID, types.Type{}, f, call.Args, unused)

	case ast.ExprMember:
		m, _ := exprs.Member(id)
		prefix := em.typeOf(m.Object)
		if m.IsCall {
			args, _ := em.argTypes(m.Args)
			f := em.findFunction(prefix, true, m.Name, args, nil)
			em.compileCall(buf, m.Object, prefix, f, m.Args, unused)
			break
		}
		em.compileProperty(buf, m.Object, prefix, em.reg.FindTypeProperty(prefix.Name, m.Name, nil))

	case ast.ExprIndex:
		ix, _ := exprs.Index(id)
		prefix := em.typeOf(ix.Object)
		s := em.reg.FindSubscript(prefix.Name, em.typeOf(ix.Index), prefix.Generics, nil)
		subs := em.genericsFor(prefix, s.Owner)
		pos := buf.Len()
		buf.AppendInstruction(bytecode.Placeholder)
		em.compilePrefix(buf, ix.Object)
		em.compileExpr(buf, ix.Index, s.Index.Substitute(subs))
		buf.Overwrite(pos, byte(bytecode.Subscript(s.Return.Substitute(subs).Primitive)))
	}
	return t
}

// compilePrefix appends the object a member or subscript is invoked on.
func (em *emitter) compilePrefix(buf *bytecode.Buffer, id ast.ExprID) {
	switch em.prog.Exprs.Get(id).Kind {
	case ast.ExprIdent, ast.ExprCall, ast.ExprMember, ast.ExprIndex:
		em.compileObject(buf, id, false)
	default:
		em.compileExpr(buf, id, em.typeOf(id))
	}
}

func (em *emitter) appendPrefixOrNoOp(buf *bytecode.Buffer, object ast.ExprID) {
	if object.IsValid() {
		em.compilePrefix(buf, object)
		return
	}
	buf.AppendInstruction(bytecode.NoOp)
}

// compileCall emits
//
//	call-op prefix|no-op symbol:u16 argc:u8 args...
//
// The call opcode is written last, once the return type is known.
func (em *emitter) compileCall(buf *bytecode.Buffer, object ast.ExprID, prefix types.Type, f *api.Function, args []ast.ExprID, unused bool) {
	pos := buf.Len()
	buf.AppendInstruction(bytecode.Placeholder)
	em.appendPrefixOrNoOp(buf, object)
	buf.AddAnnotation(bytecode.AnnotationSymbol, f.SymbolDescriptor())
	buf.AppendUint16(0)
	count, err := safecast.Conv[uint8](len(args))
	if err != nil {
		em.errorf(diag.IntErrorOpcode, em.prog.Exprs.Get(args[0]).Span, "Function invocations cannot pass more than 255 parameters.")
	}
	buf.AppendBytes(count)

	subs := em.genericsFor(prefix, f.Owner)
	for i, a := range args {
		if i < len(f.Params) {
			em.compileExpr(buf, a, f.Params[i].Substitute(subs))
			continue
		}
		t := em.typeOf(a)
		switch {
		case t.Primitive == types.TypeError:
		case t.Primitive.IsAmbiguous():
			em.reportAmbiguous(diag.TypAmbiguousVariadic, t.Primitive, em.prog.Exprs.Get(a).Span)
		default:
			em.compileExpr(buf, a, t)
		}
	}
	if unused {
		buf.Overwrite(pos, byte(bytecode.UnusedReturnFunctionInvocation))
		return
	}
	buf.Overwrite(pos, byte(bytecode.Call(returnType(f, subs).Primitive)))
}

// compileProperty emits a property read, which the runtime treats as a call
// without arguments.
func (em *emitter) compileProperty(buf *bytecode.Buffer, object ast.ExprID, prefix types.Type, p *api.Property) {
	pos := buf.Len()
	buf.AppendInstruction(bytecode.Placeholder)
	em.appendPrefixOrNoOp(buf, object)
	buf.AddAnnotation(bytecode.AnnotationSymbol, p.SymbolDescriptor())
	buf.AppendUint16(0)
	buf.AppendBytes(0)
	buf.Overwrite(pos, byte(bytecode.Call(p.Type.Substitute(em.genericsFor(prefix, p.Owner)).Primitive)))
}
