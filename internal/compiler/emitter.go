package compiler

import (
	"errors"
	"math"

	"fortio.org/safecast"

	"mapl/internal/api"
	"mapl/internal/ast"
	"mapl/internal/bytecode"
	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/types"
	"mapl/internal/varstack"
)

// emitter walks one file's statements and appends their bytecode.
type emitter struct {
	unit  *Unit
	prog  *ast.Program
	reg   *api.Registry
	vars  *varstack.Stack
	files *source.FileSet
	r     diag.Reporter
	debug bool
	// typed memoizes typeOf so each typing problem is reported once.
	typed map[ast.ExprID]types.Type
}

func newEmitter(u *Unit) *emitter {
	return &emitter{
		unit:  u,
		prog:  u.Program,
		reg:   u.registry,
		vars:  u.stack,
		files: u.cache.fileSet,
		r:     u.reporter,
		debug: u.cache.debug,
		typed: make(map[ast.ExprID]types.Type),
	}
}

func (em *emitter) newBuffer() *bytecode.Buffer {
	return bytecode.NewBuffer(em.r, em.unit.File)
}

func (em *emitter) errorf(code diag.Code, at source.Span, msg string) {
	diag.ReportError(em.r, code, at, msg).Emit()
}

// typeFromExpr converts a written type without checking it against the API.
func (em *emitter) typeFromExpr(id ast.TypeID) types.Type {
	te := em.prog.Types.Get(id)
	if te == nil {
		return types.Of(types.TypeError)
	}
	if !te.IsPointer() {
		p, ok := types.PrimitiveForKeyword(te.Keyword.String())
		if !ok {
			return types.Of(types.TypeError)
		}
		return types.Of(p)
	}
	out := types.PointerTo(te.Name)
	for _, g := range te.Generics {
		out.Generics = append(out.Generics, em.typeFromExpr(g))
	}
	return out
}

// checkTypeExpr reports written pointer types that name no #type or pass the
// wrong number of generics.
func (em *emitter) checkTypeExpr(id ast.TypeID) bool {
	te := em.prog.Types.Get(id)
	if te == nil || !te.IsPointer() {
		return true
	}
	ok := true
	decl := em.reg.FindType(te.Name)
	switch {
	case decl == nil:
		em.errorf(diag.APIMissingType, te.Span, "Unable to find the type declaration for '"+te.Name+"'.")
		ok = false
	case len(decl.Generics) != len(te.Generics):
		diag.ReportError(em.r, diag.APIGenericArity, te.Span,
			"The number of generics specified for '"+te.Name+"' doesn't match the number of generics in the type declaration.").
			WithNote(decl.NameSpan, "type declared here").Emit()
		ok = false
	}
	for _, g := range te.Generics {
		if !em.checkTypeExpr(g) {
			ok = false
		}
	}
	return ok
}

func (em *emitter) reportAmbiguous(code diag.Code, p types.Primitive, at source.Span) {
	var options string
	switch p {
	case types.IntAmbiguous:
		options = "char, uint32, uint64, int32, int64, float32, float64"
	case types.SignedIntAmbiguous:
		options = "int32, int64, float32, float64"
	default:
		options = "float32, float64"
	}
	em.errorf(code, at, "This expression contains numeric literals whose type is ambiguous. An explicit cast must be added to distinguish between: "+options+".")
}

// castLiteral converts a constant and reports values that do not survive the conversion.
func (em *emitter) castLiteral(l types.Literal, to types.Type, at source.Span) types.Literal {
	out, err := types.Cast(l, to)
	var rangeErr *types.RangeError
	var convErr *types.ConversionError
	switch {
	case errors.As(err, &rangeErr):
		em.errorf(diag.RngOutOfRange, at, rangeErr.Error())
	case errors.As(err, &convErr):
		em.errorf(diag.RngConversion, at, convErr.Error())
	}
	return out
}

// shiftLiteral is the shift distance operand of a strength-reduced multiply or divide.
func shiftLiteral(shift uint8, to types.Type) types.Literal {
	out, _ := types.Cast(types.Literal{Type: types.Of(types.Char), Char: shift}, to)
	return out
}

// reciprocal returns 1/l for a float32 or float64 constant.
func reciprocal(l types.Literal) types.Literal {
	switch l.Type.Primitive {
	case types.Float32:
		l.Float32 = 1 / l.Float32
	case types.Float64:
		l.Float64 = 1 / l.Float64
	}
	return l
}

// genericsFor returns the generic arguments of invokedOn seen as owner.
func (em *emitter) genericsFor(invokedOn types.Type, owner string) []types.Type {
	if owner == "" {
		return nil
	}
	return em.reg.FindEquivalentGenerics(invokedOn, owner).Generics
}

func referenceKind(v varstack.Variable) bytecode.AnnotationKind {
	if v.IsAllocated() {
		return bytecode.AnnotationAllocatedReference
	}
	return bytecode.AnnotationPrimitiveReference
}

// appendVariable emits a read of v.
func (em *emitter) appendVariable(buf *bytecode.Buffer, v varstack.Variable) {
	buf.AppendInstruction(bytecode.Variable(v.Type.Primitive))
	buf.AddAnnotation(referenceKind(v), v.File)
	buf.AppendUint16(v.Address)
}

// appendAssignHeader emits the assignment instruction and destination of v.
func (em *emitter) appendAssignHeader(buf *bytecode.Buffer, v varstack.Variable) {
	buf.AppendInstruction(bytecode.Assign(v.Type.Primitive))
	buf.AddAnnotation(v.AnnotationKind(), v.File)
	buf.AppendUint16(v.Address)
}

func (em *emitter) debugLine(buf *bytecode.Buffer, at source.Span) {
	if !em.debug {
		return
	}
	start, _ := em.files.Resolve(at)
	line, err := safecast.Conv[uint16](start.Line)
	if err != nil {
		line = math.MaxUint16
	}
	buf.AppendInstruction(bytecode.DebugLine)
	buf.AddAnnotation(bytecode.AnnotationDebugLine, "")
	buf.AppendUint16(line)
}

func (em *emitter) debugUpdate(buf *bytecode.Buffer, v varstack.Variable) {
	if !em.debug {
		return
	}
	buf.AppendInstruction(bytecode.DebugUpdateVariable)
	buf.AppendString(v.Name, v.Span)
	em.appendVariable(buf, v)
}

// popScope closes the innermost frame, telling a debugger which variables died.
func (em *emitter) popScope(buf *bytecode.Buffer) {
	for _, v := range em.vars.Pop() {
		if !em.debug {
			continue
		}
		buf.AppendInstruction(bytecode.DebugDeleteVariable)
		buf.AppendString(v.Name, v.Span)
	}
}
