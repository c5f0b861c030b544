package ast

import (
	"mapl/internal/source"
	"mapl/internal/token"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprLit represents a numeric, string, boolean or NULL literal.
	ExprLit ExprKind = iota
	// ExprIdent is a bare name at the root of an object expression.
	ExprIdent
	// ExprCall is a function invocation at the root of an object expression.
	ExprCall
	// ExprMember is obj.name or obj.name(args).
	ExprMember
	// ExprIndex is obj[index].
	ExprIndex
	ExprCast
	ExprUnary
	ExprBinary
	ExprTernary
	ExprGroup
)

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
	// Parent is the enclosing expression, NoExprID at the root.
	Parent ExprID
}

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	// Арифметические
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod

	// Битовые
	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor
	ExprBinaryShiftLeft
	ExprBinaryShiftRight

	// Логические и сравнения
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq

	ExprBinaryNullCoalescing
)

var binaryOpText = [...]string{
	ExprBinaryAdd:            "+",
	ExprBinarySub:            "-",
	ExprBinaryMul:            "*",
	ExprBinaryDiv:            "/",
	ExprBinaryMod:            "%",
	ExprBinaryBitAnd:         "&",
	ExprBinaryBitOr:          "|",
	ExprBinaryBitXor:         "^",
	ExprBinaryShiftLeft:      "<<",
	ExprBinaryShiftRight:     ">>",
	ExprBinaryLogicalAnd:     "&&",
	ExprBinaryLogicalOr:      "||",
	ExprBinaryEq:             "==",
	ExprBinaryNotEq:          "!=",
	ExprBinaryLess:           "<",
	ExprBinaryLessEq:         "<=",
	ExprBinaryGreater:        ">",
	ExprBinaryGreaterEq:      ">=",
	ExprBinaryNullCoalescing: "??",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// IsComparison reports whether op yields bool from two comparable operands.
func (op ExprBinaryOp) IsComparison() bool {
	return op >= ExprBinaryEq && op <= ExprBinaryGreaterEq
}

// IsLogical reports whether op is && or ||.
func (op ExprBinaryOp) IsLogical() bool {
	return op == ExprBinaryLogicalAnd || op == ExprBinaryLogicalOr
}

// IsBitwise reports whether op requires integer operands.
func (op ExprBinaryOp) IsBitwise() bool {
	return op >= ExprBinaryBitAnd && op <= ExprBinaryShiftRight
}

// ExprUnaryOp enumerates prefix operators.
type ExprUnaryOp uint8

const (
	ExprUnaryNot ExprUnaryOp = iota // !
	ExprUnaryNeg                    // -
	ExprUnaryBitNot                 // ~
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryNot:
		return "!"
	case ExprUnaryNeg:
		return "-"
	case ExprUnaryBitNot:
		return "~"
	}
	return "?"
}

type ExprLiteralData struct {
	// Kind is one of token.IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNull.
	Kind token.Kind
	Text string
}

type ExprIdentData struct {
	Name string
}

type ExprCallData struct {
	Name     string
	NameSpan source.Span
	Args     []ExprID
}

type ExprMemberData struct {
	Object   ExprID
	Name     string
	NameSpan source.Span
	// IsCall distinguishes obj.f() from the property obj.f.
	IsCall bool
	Args   []ExprID
}

type ExprIndexData struct {
	Object ExprID
	Index  ExprID
}

type ExprCastData struct {
	Type  TypeID
	Value ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprBinaryData struct {
	Op     ExprBinaryOp
	OpSpan source.Span
	Left   ExprID
	Right  ExprID
}

type ExprTernaryData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

type ExprGroupData struct {
	Inner ExprID
}
