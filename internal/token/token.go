package token

import (
	"mapl/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, string or NULL literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsPrimitiveType reports whether the token names a primitive type.
func (t Token) IsPrimitiveType() bool {
	return t.Kind.IsPrimitiveType()
}

// IsPrimitiveType reports whether k is a primitive type keyword.
func (k Kind) IsPrimitiveType() bool {
	return k >= KwChar && k <= KwString
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwWhile && t.Kind <= KwFalse
}

// IsDirective reports whether the token is a "#" directive.
func (t Token) IsDirective() bool {
	return t.Kind >= DirGlobal && t.Kind <= DirImport
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Assign && t.Kind <= Ellipsis
}

// IsAssignOp reports whether k is "=" or a compound assignment.
func (k Kind) IsAssignOp() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign,
		AmpAssign, PipeAssign, CaretAssign, ShlAssign, ShrAssign:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
