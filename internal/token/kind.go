package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit
	FloatLit
	StringLit
	// Metadata is a whole "<? ... ?>" block.
	Metadata

	KwWhile
	KwFor
	KwDo
	KwIf
	KwElse
	KwBreak
	KwContinue
	KwExit
	KwChar
	KwInt32
	KwInt64
	KwUInt32
	KwUInt64
	KwFloat32
	KwFloat64
	KwBool
	KwString
	KwReadonly
	KwVoid
	KwNull
	KwTrue
	KwFalse

	// DirGlobal is "#global".
	DirGlobal
	DirType
	DirImport

	Assign        // =
	Plus          // +
	PlusAssign    // +=
	Minus         // -
	MinusAssign   // -=
	Slash         // /
	SlashAssign   // /=
	Star          // *
	StarAssign    // *=
	Percent       // %
	PercentAssign // %=
	PlusPlus      // ++
	MinusMinus    // --
	EqEq          // ==
	BangEq        // !=
	AndAnd        // &&
	OrOr          // ||
	Bang          // !
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Tilde         // ~
	Amp           // &
	AmpAssign     // &=
	Pipe          // |
	PipeAssign    // |=
	Caret         // ^
	CaretAssign   // ^=
	Shl           // <<
	ShlAssign     // <<=
	ShrAssign     // >>=
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
	Dot           // .
	Comma         // ,
	Colon         // :
	Question      // ?
	QuestionQuestion
	Semicolon
	Ellipsis // ...
)

var kindNames = [...]string{
	Invalid:          "Invalid",
	EOF:              "EOF",
	Ident:            "Ident",
	IntLit:           "IntLit",
	FloatLit:         "FloatLit",
	StringLit:        "StringLit",
	Metadata:         "Metadata",
	KwWhile:          "while",
	KwFor:            "for",
	KwDo:             "do",
	KwIf:             "if",
	KwElse:           "else",
	KwBreak:          "break",
	KwContinue:       "continue",
	KwExit:           "exit",
	KwChar:           "char",
	KwInt32:          "int32",
	KwInt64:          "int64",
	KwUInt32:         "uint32",
	KwUInt64:         "uint64",
	KwFloat32:        "float32",
	KwFloat64:        "float64",
	KwBool:           "bool",
	KwString:         "string",
	KwReadonly:       "readonly",
	KwVoid:           "void",
	KwNull:           "NULL",
	KwTrue:           "true",
	KwFalse:          "false",
	DirGlobal:        "#global",
	DirType:          "#type",
	DirImport:        "#import",
	Assign:           "=",
	Plus:             "+",
	PlusAssign:       "+=",
	Minus:            "-",
	MinusAssign:      "-=",
	Slash:            "/",
	SlashAssign:      "/=",
	Star:             "*",
	StarAssign:       "*=",
	Percent:          "%",
	PercentAssign:    "%=",
	PlusPlus:         "++",
	MinusMinus:       "--",
	EqEq:             "==",
	BangEq:           "!=",
	AndAnd:           "&&",
	OrOr:             "||",
	Bang:             "!",
	Lt:               "<",
	LtEq:             "<=",
	Gt:               ">",
	GtEq:             ">=",
	Tilde:            "~",
	Amp:              "&",
	AmpAssign:        "&=",
	Pipe:             "|",
	PipeAssign:       "|=",
	Caret:            "^",
	CaretAssign:      "^=",
	Shl:              "<<",
	ShlAssign:        "<<=",
	ShrAssign:        ">>=",
	LParen:           "(",
	RParen:           ")",
	LBrace:           "{",
	RBrace:           "}",
	LBracket:         "[",
	RBracket:         "]",
	Dot:              ".",
	Comma:            ",",
	Colon:            ":",
	Question:         "?",
	QuestionQuestion: "??",
	Semicolon:        ";",
	Ellipsis:         "...",
}

// String returns the spelling of punctuation and keywords, or the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
