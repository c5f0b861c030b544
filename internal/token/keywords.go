package token

var keywords = map[string]Kind{
	"while":    KwWhile,
	"for":      KwFor,
	"do":       KwDo,
	"if":       KwIf,
	"else":     KwElse,
	"break":    KwBreak,
	"continue": KwContinue,
	"exit":     KwExit,
	"char":     KwChar,
	"int32":    KwInt32,
	"int64":    KwInt64,
	"uint32":   KwUInt32,
	"uint64":   KwUInt64,
	"float32":  KwFloat32,
	"float64":  KwFloat64,
	"bool":     KwBool,
	"string":   KwString,
	"readonly": KwReadonly,
	"void":     KwVoid,
	"NULL":     KwNull,
	"true":     KwTrue,
	"false":    KwFalse,
}

var directives = map[string]Kind{
	"#global": DirGlobal,
	"#type":   DirType,
	"#import": DirImport,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// LookupDirective распознаёт "#global", "#type" и "#import".
func LookupDirective(text string) (Kind, bool) {
	k, ok := directives[text]
	return k, ok
}
