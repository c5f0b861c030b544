package lexer

import (
	"mapl/internal/diag"
	"mapl/internal/token"
)

// multiOps перечислены от длинных к коротким: первый совпавший выигрывает.
// ">>" не склеивается: сдвиг вправо собирает парсер из двух соседних '>'
// и сам сообщает о пробеле между ними.
var multiOps = [...]struct {
	text string
	kind token.Kind
}{
	{"...", token.Ellipsis},
	{"<<=", token.ShlAssign},
	{">>=", token.ShrAssign},
	{"<<", token.Shl},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"??", token.QuestionQuestion},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token { return lx.emit(k, start) }

	for _, op := range multiOps {
		if lx.cursor.EatSeq(op.text) {
			return emit(op.kind)
		}
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '=':
		return emit(token.Assign)
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '%':
		return emit(token.Percent)
	case '!':
		return emit(token.Bang)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case '~':
		return emit(token.Tilde)
	case '&':
		return emit(token.Amp)
	case '|':
		return emit(token.Pipe)
	case '^':
		return emit(token.Caret)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	case '.':
		return emit(token.Dot)
	case ',':
		return emit(token.Comma)
	case ':':
		return emit(token.Colon)
	case '?':
		return emit(token.Question)
	case ';':
		return emit(token.Semicolon)
	}

	// неизвестный байт: съедаем продолжение UTF-8 руны, чтобы не дробить её
	lx.cursor.EatWhile(isContinuationByte)
	bad := lx.text(lx.cursor.SpanFrom(start))
	return lx.invalid(diag.LexUnknownChar, start, "Unexpected character '"+bad+"'.")
}
