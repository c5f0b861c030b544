package lexer

import (
	"mapl/internal/token"
)

// scanNumber читает DIGITS или DIGITS.DIGITS. Точка без цифр после неё
// остаётся оператором '.'.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.EatWhile(isDigit)

	kind := token.IntLit
	if lx.cursor.Peek() == '.' && isDigit(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		lx.cursor.EatWhile(isDigit)
		kind = token.FloatLit
	}
	return lx.emit(kind, start)
}
