package lexer

import (
	"mapl/internal/diag"
	"mapl/internal/token"
)

// scanIdentOrKeyword читает [A-Za-z_][A-Za-z0-9_]* и сверяет с таблицей ключевых слов.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.EatWhile(isIdentContinue)
	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// scanDirective читает '#' и следующее за ним слово: #global, #type, #import.
func (lx *Lexer) scanDirective() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	lx.cursor.EatWhile(isIdentContinue)
	tok := lx.emit(token.Invalid, start)
	if k, ok := token.LookupDirective(tok.Text); ok {
		tok.Kind = k
		return tok
	}
	return lx.invalid(diag.LexUnknownChar, start, "Unknown directive '"+tok.Text+"'.")
}
