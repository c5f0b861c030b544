package lexer

import (
	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/token"
)

// scanString читает "..." вместе с кавычками. Escape-последовательности не
// раскрываются: их разбирает bytecode.Buffer при записи литерала.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '"'
	for {
		lx.cursor.EatWhile(func(b byte) bool { return b != '"' && b != '\\' && b != '\n' })
		switch {
		case lx.cursor.EOF():
			return lx.invalid(diag.LexUnterminatedString, start, "Unterminated string literal.", lx.closeQuote())
		case lx.cursor.Eat('"'):
			return lx.emit(token.StringLit, start)
		case lx.cursor.Eat('\\'):
			if lx.cursor.EOF() {
				// кавычка после '\' была бы экранирована, исправления нет
				return lx.invalid(diag.LexUnterminatedString, start, "Unterminated string literal.")
			}
			lx.cursor.Bump()
		default:
			// перевод строки внутри литерала
			return lx.invalid(diag.LexUnterminatedString, start, "Newline in string literal.", lx.closeQuote())
		}
	}
}

// closeQuote предлагает закрыть литерал в текущей позиции.
func (lx *Lexer) closeQuote() diag.Fix {
	at := source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
	return diag.Fix{Title: "close the string", Edits: []diag.FixEdit{{Span: at, NewText: `"`}}}
}

// scanMetadata читает блок <? ... ?> целиком одним токеном.
func (lx *Lexer) scanMetadata() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.EatSeq("<?")
	for !lx.cursor.EOF() {
		if lx.cursor.EatSeq("?>") {
			return lx.emit(token.Metadata, start)
		}
		lx.cursor.Bump()
	}
	return lx.invalid(diag.LexUnterminatedMetadata, start, "Unterminated metadata block. Expected '?>'.")
}
