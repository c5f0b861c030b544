package parser

import (
	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/token"
)

// peekN возвращает токен на n позиций вперёд (0 это текущий), не потребляя его.
func (p *Parser) peekN(n int) token.Token {
	for len(p.buf) <= n {
		tok := p.lx.Next()
		p.buf = append(p.buf, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	if n >= len(p.buf) {
		return p.buf[len(p.buf)-1]
	}
	return p.buf[n]
}

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

// advance съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return tok
	}
	p.buf = p.buf[1:]
	if tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan: для EOF указываем позицию сразу после последнего токена
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "<EOF>"
	}
	return tok.Text
}

// expect ожидает конкретный токен. Если его нет, репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, what string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	msg := "Mismatched input '" + describe(p.peek()) + "'. Expected " + what + "."
	if k == token.Semicolon && p.lastSpan.End > 0 && !p.at(token.Invalid) {
		// ';' вставляется сразу после последнего съеденного токена
		at := source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
		p.report(code, diagSpan, msg, diag.Fix{Title: "insert ';'", Edits: []diag.FixEdit{{Span: at, NewText: ";"}}})
	} else {
		p.err(code, msg)
	}
	return token.Token{Kind: token.Invalid, Span: diagSpan}, false
}

// expectName принимает идентификатор или ключевое слово: в позициях имён
// API-объявлений и после '.' ключевые слова допустимы как имена.
func (p *Parser) expectName(what string) (token.Token, bool) {
	if p.peek().IsKeyword() {
		tok := p.advance()
		tok.Kind = token.Ident
		return tok, true
	}
	return p.expect(token.Ident, diag.SynExpectIdentifier, what)
}

// err репортует ошибку на текущем токене. Invalid-токен уже описан лексером.
func (p *Parser) err(code diag.Code, msg string) bool {
	if p.at(token.Invalid) {
		p.opts.CurrentErrors++
		return false
	}
	return p.report(code, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string, fixes ...diag.Fix) bool {
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil || p.opts.Enough() {
		return false
	}
	b := diag.ReportError(p.opts.Reporter, code, sp, msg)
	for _, fix := range fixes {
		b.WithFix(fix.Title, fix.Edits...)
	}
	b.Emit()
	return true
}

// resyncStatement прокручивает до ';' (съедая его), до '}' или до начала следующего statement.
func (p *Parser) resyncStatement() {
	for !p.at(token.EOF) {
		switch {
		case p.at(token.Semicolon):
			p.advance()
			return
		case p.at(token.RBrace), isStatementStarter(p.peek().Kind):
			return
		}
		p.advance()
	}
}

func isStatementStarter(k token.Kind) bool {
	switch k {
	case token.KwWhile, token.KwFor, token.KwDo, token.KwIf, token.KwBreak, token.KwContinue, token.KwExit,
		token.DirGlobal, token.DirType, token.DirImport, token.Metadata, token.LBrace:
		return true
	}
	return k.IsPrimitiveType()
}

// spanFrom covers everything from start to the last consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}
