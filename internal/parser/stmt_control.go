package parser

import (
	"mapl/internal/ast"
	"mapl/internal/diag"
	"mapl/internal/token"
)

// parseScope: '{' statement* '}'
func (p *Parser) parseScope() (ast.StmtID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynExpectScope, "'{'")
	if !ok {
		return ast.NoStmtID, false
	}
	stmts := make([]ast.StmtID, 0)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.peek().Span
		if id, ok := p.parseStatement(); ok {
			stmts = append(stmts, id)
			continue
		}
		p.resyncStatement()
		if p.peek().Span == before && !p.at(token.EOF) && !p.at(token.RBrace) {
			p.advance()
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "'}'"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewScope(p.spanFrom(open.Span), stmts), true
}

// parseParenExpr: '(' expr ')'
func (p *Parser) parseParenExpr() (ast.ExprID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('"); !ok {
		return ast.NoExprID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); !ok {
		return ast.NoExprID, false
	}
	return cond, true
}

// parseWhile: 'while' '(' expr ')' scope
func (p *Parser) parseWhile() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseParenExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseScope()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewWhile(p.spanFrom(kw.Span), cond, body), true
}

// parseFor: 'for' '(' imperative? ';' expr? ';' imperative? ')' scope
func (p *Parser) parseFor() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('"); !ok {
		return ast.NoStmtID, false
	}
	var (
		init, step ast.StmtID
		cond       ast.ExprID
		ok         bool
	)
	if !p.at(token.Semicolon) {
		if init, ok = p.parseImperative(); !ok {
			return ast.NoStmtID, false
		}
	}
	if !p.expectSemicolon() {
		return ast.NoStmtID, false
	}
	if !p.at(token.Semicolon) {
		if cond, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if !p.expectSemicolon() {
		return ast.NoStmtID, false
	}
	if !p.at(token.RParen) {
		if step, ok = p.parseImperative(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseScope()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewFor(p.spanFrom(kw.Span), init, cond, step, body), true
}

// parseDoWhile: 'do' scope 'while' '(' expr ')'
func (p *Parser) parseDoWhile() (ast.StmtID, bool) {
	kw := p.advance()
	body, ok := p.parseScope()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwWhile, diag.SynUnexpectedToken, "'while'"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseParenExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewDoWhile(p.spanFrom(kw.Span), body, cond), true
}

// parseIf: 'if' '(' expr ')' scope ('else' (scope | conditional))?
func (p *Parser) parseIf() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseParenExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseScope()
	if !ok {
		return ast.NoStmtID, false
	}
	els := ast.NoStmtID
	if p.at(token.KwElse) {
		p.advance()
		if p.at(token.KwIf) {
			els, ok = p.parseIf()
		} else {
			els, ok = p.parseScope()
		}
		if !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewIf(p.spanFrom(kw.Span), cond, then, els), true
}
