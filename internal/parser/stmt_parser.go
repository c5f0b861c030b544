package parser

import (
	"strings"

	"mapl/internal/ast"
	"mapl/internal/diag"
	"mapl/internal/token"
)

// parseStatement выбирает по первому токену нужный распознаватель.
func (p *Parser) parseStatement() (ast.StmtID, bool) {
	switch p.peek().Kind {
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwDo:
		id, ok := p.parseDoWhile()
		if !ok {
			return ast.NoStmtID, false
		}
		return id, p.expectSemicolon()
	case token.KwIf:
		return p.parseIf()
	case token.LBrace:
		return p.parseScope()
	case token.DirGlobal:
		return p.parseGlobal()
	case token.DirType:
		return p.parseTypeDecl()
	case token.DirImport:
		return p.parseImport()
	case token.Metadata:
		tok := p.advance()
		text := strings.TrimSuffix(strings.TrimPrefix(tok.Text, "<?"), "?>")
		return p.arenas.Stmts.NewMetadata(tok.Span, text), true
	}
	id, ok := p.parseImperative()
	if !ok {
		return ast.NoStmtID, false
	}
	return id, p.expectSemicolon()
}

func (p *Parser) expectSemicolon() bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	return ok
}

// isVarDecl: объявление переменной начинается с типа, за которым идёт имя.
func (p *Parser) isVarDecl() bool {
	if p.peek().IsPrimitiveType() {
		return true
	}
	end, ok := p.scanType(0)
	return ok && p.peekN(end).Kind == token.Ident
}

// parseImperative: varDecl | assign | unary | objectExpr | break | continue | exit
func (p *Parser) parseImperative() (ast.StmtID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.KwBreak:
		p.advance()
		return p.arenas.Stmts.NewSimple(ast.StmtBreak, tok.Span), true
	case token.KwContinue:
		p.advance()
		return p.arenas.Stmts.NewSimple(ast.StmtContinue, tok.Span), true
	case token.KwExit:
		p.advance()
		return p.arenas.Stmts.NewSimple(ast.StmtExit, tok.Span), true
	}
	if p.isVarDecl() {
		return p.parseVarDecl()
	}
	if tok.Kind != token.Ident {
		p.err(diag.SynUnexpectedToken, "Mismatched input '"+describe(tok)+"'. Expected a statement.")
		return ast.NoStmtID, false
	}

	target, ok := p.parseObjectExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	next := p.peek()
	switch {
	case next.Kind.IsAssignOp():
		p.advance()
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewAssign(p.spanFrom(tok.Span), target, next.Kind, next.Span, value), true
	case next.Kind == token.PlusPlus || next.Kind == token.MinusMinus:
		p.advance()
		return p.arenas.Stmts.NewUnary(p.spanFrom(tok.Span), target, next.Kind), true
	}
	return p.arenas.Stmts.NewExpr(p.exprSpan(target), target), true
}

// parseVarDecl: type ident ('=' expr)?
func (p *Parser) parseVarDecl() (ast.StmtID, bool) {
	start := p.peek().Span
	typ, ok := p.parseType()
	if !ok {
		return ast.NoStmtID, false
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "a variable name")
	if !ok {
		return ast.NoStmtID, false
	}
	value := ast.NoExprID
	if p.at(token.Assign) {
		p.advance()
		if value, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewVarDecl(p.spanFrom(start), typ, name.Text, name.Span, value), true
}
