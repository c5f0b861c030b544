package parser

import (
	"mapl/internal/ast"
	"mapl/internal/diag"
	"mapl/internal/token"
)

// parseGlobal: '#global' (apiFunction | apiProperty)
func (p *Parser) parseGlobal() (ast.StmtID, bool) {
	kw := p.advance()
	member, ok := p.parseAPIMember(false)
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewGlobal(p.spanFrom(kw.Span), member), true
}

// parseTypeDecl:
// '#type' ident ('<' ident (',' ident)* '>')? (':' pointerType (',' pointerType)*)? '{' member* '}'
func (p *Parser) parseTypeDecl() (ast.StmtID, bool) {
	kw := p.advance()
	name, ok := p.expectName("a type name")
	if !ok {
		return ast.NoStmtID, false
	}
	data := ast.StmtTypeData{Name: name.Text, NameSpan: name.Span}

	if p.at(token.Lt) {
		p.advance()
		for {
			g, ok := p.expectName("a generic name")
			if !ok {
				return ast.NoStmtID, false
			}
			data.Generics = append(data.Generics, ast.GenericName{Name: g.Text, Span: g.Span})
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "'>'"); !ok {
			return ast.NoStmtID, false
		}
	}

	if p.at(token.Colon) {
		p.advance()
		for {
			super, ok := p.parsePointerType()
			if !ok {
				return ast.NoStmtID, false
			}
			data.Supertypes = append(data.Supertypes, super)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}

	if _, ok := p.expect(token.LBrace, diag.SynExpectScope, "'{'"); !ok {
		return ast.NoStmtID, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.peek().Span
		member, ok := p.parseAPIMember(true)
		if !ok {
			p.resyncStatement()
			if p.peek().Span == before && !p.at(token.EOF) && !p.at(token.RBrace) {
				p.advance()
			}
			continue
		}
		data.Members = append(data.Members, member)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "'}'"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewType(p.spanFrom(kw.Span), data), true
}

// parseAPIMember разбирает функцию, свойство или (внутри #type) сабскрипт.
//
//	apiFunction  := (type | 'void') ident '(' params? ')' ';'
//	apiProperty  := 'readonly'? type ident ';'
//	apiSubscript := 'readonly'? type '[' type ']' ';'
func (p *Parser) parseAPIMember(allowSubscript bool) (ast.APIMember, bool) {
	start := p.peek().Span
	var member ast.APIMember

	if p.at(token.KwReadonly) {
		p.advance()
		member.Readonly = true
	}
	isVoid := p.at(token.KwVoid)
	if isVoid {
		p.advance()
	} else {
		typ, ok := p.parseType()
		if !ok {
			return member, false
		}
		member.Type = typ
	}

	if allowSubscript && !isVoid && p.at(token.LBracket) {
		p.advance()
		index, ok := p.parseType()
		if !ok {
			return member, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "']'"); !ok {
			return member, false
		}
		member.Kind = ast.APISubscript
		member.Index = index
		member.Span = p.spanFrom(start)
		return member, p.expectSemicolon()
	}

	name, ok := p.expectName("a member name")
	if !ok {
		return member, false
	}
	member.Name = name.Text
	member.NameSpan = name.Span

	if p.at(token.LParen) {
		if member.Readonly {
			p.report(diag.SynUnexpectedToken, start, "Functions cannot be declared readonly.")
		}
		member.Kind = ast.APIFunction
		if member.Params, member.Variadic, ok = p.parseParams(); !ok {
			return member, false
		}
	} else {
		if isVoid {
			p.report(diag.SynExpectType, start, "Properties cannot be declared void.")
		}
		member.Kind = ast.APIProperty
	}
	member.Span = p.spanFrom(start)
	return member, p.expectSemicolon()
}

// parseParams: '(' ('...' | type ident? (',' type ident?)* (',' '...')?)? ')'
func (p *Parser) parseParams() ([]ast.TypeID, bool, bool) {
	p.advance() // '('
	params := make([]ast.TypeID, 0)
	variadic := false
	for !p.at(token.RParen) {
		if p.at(token.Ellipsis) {
			p.advance()
			variadic = true
			break
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false, false
		}
		params = append(params, typ)
		if p.at(token.Ident) {
			p.advance() // имя параметра только для читателя
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); !ok {
		return nil, false, false
	}
	return params, variadic, true
}

// parseImport: '#import' string
func (p *Parser) parseImport() (ast.StmtID, bool) {
	kw := p.advance()
	path, ok := p.expect(token.StringLit, diag.SynUnexpectedToken, "an import path string")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewImport(p.spanFrom(kw.Span), path.Text, path.Span), true
}
