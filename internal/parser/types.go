package parser

import (
	"mapl/internal/ast"
	"mapl/internal/diag"
	"mapl/internal/token"
)

// parseType разбирает примитивный тип или pointerType.
func (p *Parser) parseType() (ast.TypeID, bool) {
	tok := p.peek()
	if tok.IsPrimitiveType() {
		p.advance()
		return p.arenas.Types.NewPrimitive(tok.Span, tok.Kind), true
	}
	if tok.Kind == token.Ident {
		return p.parsePointerType()
	}
	p.err(diag.SynExpectType, "Mismatched input '"+describe(tok)+"'. Expected a type.")
	return ast.NoTypeID, false
}

// parsePointerType: ident ('<' type (',' type)* '>')?
func (p *Parser) parsePointerType() (ast.TypeID, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "a type name")
	if !ok {
		return ast.NoTypeID, false
	}
	var generics []ast.TypeID
	if p.at(token.Lt) {
		p.advance()
		for {
			g, ok := p.parseType()
			if !ok {
				return ast.NoTypeID, false
			}
			generics = append(generics, g)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "'>'"); !ok {
			return ast.NoTypeID, false
		}
	}
	return p.arenas.Types.NewPointer(p.spanFrom(name.Span), name.Text, name.Span, generics), true
}

// scanType проверяет без побочных эффектов, начинается ли с позиции i тип.
// Возвращает позицию сразу за типом.
func (p *Parser) scanType(i int) (int, bool) {
	tok := p.peekN(i)
	if tok.IsPrimitiveType() {
		return i + 1, true
	}
	if tok.Kind != token.Ident {
		return i, false
	}
	i++
	if p.peekN(i).Kind != token.Lt {
		return i, true
	}
	i++
	for {
		next, ok := p.scanType(i)
		if !ok {
			return i, false
		}
		i = next
		if p.peekN(i).Kind != token.Comma {
			break
		}
		i++
	}
	if p.peekN(i).Kind != token.Gt {
		return i, false
	}
	return i + 1, true
}
