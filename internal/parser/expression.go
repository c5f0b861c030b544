package parser

import (
	"mapl/internal/ast"
	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	cond, ok := p.parseBinaryExpr(precLogical)
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Question) {
		return cond, true
	}
	p.advance()
	then, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "':'"); !ok {
		return ast.NoExprID, false
	}
	els, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	span := p.exprSpan(cond).Cover(p.exprSpan(els))
	return p.arenas.Exprs.NewTernary(span, cond, then, els), true
}

// shiftRight распознаёт '>' '>' как сдвиг вправо. Пробел между ними считается ошибкой,
// но выражение всё равно разбирается как сдвиг.
func (p *Parser) shiftRight() (source.Span, bool) {
	first, second := p.peekN(0), p.peekN(1)
	if first.Kind != token.Gt || second.Kind != token.Gt {
		return source.Span{}, false
	}
	if first.Span.End != second.Span.Start {
		gap := source.Span{File: first.Span.File, Start: first.Span.End, End: second.Span.Start}
		p.report(diag.SynBitshiftSpacing, second.Span, "Extraneous input '>'. Bitshift operator must not have whitespace.",
			diag.Fix{Title: "join '>>'", Edits: []diag.FixEdit{{Span: gap}}})
	}
	return first.Span.Cover(second.Span), true
}

// parseBinaryExpr реализует precedence climbing для бинарных операторов
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		var (
			op         ast.ExprBinaryOp
			prec       int
			rightAssoc bool
			opSpan     source.Span
			width      = 1
		)
		if sp, isShift := p.shiftRight(); isShift {
			op, prec, opSpan, width = ast.ExprBinaryShiftRight, precShift, sp, 2
		} else {
			var isOp bool
			op, prec, rightAssoc, isOp = binaryOperator(p.peek().Kind)
			if !isOp {
				break
			}
			opSpan = p.peek().Span
		}
		if prec < minPrec {
			break
		}
		for range width {
			p.advance()
		}

		nextMinPrec := prec + 1
		if rightAssoc {
			nextMinPrec = prec
		}
		right, ok := p.parseBinaryExpr(nextMinPrec)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.exprSpan(left).Cover(p.exprSpan(right))
		left = p.arenas.Exprs.NewBinary(span, op, opSpan, left, right)
	}
	return left, true
}

// parseUnaryExpr обрабатывает префиксные операторы и приведения типов
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	if op, ok := getUnaryOperator(tok.Kind); ok {
		p.advance()
		operand, ok := p.parseUnaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnary(tok.Span.Cover(p.exprSpan(operand)), op, operand), true
	}
	if tok.Kind == token.LParen && p.isCast() {
		p.advance()
		typ, ok := p.parseType()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); !ok {
			return ast.NoExprID, false
		}
		value, ok := p.parseUnaryExpr()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewCast(tok.Span.Cover(p.exprSpan(value)), typ, value), true
	}
	return p.parsePrimaryExpr()
}

// isCast: '(' primitive ')' всегда приведение; '(' pointerType ')' только
// если дальше начинается операнд.
func (p *Parser) isCast() bool {
	if p.peekN(1).IsPrimitiveType() {
		return p.peekN(2).Kind == token.RParen
	}
	end, ok := p.scanType(1)
	if !ok || p.peekN(end).Kind != token.RParen {
		return false
	}
	return startsCastOperand(p.peekN(end + 1).Kind)
}

func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit, token.FloatLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNull:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, tok.Kind, tok.Text), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(p.spanFrom(tok.Span), inner), true
	case token.Ident:
		return p.parseObjectExpr()
	}
	p.err(diag.SynExpectExpression, "Mismatched input '"+describe(tok)+"'. Expected an expression.")
	return ast.NoExprID, false
}

// parseObjectExpr: (ident | call) ('.' (ident | call) | '[' expr ']')*
func (p *Parser) parseObjectExpr() (ast.ExprID, bool) {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "an identifier")
	if !ok {
		return ast.NoExprID, false
	}
	var expr ast.ExprID
	if p.at(token.LParen) {
		args, ok := p.parseArgs()
		if !ok {
			return ast.NoExprID, false
		}
		expr = p.arenas.Exprs.NewCall(p.spanFrom(name.Span), name.Text, name.Span, args)
	} else {
		expr = p.arenas.Exprs.NewIdent(name.Span, name.Text)
	}

	for {
		switch {
		case p.at(token.Dot):
			p.advance()
			member, ok := p.expectName("a member name")
			if !ok {
				return ast.NoExprID, false
			}
			var args []ast.ExprID
			isCall := p.at(token.LParen)
			if isCall {
				if args, ok = p.parseArgs(); !ok {
					return ast.NoExprID, false
				}
			}
			span := p.spanFrom(p.exprSpan(expr))
			expr = p.arenas.Exprs.NewMember(span, expr, member.Text, member.Span, isCall, args)
		case p.at(token.LBracket):
			p.advance()
			index, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "']'"); !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewIndex(p.spanFrom(p.exprSpan(expr)), expr, index)
		default:
			return expr, true
		}
	}
}

// parseArgs: '(' (expr (',' expr)*)? ')'
func (p *Parser) parseArgs() ([]ast.ExprID, bool) {
	p.advance() // '('
	args := make([]ast.ExprID, 0)
	if p.at(token.RParen) {
		p.advance()
		return args, true
	}
	for {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	return p.arenas.Exprs.Get(id).Span
}
