package parser

import (
	"mapl/internal/ast"
	"mapl/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет. Тернарный оператор ниже всех и
// разбирается отдельно.
const (
	precLogical        = 1 // && ||
	precComparison     = 2 // == != < <= > >=
	precNullCoalescing = 3 // ??
	precBitwise        = 4 // & | ^
	precShift          = 5 // << >>
	precAdditive       = 6 // + -
	precMultiplicative = 7 // * /
	precModulo         = 8 // %
)

// binaryOperator возвращает оператор, приоритет и ассоциативность для токена.
// '>' '>' склеивается в сдвиг вызывающим кодом.
func binaryOperator(kind token.Kind) (op ast.ExprBinaryOp, prec int, rightAssoc bool, ok bool) {
	switch kind {
	case token.AndAnd:
		return ast.ExprBinaryLogicalAnd, precLogical, false, true
	case token.OrOr:
		return ast.ExprBinaryLogicalOr, precLogical, false, true
	case token.EqEq:
		return ast.ExprBinaryEq, precComparison, false, true
	case token.BangEq:
		return ast.ExprBinaryNotEq, precComparison, false, true
	case token.Lt:
		return ast.ExprBinaryLess, precComparison, false, true
	case token.LtEq:
		return ast.ExprBinaryLessEq, precComparison, false, true
	case token.Gt:
		return ast.ExprBinaryGreater, precComparison, false, true
	case token.GtEq:
		return ast.ExprBinaryGreaterEq, precComparison, false, true
	case token.QuestionQuestion:
		return ast.ExprBinaryNullCoalescing, precNullCoalescing, true, true
	case token.Amp:
		return ast.ExprBinaryBitAnd, precBitwise, false, true
	case token.Pipe:
		return ast.ExprBinaryBitOr, precBitwise, false, true
	case token.Caret:
		return ast.ExprBinaryBitXor, precBitwise, false, true
	case token.Shl:
		return ast.ExprBinaryShiftLeft, precShift, false, true
	case token.Plus:
		return ast.ExprBinaryAdd, precAdditive, false, true
	case token.Minus:
		return ast.ExprBinarySub, precAdditive, false, true
	case token.Star:
		return ast.ExprBinaryMul, precMultiplicative, false, true
	case token.Slash:
		return ast.ExprBinaryDiv, precMultiplicative, false, true
	case token.Percent:
		return ast.ExprBinaryMod, precModulo, false, true
	}
	return 0, 0, false, false
}

// getUnaryOperator проверяет, является ли токен префиксным оператором.
func getUnaryOperator(kind token.Kind) (ast.ExprUnaryOp, bool) {
	switch kind {
	case token.Bang:
		return ast.ExprUnaryNot, true
	case token.Minus:
		return ast.ExprUnaryNeg, true
	case token.Tilde:
		return ast.ExprUnaryBitNot, true
	}
	return 0, false
}

// startsCastOperand: может ли токен начинать операнд приведения типа.
// '-' исключён: "(a) - b" это вычитание.
func startsCastOperand(kind token.Kind) bool {
	switch kind {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit,
		token.KwTrue, token.KwFalse, token.KwNull,
		token.LParen, token.Bang, token.Tilde:
		return true
	}
	return false
}
