package ast

import (
	"mapl/internal/source"
	"mapl/internal/token"
)

type StmtKind uint8

const (
	StmtVarDecl StmtKind = iota
	StmtAssign
	// StmtUnary is x++ or x--.
	StmtUnary
	// StmtExpr is an object expression evaluated for its side effects.
	StmtExpr
	StmtBreak
	StmtContinue
	StmtExit
	StmtScope
	StmtWhile
	StmtFor
	StmtDoWhile
	StmtIf
	StmtGlobal
	StmtType
	StmtImport
	StmtMetadata
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
	// Parent is the enclosing statement, NoStmtID at file level.
	Parent StmtID
}

// IsLoop reports whether break and continue may target the statement.
func (s *Stmt) IsLoop() bool {
	return s.Kind == StmtWhile || s.Kind == StmtFor || s.Kind == StmtDoWhile
}

type StmtVarDeclData struct {
	Type     TypeID
	Name     string
	NameSpan source.Span
	Value    ExprID
}

type StmtAssignData struct {
	Target ExprID
	// Op is token.Assign or one of the compound assignment kinds.
	Op     token.Kind
	OpSpan source.Span
	Value  ExprID
}

type StmtUnaryData struct {
	Target ExprID
	// Op is token.PlusPlus or token.MinusMinus.
	Op token.Kind
}

type StmtExprData struct {
	Expr ExprID
}

type StmtScopeData struct {
	Stmts []StmtID
}

type StmtWhileData struct {
	Cond ExprID
	Body StmtID
}

// StmtForData: every part but Body may be absent.
type StmtForData struct {
	Init StmtID
	Cond ExprID
	Step StmtID
	Body StmtID
}

type StmtDoWhileData struct {
	Body StmtID
	Cond ExprID
}

// StmtIfData.Else is a scope, a nested StmtIf, or NoStmtID.
type StmtIfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type StmtImportData struct {
	// Path is the raw string literal, quotes included.
	Path     string
	PathSpan source.Span
}

type StmtMetadataData struct {
	// Text is the content between <? and ?>.
	Text string
}
