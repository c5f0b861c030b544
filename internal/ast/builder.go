package ast

import (
	"mapl/internal/source"
)

type Hints struct{ Stmts, Exprs, Types uint }

// Builder owns the arenas of one parsed file.
type Builder struct {
	Stmts *Stmts
	Exprs *Exprs
	Types *TypeExprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Types == 0 {
		hints.Types = 1 << 6
	}
	return &Builder{
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
		Types: NewTypeExprs(hints.Types),
	}
}

// File is the root of a parsed script: its top-level statements in order.
type File struct {
	ID    source.FileID
	Span  source.Span
	Stmts []StmtID
}

// Program bundles a parsed file with the arenas its IDs point into.
type Program struct {
	*Builder
	File File
}

// TopLevel reports whether id sits directly in the file, outside any scope.
func (p *Program) TopLevel(id StmtID) bool {
	st := p.Stmts.Get(id)
	return st != nil && st.Parent == NoStmtID
}
