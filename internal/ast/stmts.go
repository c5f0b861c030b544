package ast

import (
	"mapl/internal/source"
	"mapl/internal/token"
)

// Stmts manages allocation of statements.
type Stmts struct {
	Arena     *Arena[Stmt]
	VarDecls  *Arena[StmtVarDeclData]
	Assigns   *Arena[StmtAssignData]
	Unaries   *Arena[StmtUnaryData]
	Exprs     *Arena[StmtExprData]
	Scopes    *Arena[StmtScopeData]
	Whiles    *Arena[StmtWhileData]
	Fors      *Arena[StmtForData]
	DoWhiles  *Arena[StmtDoWhileData]
	Ifs       *Arena[StmtIfData]
	Globals   *Arena[StmtGlobalData]
	Types     *Arena[StmtTypeData]
	Imports   *Arena[StmtImportData]
	Metadatas *Arena[StmtMetadataData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:     NewArena[Stmt](capHint),
		VarDecls:  NewArena[StmtVarDeclData](capHint),
		Assigns:   NewArena[StmtAssignData](capHint),
		Unaries:   NewArena[StmtUnaryData](capHint),
		Exprs:     NewArena[StmtExprData](capHint),
		Scopes:    NewArena[StmtScopeData](capHint),
		Whiles:    NewArena[StmtWhileData](capHint),
		Fors:      NewArena[StmtForData](capHint),
		DoWhiles:  NewArena[StmtDoWhileData](capHint),
		Ifs:       NewArena[StmtIfData](capHint),
		Globals:   NewArena[StmtGlobalData](capHint),
		Types:     NewArena[StmtTypeData](capHint),
		Imports:   NewArena[StmtImportData](capHint),
		Metadatas: NewArena[StmtMetadataData](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID, children ...StmtID) StmtID {
	id := StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
	for _, child := range children {
		if c := s.Get(child); c != nil {
			c.Parent = id
		}
	}
	return id
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return 0, false
	}
	return uint32(st.Payload), true
}

// EnclosingLoop returns the nearest loop around id, or NoStmtID.
func (s *Stmts) EnclosingLoop(id StmtID) StmtID {
	for st := s.Get(id); st != nil; {
		if st.Parent == NoStmtID {
			return NoStmtID
		}
		parent := s.Get(st.Parent)
		if parent.IsLoop() {
			return st.Parent
		}
		st = parent
	}
	return NoStmtID
}

func (s *Stmts) NewVarDecl(span source.Span, typ TypeID, name string, nameSpan source.Span, value ExprID) StmtID {
	payload := s.VarDecls.Allocate(StmtVarDeclData{Type: typ, Name: name, NameSpan: nameSpan, Value: value})
	return s.new(StmtVarDecl, span, PayloadID(payload))
}

func (s *Stmts) VarDecl(id StmtID) (*StmtVarDeclData, bool) {
	p, ok := s.payload(id, StmtVarDecl)
	if !ok {
		return nil, false
	}
	return s.VarDecls.Get(p), true
}

func (s *Stmts) NewAssign(span source.Span, target ExprID, op token.Kind, opSpan source.Span, value ExprID) StmtID {
	payload := s.Assigns.Allocate(StmtAssignData{Target: target, Op: op, OpSpan: opSpan, Value: value})
	return s.new(StmtAssign, span, PayloadID(payload))
}

func (s *Stmts) Assign(id StmtID) (*StmtAssignData, bool) {
	p, ok := s.payload(id, StmtAssign)
	if !ok {
		return nil, false
	}
	return s.Assigns.Get(p), true
}

func (s *Stmts) NewUnary(span source.Span, target ExprID, op token.Kind) StmtID {
	payload := s.Unaries.Allocate(StmtUnaryData{Target: target, Op: op})
	return s.new(StmtUnary, span, PayloadID(payload))
}

func (s *Stmts) Unary(id StmtID) (*StmtUnaryData, bool) {
	p, ok := s.payload(id, StmtUnary)
	if !ok {
		return nil, false
	}
	return s.Unaries.Get(p), true
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(StmtExprData{Expr: expr})
	return s.new(StmtExpr, span, PayloadID(payload))
}

func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	p, ok := s.payload(id, StmtExpr)
	if !ok {
		return nil, false
	}
	return s.Exprs.Get(p), true
}

// NewSimple allocates a statement without payload: break, continue, exit.
func (s *Stmts) NewSimple(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, NoPayloadID)
}

func (s *Stmts) NewScope(span source.Span, stmts []StmtID) StmtID {
	payload := s.Scopes.Allocate(StmtScopeData{Stmts: stmts})
	return s.new(StmtScope, span, PayloadID(payload), stmts...)
}

func (s *Stmts) Scope(id StmtID) (*StmtScopeData, bool) {
	p, ok := s.payload(id, StmtScope)
	if !ok {
		return nil, false
	}
	return s.Scopes.Get(p), true
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	payload := s.Whiles.Allocate(StmtWhileData{Cond: cond, Body: body})
	return s.new(StmtWhile, span, PayloadID(payload), body)
}

func (s *Stmts) While(id StmtID) (*StmtWhileData, bool) {
	p, ok := s.payload(id, StmtWhile)
	if !ok {
		return nil, false
	}
	return s.Whiles.Get(p), true
}

func (s *Stmts) NewFor(span source.Span, init StmtID, cond ExprID, step, body StmtID) StmtID {
	payload := s.Fors.Allocate(StmtForData{Init: init, Cond: cond, Step: step, Body: body})
	return s.new(StmtFor, span, PayloadID(payload), init, step, body)
}

func (s *Stmts) For(id StmtID) (*StmtForData, bool) {
	p, ok := s.payload(id, StmtFor)
	if !ok {
		return nil, false
	}
	return s.Fors.Get(p), true
}

func (s *Stmts) NewDoWhile(span source.Span, body StmtID, cond ExprID) StmtID {
	payload := s.DoWhiles.Allocate(StmtDoWhileData{Body: body, Cond: cond})
	return s.new(StmtDoWhile, span, PayloadID(payload), body)
}

func (s *Stmts) DoWhile(id StmtID) (*StmtDoWhileData, bool) {
	p, ok := s.payload(id, StmtDoWhile)
	if !ok {
		return nil, false
	}
	return s.DoWhiles.Get(p), true
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	payload := s.Ifs.Allocate(StmtIfData{Cond: cond, Then: then, Else: els})
	return s.new(StmtIf, span, PayloadID(payload), then, els)
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(p), true
}

func (s *Stmts) NewGlobal(span source.Span, member APIMember) StmtID {
	payload := s.Globals.Allocate(StmtGlobalData{Member: member})
	return s.new(StmtGlobal, span, PayloadID(payload))
}

func (s *Stmts) Global(id StmtID) (*StmtGlobalData, bool) {
	p, ok := s.payload(id, StmtGlobal)
	if !ok {
		return nil, false
	}
	return s.Globals.Get(p), true
}

func (s *Stmts) NewType(span source.Span, data StmtTypeData) StmtID {
	payload := s.Types.Allocate(data)
	return s.new(StmtType, span, PayloadID(payload))
}

func (s *Stmts) Type(id StmtID) (*StmtTypeData, bool) {
	p, ok := s.payload(id, StmtType)
	if !ok {
		return nil, false
	}
	return s.Types.Get(p), true
}

func (s *Stmts) NewImport(span source.Span, path string, pathSpan source.Span) StmtID {
	payload := s.Imports.Allocate(StmtImportData{Path: path, PathSpan: pathSpan})
	return s.new(StmtImport, span, PayloadID(payload))
}

func (s *Stmts) Import(id StmtID) (*StmtImportData, bool) {
	p, ok := s.payload(id, StmtImport)
	if !ok {
		return nil, false
	}
	return s.Imports.Get(p), true
}

func (s *Stmts) NewMetadata(span source.Span, text string) StmtID {
	payload := s.Metadatas.Allocate(StmtMetadataData{Text: text})
	return s.new(StmtMetadata, span, PayloadID(payload))
}

func (s *Stmts) Metadata(id StmtID) (*StmtMetadataData, bool) {
	p, ok := s.payload(id, StmtMetadata)
	if !ok {
		return nil, false
	}
	return s.Metadatas.Get(p), true
}
