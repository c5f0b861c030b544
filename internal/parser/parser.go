package parser

import (
	"slices"

	"mapl/internal/ast"
	"mapl/internal/diag"
	"mapl/internal/lexer"
	"mapl/internal/source"
	"mapl/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Program *ast.Program
	// Errors is the number of syntax errors reported.
	Errors uint
}

// Parser хранит состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer  // поток токенов
	buf      []token.Token // просмотренные вперёд токены
	arenas   *ast.Builder
	file     source.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile: входная точка для разбора одного файла.
func ParseFile(file *source.File, arenas *ast.Builder, opts Options) Result {
	p := Parser{
		lx:     lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		arenas: arenas,
		file:   file.ID,
		opts:   opts,
	}
	p.lastSpan = source.Span{File: file.ID}

	prog := &ast.Program{Builder: arenas, File: ast.File{ID: file.ID}}
	start := p.peek().Span
	for !p.at(token.EOF) {
		before := p.peek()
		if id, ok := p.parseStatement(); ok {
			prog.File.Stmts = append(prog.File.Stmts, id)
			continue
		}
		p.resyncStatement()
		// гарантируем прогресс
		if p.peek().Span == before.Span && !p.at(token.EOF) {
			p.advance()
		}
	}
	prog.File.Span = start.Cover(p.peek().Span)
	return Result{Program: prog, Errors: p.opts.CurrentErrors}
}

// Parse lexes and parses file into a fresh set of arenas.
func Parse(file *source.File, r diag.Reporter) Result {
	return ParseFile(file, ast.NewBuilder(ast.Hints{}), Options{Reporter: r})
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}
