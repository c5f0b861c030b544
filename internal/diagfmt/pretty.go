package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mapl/internal/diag"
	"mapl/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом
// и строки "help: <title>" для каждого исправления.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := printer{w: w, fs: fs, opts: opts}
	p.styles(opts.Color)
	for _, d := range bag.Items() {
		p.diagnostic(d)
	}
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts

	errorC, warnC, infoC, noteC, helpC, pathC, gutterC, caretC *color.Color
}

func (p *printer) styles(enabled bool) {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	p.errorC = mk(color.FgRed, color.Bold)
	p.warnC = mk(color.FgYellow, color.Bold)
	p.infoC = mk(color.FgCyan, color.Bold)
	p.noteC = mk(color.FgBlue)
	p.helpC = mk(color.FgGreen)
	p.pathC = mk(color.Bold)
	p.gutterC = mk(color.FgHiBlack)
	p.caretC = mk(color.FgGreen, color.Bold)
}

func (p *printer) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.errorC
	case diag.SevWarning:
		return p.warnC
	}
	return p.infoC
}

func (p *printer) diagnostic(d diag.Diagnostic) {
	fmt.Fprintf(p.w, "%s: %s %s: %s\n",
		p.pathC.Sprint(location(p.fs, d.Primary, p.opts.Paths)),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		p.wrap(d.Message))
	p.snippet(d.Primary)
	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(p.w, "  %s %s: %s\n", p.noteC.Sprint("note"), location(p.fs, n.Span, p.opts.Paths), n.Msg)
			p.snippet(n.Span)
		}
	}
	for _, fix := range d.Fixes {
		fmt.Fprintf(p.w, "  %s: %s\n", p.helpC.Sprint("help"), fix.Title)
	}
}

// snippet prints the primary line with Context lines around it and marks the span.
func (p *printer) snippet(span source.Span) {
	if p.fs == nil || int(span.File) >= p.fs.Len() {
		return
	}
	f := p.fs.Get(span.File)
	if len(f.Content) == 0 {
		return
	}
	start, end := p.fs.Resolve(span)
	ctx := uint32(max(p.opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	width := len(fmt.Sprint(last))

	for line := first; line <= last; line++ {
		text := f.GetLine(line)
		if text == "" && line > start.Line {
			break
		}
		text = strings.ReplaceAll(text, "\t", "    ")
		fmt.Fprintf(p.w, "%s %s\n", p.gutterC.Sprintf("%*d |", width, line), text)
		if line != start.Line {
			continue
		}
		raw := f.GetLine(line)
		col := int(start.Col) - 1
		col = min(col, len(raw))
		pad := runewidth.StringWidth(strings.ReplaceAll(raw[:col], "\t", "    "))
		n := 1
		if end.Line == start.Line && end.Col > start.Col {
			stop := min(int(end.Col)-1, len(raw))
			n = max(runewidth.StringWidth(raw[col:stop]), 1)
		}
		marks := "^" + strings.Repeat("~", n-1)
		fmt.Fprintf(p.w, "%s %s%s\n", p.gutterC.Sprintf("%*s |", width, ""), strings.Repeat(" ", pad), p.caretC.Sprint(marks))
	}
}

// wrap truncates messages to Width display columns.
func (p *printer) wrap(msg string) string {
	if p.opts.Width == 0 {
		return msg
	}
	return runewidth.Truncate(msg, int(p.opts.Width), "…")
}
