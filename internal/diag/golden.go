package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"mapl/internal/source"
)

// goldenLine is one rendered entry: a diagnostic or one of its notes.
type goldenLine struct {
	sev  string
	code string
	path string
	line uint32
	col  uint32
	msg  string
}

// Golden renders the diagnostics of bag one per line as
// "severity CODE path:line:col message", sorted by path, position and code.
// Paths are relative to the FileSet base. Notes follow as "note" lines when
// includeNotes is set. Compiler tests compare against this form.
func Golden(bag *Bag, fs *source.FileSet, includeNotes bool) string {
	if bag == nil {
		return ""
	}
	return FormatGoldenDiagnostics(bag.Items(), fs, includeNotes)
}

// FormatGoldenDiagnostics is Golden over a plain slice.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]goldenLine, 0, len(diags))
	for _, d := range diags {
		if l, ok := goldenAt(fs, d.Primary, d.Severity.String(), d.Code, d.Message); ok {
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			if l, ok := goldenAt(fs, note.Span, "note", d.Code, note.Msg); ok {
				lines = append(lines, l)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b goldenLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.msg)
	}
	return strings.Join(out, "\n")
}

func goldenAt(fs *source.FileSet, span source.Span, sev string, code Code, msg string) (goldenLine, bool) {
	if int(span.File) >= fs.Len() {
		return goldenLine{}, false
	}
	file := fs.Get(span.File)
	if file == nil {
		return goldenLine{}, false
	}
	l := goldenLine{
		sev:  sev,
		code: code.ID(),
		path: goldenPath(file.FormatPath(source.PathRelative, fs.BaseDir())),
		msg:  strings.Join(strings.Fields(msg), " "),
	}
	// у виртуальных файлов без содержимого позиции нет
	if int(span.Start) <= len(file.Content) {
		start, _ := fs.Resolve(span)
		l.line, l.col = start.Line, start.Col
	}
	return l, true
}

func goldenPath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}
