package diagfmt

import (
	"fmt"
	"io"

	"mapl/internal/diag"
	"mapl/internal/source"
)

// PlainLine renders one diagnostic as "path:line:col: error: message".
// Spans without a position print just the path.
func PlainLine(fs *source.FileSet, d diag.Diagnostic) string {
	return location(fs, d.Primary, source.PathAsLoaded) + ": " + d.Severity.String() + ": " + d.Message
}

// Plain writes every diagnostic of bag as a PlainLine.
func Plain(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	for _, d := range bag.Items() {
		if _, err := fmt.Fprintln(w, PlainLine(fs, d)); err != nil {
			return err
		}
	}
	return nil
}

func location(fs *source.FileSet, span source.Span, style source.PathStyle) string {
	if fs == nil {
		return "<unknown>"
	}
	return fs.Location(span, style)
}

func displayPath(fs *source.FileSet, f *source.File, style source.PathStyle) string {
	return f.FormatPath(style, fs.BaseDir())
}
