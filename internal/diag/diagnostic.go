package diag

import (
	"bytes"
	"fmt"
	"slices"

	"mapl/internal/source"
)

// Note points at a secondary location of a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces Span with NewText. An empty span inserts, an empty
// NewText deletes.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a titled set of edits within one file.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// Apply returns content with every edit of f applied. Edits must not
// overlap and must lie within content.
func (f Fix) Apply(content []byte) ([]byte, error) {
	edits := slices.Clone(f.Edits)
	slices.SortFunc(edits, func(a, b FixEdit) int {
		return int(a.Span.Start) - int(b.Span.Start)
	})
	var out bytes.Buffer
	var pos uint32
	for _, e := range edits {
		if e.Span.End < e.Span.Start || int(e.Span.End) > len(content) {
			return nil, fmt.Errorf("fix %q: edit %v out of range", f.Title, e.Span)
		}
		if e.Span.Start < pos {
			return nil, fmt.Errorf("fix %q: overlapping edit at %v", f.Title, e.Span)
		}
		out.Write(content[pos:e.Span.Start])
		out.WriteString(e.NewText)
		pos = e.Span.End
	}
	out.Write(content[pos:])
	return out.Bytes(), nil
}
