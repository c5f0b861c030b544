package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"mapl/internal/ast"
	"mapl/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed script:
// 1) file.Span lies within the content and points at sf
// 2) every statement and expression span is ordered, in bounds and in sf
// 3) top-level statements sit inside file.Span, in source order
// 4) a node with a parent is covered by the parent's span
func CheckSpanInvariants(prog *ast.Program, sf *source.File) error {
	if prog == nil || prog.Builder == nil || sf == nil {
		return fmt.Errorf("nil program or file")
	}
	f := prog.File
	if f.ID != sf.ID {
		return fmt.Errorf("program belongs to file %d, want %d", f.ID, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if err := checkSpan("file", f.Span, sf.ID, lenContent); err != nil {
		return err
	}

	var prevEnd uint32
	for i, id := range f.Stmts {
		st := prog.Stmts.Get(id)
		if st == nil {
			return fmt.Errorf("nil statement for id=%d", id)
		}
		if st.Parent.IsValid() {
			return fmt.Errorf("top-level statement %d has parent %d", id, st.Parent)
		}
		if st.Span.Start < f.Span.Start || st.Span.End > f.Span.End {
			return fmt.Errorf("statement span %v is outside file span %v", st.Span, f.Span)
		}
		if i > 0 && st.Span.Start < prevEnd {
			return fmt.Errorf("statement %d starts at %d before previous end %d", id, st.Span.Start, prevEnd)
		}
		prevEnd = st.Span.End
	}

	for i, st := range prog.Stmts.Arena.Slice() {
		if err := checkSpan(fmt.Sprintf("statement %d", i+1), st.Span, sf.ID, lenContent); err != nil {
			return err
		}
		if !st.Parent.IsValid() {
			continue
		}
		parent := prog.Stmts.Get(st.Parent)
		if parent == nil {
			return fmt.Errorf("statement %d has dangling parent %d", i+1, st.Parent)
		}
		if !parent.Span.Contains(st.Span) {
			return fmt.Errorf("statement %d span %v escapes parent span %v", i+1, st.Span, parent.Span)
		}
	}

	for i, ex := range prog.Exprs.Arena.Slice() {
		if err := checkSpan(fmt.Sprintf("expression %d", i+1), ex.Span, sf.ID, lenContent); err != nil {
			return err
		}
		if !ex.Parent.IsValid() {
			continue
		}
		parent := prog.Exprs.Get(ex.Parent)
		if parent == nil {
			return fmt.Errorf("expression %d has dangling parent %d", i+1, ex.Parent)
		}
		if !parent.Span.Contains(ex.Span) {
			return fmt.Errorf("expression %d span %v escapes parent span %v", i+1, ex.Span, parent.Span)
		}
	}
	return nil
}

func checkSpan(what string, sp source.Span, file source.FileID, limit uint32) error {
	if sp.File != file {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, file)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("%s span is inverted: %v", what, sp)
	}
	if sp.End > limit {
		return fmt.Errorf("%s span end beyond content: %d > %d", what, sp.End, limit)
	}
	return nil
}
