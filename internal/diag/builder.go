package diag

import "mapl/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// Collision describes two declarations that claim the same name. Later is
// the declaration being registered, Earlier the one that was kept.
type Collision struct {
	Code                 Code
	Later, Earlier       source.Span
	LaterMsg, EarlierMsg string
}

// ReportCollision emits both errors of c: the one at the later declaration
// first, then the one at the earlier declaration.
func ReportCollision(r Reporter, c Collision) {
	ReportError(r, c.Code, c.Later, c.LaterMsg).
		WithNote(c.Earlier, "previous declaration").Emit()
	ReportError(r, c.Code, c.Earlier, c.EarlierMsg).
		WithNote(c.Later, "conflicting declaration").Emit()
}
