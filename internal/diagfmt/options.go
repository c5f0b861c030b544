package diagfmt

import "mapl/internal/source"

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color     bool
	Context   int8 // строк контекста вокруг основной
	Paths     source.PathStyle
	Width     uint8 // ширина сообщения, 0 без ограничения
	ShowNotes bool
}

// JSONOpts configures JSON. Max truncates the printed list, not the bag.
type JSONOpts struct {
	IncludePositions bool
	IncludeNotes     bool
	Paths            source.PathStyle
	Max              int
}

// SarifRunMeta fills the tool and invocation sections of a SARIF run.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
