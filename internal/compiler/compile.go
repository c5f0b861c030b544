package compiler

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"mapl/internal/bytecode"
	"mapl/internal/diag"
	"mapl/internal/diagfmt"
	"mapl/internal/source"
	"mapl/internal/trace"
)

// MaxBytecodeLength is the largest instruction stream, header excluded, that
// the runtime's 2-byte jumps can address.
const MaxBytecodeLength = 65536

const defaultSymbolsPrefix = "MaPLSymbols"

// Options controls one compilation.
type Options struct {
	// IncludeDebugBytes adds line, variable update and scope exit markers.
	IncludeDebugBytes bool
	// SymbolsPrefix names the enum of the generated symbol table.
	SymbolsPrefix string
	Loader        Loader
	// MaxDiagnostics caps each file's diagnostics. Zero means no cap.
	MaxDiagnostics int
	Tracer         trace.Tracer
	// OnUnit is called after each file finishes compiling.
	OnUnit func(path string, failed bool)
}

func (o Options) withDefaults() Options {
	if o.Loader == nil {
		o.Loader = OSLoader{}
	}
	if o.Tracer == nil {
		o.Tracer = trace.Nop
	}
	if o.SymbolsPrefix == "" {
		o.SymbolsPrefix = defaultSymbolsPrefix
	}
	return o
}

// Result is the outcome of Compile. Files and the symbol table are only
// populated when no error was reported.
type Result struct {
	// Files maps each requested path to its bytecode, header included.
	Files map[string][]byte
	// Order lists the requested paths as given, duplicates removed.
	Order       []string
	SymbolTable string
	Symbols     map[string]uint16
	Diagnostics *diag.Bag
	FileSet     *source.FileSet
}

// Error carries every error message of a failed compilation.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "\n")
}

// Err returns an *Error when any diagnostic is an error, and nil otherwise.
func (r *Result) Err() error {
	if r.Diagnostics == nil || !r.Diagnostics.HasErrors() {
		return nil
	}
	out := &Error{}
	for _, d := range r.Diagnostics.Items() {
		if d.Severity == diag.SevError {
			out.Messages = append(out.Messages, diagfmt.PlainLine(r.FileSet, d))
		}
	}
	return out
}

// Compile compiles every script in paths together with everything they
// import. Paths must be absolute. All files share one API symbol table.
func Compile(paths []string, opts Options) *Result {
	opts = opts.withDefaults()
	fs := source.NewFileSet()
	res := &Result{
		Files:       make(map[string][]byte),
		Symbols:     make(map[string]uint16),
		Diagnostics: diag.NewBag(opts.MaxDiagnostics),
		FileSet:     fs,
	}
	span := trace.Begin(opts.Tracer, trace.ScopeDriver, "compile", 0)
	defer span.End(fmt.Sprintf("%d files", len(paths)))

	cache := NewCache(fs, opts)
	cache.parent = span.ID()
	var roots []*Unit
	for _, p := range paths {
		if !source.IsAbsolute(p) {
			id := fs.AddVirtual(p, nil)
			diag.ReportError(diag.BagReporter{Bag: res.Diagnostics}, diag.IOPathNotAbsolute, source.Span{File: id},
				"Path '"+p+"' must be specified as an absolute path.").Emit()
			continue
		}
		u := cache.Compile(p)
		if !slices.Contains(roots, u) {
			roots = append(roots, u)
			res.Order = append(res.Order, u.Path)
		}
	}
	if collect(res, cache) {
		return res
	}

	symSpan := trace.Begin(opts.Tracer, trace.ScopePass, "symbols", span.ID())
	collateSymbols(res, cache, opts.SymbolsPrefix)
	symSpan.End(fmt.Sprintf("%d symbols", len(res.Symbols)))

	r := diag.BagReporter{Bag: res.Diagnostics}
	for _, u := range roots {
		buf := bytecode.NewBuffer(r, u.File)
		buf.AppendBufferRelocated(u.buf, 0, nil)
		if err := buf.ResolveSymbols(res.Symbols); err != nil {
			diag.ReportError(r, diag.IntUnknownSymbol, source.Span{File: u.File},
				"Internal compiler error. "+err.Error()).Emit()
			continue
		}
		if buf.Len() > MaxBytecodeLength {
			diag.ReportError(r, diag.IOBytecodeTooLarge, source.Span{File: u.File}, fmt.Sprintf(
				"Compiled bytecode for file '%s' is %d bytes, which exceeds the length that can be described by MaPL's 2-byte addressing system (max of %d bytes). The compiler and runtime must be updated if scripts of this length are required.",
				u.Path, buf.Len(), MaxBytecodeLength)).Emit()
			continue
		}
		header := make([]byte, 0, 4)
		header = binary.LittleEndian.AppendUint16(header, u.stack.MaxPrimitive())
		header = binary.LittleEndian.AppendUint16(header, u.stack.MaxAllocated())
		buf.Prepend(header...)
		res.Files[u.Path] = buf.Bytes()
	}
	if res.Diagnostics.HasErrors() {
		res.Files = make(map[string][]byte)
		res.SymbolTable = ""
		res.Diagnostics.Sort()
	}
	return res
}

// collect merges the diagnostics of every loaded file into res and reports
// whether any of them is an error.
func collect(res *Result, cache *Cache) bool {
	for _, u := range cache.Units() {
		res.Diagnostics.Merge(u.Bag)
	}
	if !res.Diagnostics.HasErrors() {
		return false
	}
	res.Diagnostics.Sort()
	return true
}

// collateSymbols numbers every API descriptor in sorted order starting at 1
// and renders the C header the runtime host includes.
func collateSymbols(res *Result, cache *Cache, prefix string) {
	for _, u := range cache.Units() {
		u.registry.CollateSymbols(res.Symbols)
	}
	names := make([]string, 0, len(res.Symbols))
	for name := range res.Symbols {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s_h\n#define %s_h\nenum %s {\n", prefix, prefix, prefix)
	for i, name := range names {
		id, err := safecast.Conv[uint16](i + 1)
		if err != nil {
			diag.ReportError(diag.BagReporter{Bag: res.Diagnostics}, diag.IntAddressOverrun, source.Span{},
				"The API declares more symbols than a 2-byte symbol can describe.").Emit()
			return
		}
		res.Symbols[name] = id
		fmt.Fprintf(&b, "    %s_%s = %d,\n", prefix, name, id)
	}
	fmt.Fprintf(&b, "};\n#endif /* %s_h */\n", prefix)
	res.SymbolTable = b.String()
}
