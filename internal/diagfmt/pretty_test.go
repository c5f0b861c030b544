package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"mapl/internal/diag"
	"mapl/internal/source"
)

// TestPathStyles проверяет различные режимы форматирования путей
func TestPathStyles(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("string s = \"unterminated;\n")
	fileID := fs.AddVirtual("/home/user/project/scripts/test.mapl", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 11, End: 25},
		"Unterminated string literal",
	))

	tests := []struct {
		name     string
		style    source.PathStyle
		contains string
	}{
		{name: "Absolute path", style: source.PathAbsolute, contains: "/home/user/project/scripts/test.mapl"},
		{name: "Relative path", style: source.PathRelative, contains: "scripts/test.mapl"},
		{name: "Basename only", style: source.PathBase, contains: "test.mapl:1:12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, Paths: tt.style})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "error") {
				t.Error("Expected error in output")
			}
			if !strings.Contains(output, "LEX2002") {
				t.Error("Expected LEX2002 code in output")
			}
		})
	}
}

func TestPrettyCaretUnderline(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/main.mapl", []byte("int32 x = y;\n"))

	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevError, diag.TypUnknownVariable,
		source.Span{File: fileID, Start: 10, End: 11},
		"Unable to find a variable or global property named 'y'."))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Paths: source.PathBase})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, source line and caret line, got:\n%s", buf.String())
	}
	if !strings.HasSuffix(lines[1], "int32 x = y;") {
		t.Errorf("source line = %q", lines[1])
	}
	// колонка каретки совпадает с 'y'
	srcCol := strings.Index(lines[1], "y;")
	caretCol := strings.Index(lines[2], "^")
	if srcCol != caretCol {
		t.Errorf("caret at %d, want %d:\n%s", caretCol, srcCol, buf.String())
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("#global int32 a;\n#global int32 a;\n")
	fileID := fs.AddVirtual("/api.mapl", content)

	d := diag.New(diag.SevError, diag.APIDuplicateProperty,
		source.Span{File: fileID, Start: 31, End: 32}, "Property 'a' conflicts with another property of the same name.")
	d = d.WithNote(source.Span{File: fileID, Start: 14, End: 15}, "first declared here")
	bag := diag.NewBag(2)
	bag.Add(d)

	tests := []struct {
		name      string
		showNotes bool
		want      bool
	}{
		{"notes shown", true, true},
		{"notes hidden", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Paths: source.PathBase, ShowNotes: tt.showNotes})
			got := strings.Contains(buf.String(), "note api.mapl:1:15: first declared here")
			if got != tt.want {
				t.Fatalf("note present = %v, want %v:\n%s", got, tt.want, buf.String())
			}
		})
	}
}

func TestPrettyWidthTruncates(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/main.mapl", []byte("exit;\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.SynUnexpectedToken, source.Span{File: fileID, Start: 0, End: 4},
		strings.Repeat("long message ", 20)))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Paths: source.PathBase, Width: 20})
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.HasSuffix(header, "…") {
		t.Errorf("expected truncated message, got %q", header)
	}
}

func TestPlainLine(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/scripts/main.mapl", []byte("int32 a;\nbreak;\n"))
	empty := fs.AddVirtual("/scripts/missing.mapl", nil)

	tests := []struct {
		name string
		d    diag.Diagnostic
		want string
	}{
		{
			name: "with position",
			d: diag.NewError(diag.TypOutsideLoop, source.Span{File: fileID, Start: 9, End: 14},
				"Break statements can only be used within loops."),
			want: "/scripts/main.mapl:2:1: error: Break statements can only be used within loops.",
		},
		{
			name: "file only",
			d:    diag.NewError(diag.IOLoadFileError, source.Span{File: empty}, "Unable to read script file."),
			want: "/scripts/missing.mapl: error: Unable to read script file.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainLine(fs, tt.d); got != tt.want {
				t.Errorf("PlainLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrettyFixHelp(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/main.mapl", []byte("int32 v = 1 > > 2;\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynBitshiftSpacing, source.Span{File: fileID, Start: 14, End: 15},
		"Extraneous input '>'. Bitshift operator must not have whitespace.").
		WithFix("join '>>'", diag.FixEdit{Span: source.Span{File: fileID, Start: 13, End: 14}}))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Paths: source.PathBase})
	if !strings.Contains(buf.String(), "  help: join '>>'\n") {
		t.Fatalf("missing help line:\n%s", buf.String())
	}
}
