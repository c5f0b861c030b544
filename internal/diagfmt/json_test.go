package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/token"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("int32 x = 1;\nstring s = \"unterminated\n")
	fileID := fs.AddVirtual("/scripts/test.mapl", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 24, End: 37},
		"Unterminated string literal",
	))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		Paths:            source.PathBase,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	// Парсим JSON чтобы убедиться что он валидный
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d (count=%d)", len(output.Diagnostics), output.Count)
	}

	d := output.Diagnostics[0]
	if d.Severity != "error" {
		t.Errorf("Expected severity=error, got %s", d.Severity)
	}
	if d.Code != "LEX2002" {
		t.Errorf("Expected code=LEX2002, got %s", d.Code)
	}
	if d.Title != diag.LexUnterminatedString.Title() {
		t.Errorf("Expected title=%q, got %q", diag.LexUnterminatedString.Title(), d.Title)
	}
	if d.Location.File != "test.mapl" {
		t.Errorf("Expected file=test.mapl, got %s", d.Location.File)
	}
	if d.Location.StartByte != 24 || d.Location.EndByte != 37 {
		t.Errorf("Expected bytes 24..37, got %d..%d", d.Location.StartByte, d.Location.EndByte)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 12 {
		t.Errorf("Expected 2:12, got %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
}

func TestJSONOptions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/main.mapl", []byte("break;\ncontinue;\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.TypOutsideLoop, source.Span{File: fileID, Start: 0, End: 5},
		"Break statements can only be used within loops.").
		WithNote(source.Span{File: fileID, Start: 0, End: 5}, "no enclosing loop"))
	bag.Add(diag.NewError(diag.TypOutsideLoop, source.Span{File: fileID, Start: 7, End: 15},
		"Continue statements can only be used within loops."))

	tests := []struct {
		name      string
		opts      JSONOpts
		count     int
		notes     bool
		positions bool
	}{
		{name: "defaults", opts: JSONOpts{}, count: 2},
		{name: "max", opts: JSONOpts{Max: 1}, count: 1},
		{name: "notes", opts: JSONOpts{IncludeNotes: true}, count: 2, notes: true},
		{name: "positions", opts: JSONOpts{IncludePositions: true}, count: 2, positions: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := BuildDiagnosticsOutput(bag, fs, tt.opts)
			if out.Count != tt.count {
				t.Fatalf("count = %d, want %d", out.Count, tt.count)
			}
			if got := len(out.Diagnostics[0].Notes) > 0; got != tt.notes {
				t.Errorf("notes present = %v, want %v", got, tt.notes)
			}
			if got := out.Diagnostics[0].Location.StartLine != 0; got != tt.positions {
				t.Errorf("positions present = %v, want %v", got, tt.positions)
			}
		})
	}
}

func TestSarifRulesAndResults(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/main.mapl", []byte("int32 a = b;\nbreak;\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.TypUnknownVariable, source.Span{File: fileID, Start: 10, End: 11},
		"Unable to find a variable or global property named 'b'."))
	bag.Add(diag.NewError(diag.TypOutsideLoop, source.Span{File: fileID, Start: 13, End: 18},
		"Break statements can only be used within loops."))
	bag.Add(diag.NewError(diag.TypOutsideLoop, source.Span{File: fileID, Start: 13, End: 18},
		"Break statements can only be used within loops."))

	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "mapl", ToolVersion: "test", InvocationArgs: []string{"build", "/main.mapl"}}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	if len(run.Results) != 3 {
		t.Errorf("results = %d, want 3", len(run.Results))
	}
	// правила уникальны и отсортированы
	rules := run.Tool.Driver.Rules
	if len(rules) != 2 || rules[0].ID != "TYP5007" || rules[1].ID != "TYP5015" {
		t.Errorf("rules = %+v", rules)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("invocation = %+v", run.Invocations)
	}
	region := run.Results[0].Locations[0].PhysicalLocation.Region
	if region.StartLine != 1 || region.StartColumn != 11 {
		t.Errorf("region = %+v", region)
	}
}

func TestFormatTokensJSON(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/main.mapl", []byte("exit;"))
	toks := []token.Token{
		{Kind: token.KwExit, Span: source.Span{File: fileID, Start: 0, End: 4}, Text: "exit"},
		{Kind: token.Semicolon, Span: source.Span{File: fileID, Start: 4, End: 5}, Text: ";"},
		{Kind: token.EOF, Span: source.Span{File: fileID, Start: 5, End: 5}},
		{Kind: token.Ident, Text: "after-eof"},
	}

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks, fs); err != nil {
		t.Fatalf("FormatTokensJSON() error: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("tokens after EOF must be dropped, got %d", len(out))
	}
	if out[1].Col != 5 || out[1].Text != ";" {
		t.Errorf("semicolon = %+v", out[1])
	}
}

func TestJSONFixesAndSummary(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/main.mapl", []byte("int32 v = a > > 2\n"))

	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SynBitshiftSpacing, source.Span{File: fileID, Start: 14, End: 15},
		"Extraneous input '>'. Bitshift operator must not have whitespace.").
		WithFix("join '>>'", diag.FixEdit{Span: source.Span{File: fileID, Start: 13, End: 14}}))
	// не влезает в лимит
	bag.Add(diag.NewError(diag.SynExpectSemicolon, source.Span{File: fileID, Start: 17, End: 17},
		"Mismatched input '<EOF>'. Expected ';'."))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludePositions: true})
	if out.Count != 1 || out.Errors != 1 || out.Dropped != 1 {
		t.Fatalf("count=%d errors=%d dropped=%d", out.Count, out.Errors, out.Dropped)
	}
	fixes := out.Diagnostics[0].Fixes
	if len(fixes) != 1 || len(fixes[0].Edits) != 1 {
		t.Fatalf("fixes = %+v", fixes)
	}
	edit := fixes[0].Edits[0]
	if edit.Text != "" || edit.Location.StartByte != 13 || edit.Location.StartCol != 14 {
		t.Errorf("edit = %+v", edit)
	}
}

func TestSarifFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/main.mapl", []byte("exit\n"))

	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynExpectSemicolon, source.Span{File: fileID, Start: 5, End: 5},
		"Mismatched input '<EOF>'. Expected ';'.").
		WithFix("insert ';'", diag.FixEdit{Span: source.Span{File: fileID, Start: 4, End: 4}, NewText: ";"}))

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "mapl"}); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	fixes := log.Runs[0].Results[0].Fixes
	if len(fixes) != 1 || len(fixes[0].ArtifactChanges) != 1 {
		t.Fatalf("fixes = %+v", fixes)
	}
	change := fixes[0].ArtifactChanges[0]
	if change.ArtifactLocation.URI != "/main.mapl" || len(change.Replacements) != 1 {
		t.Fatalf("change = %+v", change)
	}
	rep := change.Replacements[0]
	if rep.DeletedRegion.ByteOffset == nil || *rep.DeletedRegion.ByteOffset != 4 || *rep.DeletedRegion.ByteLength != 0 {
		t.Errorf("region = %+v", rep.DeletedRegion)
	}
	if rep.InsertedContent == nil || rep.InsertedContent.Text != ";" {
		t.Errorf("inserted = %+v", rep.InsertedContent)
	}
}
