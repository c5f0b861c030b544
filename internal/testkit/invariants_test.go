package testkit

import (
	"strings"
	"testing"

	"mapl/internal/diag"
	"mapl/internal/parser"
	"mapl/internal/source"
)

func parse(t *testing.T, src string) (*parser.Result, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mapl", []byte(src))
	file := fs.Get(id)
	res := parser.Parse(file, diag.BagReporter{Bag: diag.NewBag(32)})
	return &res, file
}

func TestCheckSpanInvariantsAcceptsParsedScripts(t *testing.T) {
	sources := []string{
		"",
		"int32 x = 1;\n",
		"#global void log(string message);\nlog(\"a\" + \"b\");\n",
		"int32 i = 0;\nwhile (i < 10) { if (i % 2 == 0) { i += 1; } else { i++; } }\n",
		"for (int32 i = 0; i < 3; i++) { continue; }\n",
		"do { break; } while (true);\n",
		// ошибки восстановления не ломают спаны
		"int32 = ;\nfloat64 y = (1 + ;\n",
	}
	for _, src := range sources {
		res, file := parse(t, src)
		if err := CheckSpanInvariants(res.Program, file); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}

func TestCheckSpanInvariantsRejectsBrokenSpans(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(res *parser.Result)
		want   string
	}{
		{
			name: "statement beyond content",
			mutate: func(res *parser.Result) {
				res.Program.Stmts.Get(res.Program.File.Stmts[0]).Span.End = 1 << 20
			},
			want: "beyond content",
		},
		{
			name: "inverted expression",
			mutate: func(res *parser.Result) {
				ex := res.Program.Exprs.Get(1)
				ex.Span.Start, ex.Span.End = ex.Span.End, ex.Span.Start-1
			},
			want: "inverted",
		},
		{
			name: "top-level statement with parent",
			mutate: func(res *parser.Result) {
				res.Program.Stmts.Get(res.Program.File.Stmts[1]).Parent = res.Program.File.Stmts[0]
			},
			want: "has parent",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, file := parse(t, "int32 x = 1 + 2;\nint32 y = x;\n")
			if err := CheckSpanInvariants(res.Program, file); err != nil {
				t.Fatalf("clean parse: %v", err)
			}
			tt.mutate(res)
			err := CheckSpanInvariants(res.Program, file)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCheckSpanInvariantsNil(t *testing.T) {
	if err := CheckSpanInvariants(nil, nil); err == nil {
		t.Fatal("expected error for nil input")
	}
}
