package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"mapl/internal/bytecode"
	"mapl/internal/diag"
)

func compileFiles(files map[string]string, opts Options, roots ...string) *Result {
	opts.Loader = MapLoader(files)
	return Compile(roots, opts)
}

// compileMain компилирует один файл /main.mapl
func compileMain(t *testing.T, src string) *Result {
	t.Helper()
	return compileFiles(map[string]string{"/main.mapl": src}, Options{}, "/main.mapl")
}

func mustCompile(t *testing.T, src string) []byte {
	t.Helper()
	res := compileMain(t, src)
	if err := res.Err(); err != nil {
		t.Fatalf("unexpected errors:\n%v\nsource:\n%s", err, src)
	}
	out, ok := res.Files["/main.mapl"]
	if !ok {
		t.Fatalf("no bytecode for /main.mapl")
	}
	return out
}

func codes(res *Result) []diag.Code {
	var out []diag.Code
	for _, d := range res.Diagnostics.Items() {
		out = append(out, d.Code)
	}
	return out
}

func hasCode(res *Result, code diag.Code) bool {
	for _, c := range codes(res) {
		if c == code {
			return true
		}
	}
	return false
}

func TestEmptyProgramIsHeaderOnly(t *testing.T) {
	out := mustCompile(t, "")
	if !bytes.Equal(out, []byte{0, 0, 0, 0}) {
		t.Fatalf("got % x, want 4 zero header bytes", out)
	}
}

func TestConstantFalseLoopsEmitNothing(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"while", "while (false) { int32 a = 1; a++; }"},
		{"folded while", "while (1 > 2 && true) { exit; }"},
		{"if without else", "if (false) { exit; }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustCompile(t, tt.src)
			if !bytes.Equal(out, []byte{0, 0, 0, 0}) {
				t.Errorf("got % x, want header only", out)
			}
		})
	}
}

func TestConstantFalseForKeepsInitializer(t *testing.T) {
	withLoop := mustCompile(t, "for (int32 i = 3; false; i++) { exit; }")
	initOnly := mustCompile(t, "{ int32 i = 3; }")
	if !bytes.Equal(withLoop, initOnly) {
		t.Errorf("for(false) = % x, want initializer only % x", withLoop, initOnly)
	}
}

func TestWhileTrueBreakLayout(t *testing.T) {
	out := mustCompile(t, "while (true) { break; }")
	want := []byte{
		0, 0, 0, 0,
		byte(bytecode.CursorMoveForward), 3, 0,
		byte(bytecode.CursorMoveBack), 6, 0,
	}
	if !bytes.Equal(out, want) {
		t.Errorf("got % x, want % x", out, want)
	}
}

// tail returns the bytes src emits after the bytes prefix emits. Both share
// one header because the loops below declare no variables.
func tail(t *testing.T, prefix, src string) []byte {
	t.Helper()
	head := mustCompile(t, prefix)
	out := mustCompile(t, prefix+src)
	if !bytes.Equal(out[:len(head)], head) {
		t.Fatalf("prefix changed:\n% x\nwant % x", out[:len(head)], head)
	}
	return out[len(head):]
}

func TestIfElseLayout(t *testing.T) {
	got := tail(t, "bool b = true;", "if (b) { exit; } else { exit; exit; }")
	want := []byte{
		byte(bytecode.Conditional), byte(bytecode.BooleanVariable), 0, 0, 4, 0,
		byte(bytecode.ProgramExit),
		byte(bytecode.CursorMoveForward), 2, 0,
		byte(bytecode.ProgramExit), byte(bytecode.ProgramExit),
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestDoWhileLayout(t *testing.T) {
	got := tail(t, "bool b = true;", "do { exit; } while (b);")
	want := []byte{
		byte(bytecode.ProgramExit),
		byte(bytecode.Conditional), byte(bytecode.BooleanVariable), 0, 0, 3, 0,
		// назад на начало тела
		byte(bytecode.CursorMoveBack), 10, 0,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestContinueInForRunsStep(t *testing.T) {
	step := tail(t, "bool b = true;", "b = false;")
	got := tail(t, "bool b = true;", "for (; b; b = false) { continue; }")

	// continue перескакивает ноль байт и попадает на шаг, а не на условие
	scope := append([]byte{byte(bytecode.CursorMoveForward), 0, 0}, step...)
	want := []byte{byte(bytecode.Conditional), byte(bytecode.BooleanVariable), 0, 0, byte(len(scope) + 3), 0}
	want = append(want, scope...)
	want = append(want, byte(bytecode.CursorMoveBack), byte(len(want)+3), 0)
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestMembersOfGenericAncestor(t *testing.T) {
	const api = "#type A<T> { T val; T get(T x); T[int32]; }\n" +
		"#type B<U> : A<U> { }\n" +
		"#type C : B<float64> { }\n" +
		"#global C c;\n"
	tests := []struct {
		name string
		src  string
		call bytecode.Instruction
	}{
		{"property", "float64 f = c.val;", bytecode.Float64FunctionInvocation},
		{"function", "float64 f = c.get(1.5);", bytecode.Float64FunctionInvocation},
		{"subscript", "float64 f = c[0];", bytecode.Float64SubscriptInvocation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustCompile(t, api+tt.src)
			want := []byte{byte(bytecode.Float64Assign), 0, 0, byte(tt.call)}
			if len(out) < 8 || !bytes.Equal(out[4:8], want) {
				t.Errorf("got % x, want header then % x", out, want)
			}
		})
	}

	res := compileMain(t, api+"int32 n = c.val;")
	if !hasCode(res, diag.TypMismatch) {
		t.Errorf("float64 member assigned to int32: codes %v", codes(res))
	}
}

func TestDependencyVariablesAreRebased(t *testing.T) {
	files := map[string]string{
		"/a.mapl": "#import \"b.mapl\"\nint32 z = 3;\n",
		"/b.mapl": "int32 x = 1;\nint32 y = 2;\n",
	}
	res := compileFiles(files, Options{}, "/a.mapl")
	if err := res.Err(); err != nil {
		t.Fatal(err)
	}
	out := res.Files["/a.mapl"]
	// b занимает 0 и 4, собственная переменная a идёт по адресу 8
	flat := mustCompile(t, "int32 x = 1;\nint32 y = 2;\nint32 z = 3;\n")
	if !bytes.Equal(out, flat) {
		t.Errorf("spliced % x\nwant % x", out, flat)
	}
	if out[0] != 12 || out[1] != 0 {
		t.Errorf("max primitive bytes = % x, want 0c 00", out[:2])
	}
}

func TestStringConcatenation(t *testing.T) {
	compound := mustCompile(t, "string s = \"a\"; s += \"b\";")
	plain := mustCompile(t, "string s = \"a\"; s = s + \"b\";")
	if !bytes.Equal(compound, plain) {
		t.Errorf("+= % x, + % x", compound, plain)
	}
	if !bytes.Contains(plain, []byte{byte(bytecode.StringConcat), byte(bytecode.StringVariable)}) {
		t.Errorf("no string concatenation in % x", plain)
	}
}

func TestSyntaxErrorStopsUnit(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		followOn diag.Code
	}{
		{"api checks", "#type A : Missing { }\nint32 = ;\n", diag.APIMissingType},
		{"imports", "#import \"nope.mapl\"\nint32 = ;\n", diag.IOImportNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compileMain(t, tt.src)
			if res.Err() == nil {
				t.Fatal("expected a syntax error")
			}
			if hasCode(res, tt.followOn) {
				t.Errorf("unexpected %s after a syntax error: %v", tt.followOn.ID(), codes(res))
			}
		})
	}
}

func TestBytecodeLimitExcludesHeader(t *testing.T) {
	tests := []struct {
		exits   int
		wantErr bool
	}{
		{MaxBytecodeLength, false},
		{MaxBytecodeLength + 1, true},
	}
	for _, tt := range tests {
		res := compileMain(t, strings.Repeat("exit;", tt.exits))
		if got := hasCode(res, diag.IOBytecodeTooLarge); got != tt.wantErr {
			t.Errorf("%d bytes: too large = %v, want %v", tt.exits, got, tt.wantErr)
		}
		if !tt.wantErr && len(res.Files["/main.mapl"]) != tt.exits+4 {
			t.Errorf("%d bytes: artifact is %d bytes", tt.exits, len(res.Files["/main.mapl"]))
		}
	}
}

func TestDivisionByPowerOfTwoMatchesShift(t *testing.T) {
	tests := []struct {
		name       string
		divide     string
		shift      string
		wantEquals bool
	}{
		{
			name:       "compound unsigned",
			divide:     "uint32 x = 16; x /= 4;",
			shift:      "uint32 x = 16; x >>= 2;",
			wantEquals: true,
		},
		{
			name:       "binary unsigned",
			divide:     "uint64 y = 16; uint64 x = y / 4;",
			shift:      "uint64 y = 16; uint64 x = y >> 2;",
			wantEquals: true,
		},
		{
			// знаковое деление не заменяется сдвигом
			name:       "compound signed",
			divide:     "int32 x = 16; x /= 4;",
			shift:      "int32 x = 16; x >>= 2;",
			wantEquals: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			div := mustCompile(t, tt.divide)
			shr := mustCompile(t, tt.shift)
			if got := bytes.Equal(div, shr); got != tt.wantEquals {
				t.Errorf("equal = %v, want %v\n/: % x\n>>: % x", got, tt.wantEquals, div, shr)
			}
		})
	}
}

func TestMultiplyByPowerOfTwoMatchesShift(t *testing.T) {
	mul := mustCompile(t, "int64 y = 3; int64 x = 8 * y;")
	shl := mustCompile(t, "int64 y = 3; int64 x = y << 3;")
	if !bytes.Equal(mul, shl) {
		t.Errorf("8*y = % x, y<<3 = % x", mul, shl)
	}
}

func TestCharLiteralRange(t *testing.T) {
	tests := []struct {
		src     string
		wantErr bool
	}{
		{"char c = 255;", false},
		{"char c = 256;", true},
		{"char c = 0; c = 256;", true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := compileMain(t, tt.src)
			if got := hasCode(res, diag.RngOutOfRange); got != tt.wantErr {
				t.Errorf("out of range reported = %v, want %v (codes %v)", got, tt.wantErr, codes(res))
			}
		})
	}
}

func TestImportCycleIsReported(t *testing.T) {
	files := map[string]string{
		"/a.mapl": "#import \"b.mapl\"\nint32 a = 1;\n",
		"/b.mapl": "#import \"a.mapl\"\nint32 b = 2;\n",
	}
	res := compileFiles(files, Options{}, "/a.mapl")
	if len(res.Files) != 0 {
		t.Errorf("no artifact expected on failure, got %d", len(res.Files))
	}
	var found bool
	for _, d := range res.Diagnostics.Items() {
		if d.Code != diag.IOImportCycle {
			continue
		}
		found = true
		if !strings.Contains(d.Message, "a.mapl -> b.mapl -> a.mapl") {
			t.Errorf("cycle message = %q", d.Message)
		}
	}
	if !found {
		t.Fatalf("expected import cycle, got %v", codes(res))
	}
	if hasCode(res, diag.APIInheritanceCycle) {
		t.Errorf("import cycle must not be reported as an inheritance cycle")
	}
}

func TestReadonlySubscriptAssignment(t *testing.T) {
	const api = "#type Grid { %s int32[int32]; }\n#global Grid grid;\n"
	tests := []struct {
		name     string
		modifier string
		wantErr  bool
	}{
		{"readonly", "readonly", true},
		{"writable", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compileMain(t, fmt.Sprintf(api, tt.modifier)+"grid[0] = 5;\n")
			if got := hasCode(res, diag.TypReadonly); got != tt.wantErr {
				t.Fatalf("readonly reported = %v, want %v (codes %v)", got, tt.wantErr, codes(res))
			}
			if !tt.wantErr {
				out := res.Files["/main.mapl"]
				if len(out) < 5 || out[4] != byte(bytecode.AssignSubscript) {
					t.Errorf("expected subscript assignment, got % x", out)
				}
			}
		})
	}
}

func TestSharedDescriptorGetsOneSymbol(t *testing.T) {
	files := map[string]string{
		"/a.mapl": "#global void log(string message);\nlog(\"a\");\n",
		"/b.mapl": "#global void log(string message);\nlog(\"b\");\n",
	}
	res := compileFiles(files, Options{SymbolsPrefix: "Demo"}, "/a.mapl", "/b.mapl")
	if err := res.Err(); err != nil {
		t.Fatalf("unexpected errors: %v", err)
	}
	if len(res.Symbols) != 1 || res.Symbols["GLOBAL_log_string"] != 1 {
		t.Fatalf("symbols = %v", res.Symbols)
	}
	if !strings.Contains(res.SymbolTable, "    Demo_GLOBAL_log_string = 1,\n") {
		t.Errorf("symbol table:\n%s", res.SymbolTable)
	}
	if !strings.HasPrefix(res.SymbolTable, "#ifndef Demo_h\n#define Demo_h\nenum Demo {\n") {
		t.Errorf("symbol table header:\n%s", res.SymbolTable)
	}
	// invocation, no prefix, symbol 1, one parameter
	call := []byte{byte(bytecode.UnusedReturnFunctionInvocation), byte(bytecode.NoOp), 1, 0, 1}
	for _, path := range []string{"/a.mapl", "/b.mapl"} {
		if !bytes.Contains(res.Files[path], call) {
			t.Errorf("%s: call with symbol 1 not found in % x", path, res.Files[path])
		}
	}
}

func TestDiamondImportIsSplicedOnce(t *testing.T) {
	files := map[string]string{
		"/lib/base.mapl":  "int32 shared = 7;\n",
		"/lib/left.mapl":  "#import \"base.mapl\"\nint32 l = shared;\n",
		"/lib/right.mapl": "#import \"base.mapl\"\nint32 r = shared;\n",
		"/main.mapl":      "#import \"lib/left.mapl\"\n#import \"lib/right.mapl\"\nint32 m = l + r;\n",
	}
	var units []string
	res := compileFiles(files, Options{OnUnit: func(path string, failed bool) {
		units = append(units, path)
	}}, "/main.mapl")
	if err := res.Err(); err != nil {
		t.Fatalf("unexpected errors: %v", err)
	}
	out := res.Files["/main.mapl"]
	// shared, l, r, m: четыре int32 без повторов
	if out[0] != 16 || out[1] != 0 {
		t.Errorf("max primitive bytes = %d, want 16", int(out[0])|int(out[1])<<8)
	}
	if len(units) != 4 {
		t.Errorf("units compiled = %v, want each file once", units)
	}
}

func TestNonAbsolutePathIsRejected(t *testing.T) {
	res := compileFiles(map[string]string{"main.mapl": "exit;"}, Options{}, "main.mapl")
	if !hasCode(res, diag.IOPathNotAbsolute) {
		t.Fatalf("codes = %v", codes(res))
	}
	var cerr *Error
	if !errors.As(res.Err(), &cerr) {
		t.Fatalf("Err() = %v, want *Error", res.Err())
	}
	if len(cerr.Messages) != 1 || !strings.Contains(cerr.Messages[0], "must be specified as an absolute path") {
		t.Errorf("messages = %q", cerr.Messages)
	}
}

func TestMissingImport(t *testing.T) {
	res := compileMain(t, "#import \"missing.mapl\"\nexit;\n")
	if !hasCode(res, diag.IOImportNotFound) {
		t.Fatalf("codes = %v", codes(res))
	}
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		msg  string
	}{
		{"break outside loop", "break;", diag.TypOutsideLoop, "Break statements can only be used within loops."},
		{"continue outside loop", "if (true) { continue; }", diag.TypOutsideLoop, "Continue statements can only be used within loops."},
		{"unknown variable", "int32 a = b;", diag.TypUnknownVariable, "Unable to find a variable or global property named 'b'."},
		{"no effect", "int32 a = 1;\na;", diag.TypNoEffect, "This expression has no effect."},
		{"bitwise on float", "float32 f = 1.5; f |= 1;", diag.TypOperatorMismatch, "This operator can only be used on integral expressions."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compileMain(t, tt.src)
			var found bool
			for _, d := range res.Diagnostics.Items() {
				if d.Code == tt.code && d.Message == tt.msg {
					found = true
				}
			}
			if !found {
				t.Errorf("want [%s] %q, got:\n%v", tt.code.ID(), tt.msg, res.Err())
			}
			if len(res.Files) != 0 {
				t.Errorf("failed compilation must not produce artifacts")
			}
		})
	}
}

func TestDiagnosticsGolden(t *testing.T) {
	res := compileMain(t, "break;\nif (true) {\n  continue;\n}\n")
	res.FileSet.SetBaseDir("/")
	want := strings.Join([]string{
		"error TYP5015 main.mapl:1:1 Break statements can only be used within loops.",
		"error TYP5015 main.mapl:3:3 Continue statements can only be used within loops.",
	}, "\n")
	if got := diag.Golden(res.Diagnostics, res.FileSet, true); got != want {
		t.Fatalf("golden mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestBreakInsideLoopCompiles(t *testing.T) {
	for _, src := range []string{
		"int32 i = 0; while (i < 3) { i++; if (i == 2) { break; } }",
		"for (int32 i = 0; i < 3; i++) { continue; }",
		"int32 i = 0; do { i++; continue; } while (i < 3);",
	} {
		mustCompile(t, src)
	}
}

func TestDebugBytesStartWithLine(t *testing.T) {
	res := compileFiles(map[string]string{"/main.mapl": "\nint32 a = 1;\n"}, Options{IncludeDebugBytes: true}, "/main.mapl")
	if err := res.Err(); err != nil {
		t.Fatalf("unexpected errors: %v", err)
	}
	out := res.Files["/main.mapl"]
	if len(out) < 7 || out[4] != byte(bytecode.DebugLine) || out[5] != 2 || out[6] != 0 {
		t.Errorf("expected debug line 2 first, got % x", out)
	}
	plain := mustCompile(t, "\nint32 a = 1;\n")
	if len(plain) >= len(out) {
		t.Errorf("debug build (%d bytes) should be larger than plain (%d bytes)", len(out), len(plain))
	}
}

func TestProperty_CharLiteralBoundary(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("char accepts exactly 0..255", prop.ForAll(
		func(n int) bool {
			res := compileFiles(map[string]string{"/main.mapl": fmt.Sprintf("char c = %d;", n)}, Options{}, "/main.mapl")
			return hasCode(res, diag.RngOutOfRange) == (n > 255)
		},
		gen.IntRange(0, 1024),
	))
	properties.TestingRun(t)
}

func TestProperty_UnsignedDivideIsShift(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("x /= 2^k emits x >>= k", prop.ForAll(
		func(k uint) bool {
			div := compileFiles(map[string]string{"/main.mapl": fmt.Sprintf("uint64 x = 99; x /= %d;", uint64(1)<<k)}, Options{}, "/main.mapl")
			shr := compileFiles(map[string]string{"/main.mapl": fmt.Sprintf("uint64 x = 99; x >>= %d;", k)}, Options{}, "/main.mapl")
			if div.Err() != nil || shr.Err() != nil {
				return false
			}
			return bytes.Equal(div.Files["/main.mapl"], shr.Files["/main.mapl"])
		},
		gen.UIntRange(1, 62),
	))
	properties.TestingRun(t)
}
