package parser

import (
	"testing"

	"mapl/internal/diag"
)

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"a * b % c", "(* a (% b c))"},
		{"a % b * c", "(* (% a b) c)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"a << 1 + 2", "(<< a (+ 1 2))"},
		{"a & b | c ^ d", "(^ (| (& a b) c) d)"},
		{"a ?? b ?? c", "(?? a (?? b c))"},
		{"a == b < c", "(< (== a b) c)"},
		{"a && b || c", "(|| (&& a b) c)"},
		{"a < b && c", "(&& (< a b) c)"},
		{"a ? b : c ? d : e", "(? a b (? c d e))"},
		{"!a && -b", "(&& (! a) (- b))"},
		{"~x.y[2]", "(~ x.y[2])"},
		{"-(1 + 2)", "(- {(+ 1 2)})"},
		{"a >> 2", "(>> a 2)"},
		{"a >> 2 > b", "(> (>> a 2) b)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := parseOK(t, "int32 v = "+tt.src+";")
			if got := renderExpr(prog, initExpr(t, prog)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestObjectExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"f()", "f()"},
		{"f(1, g(x))", "f(1, g(x))"},
		{"a.b.c", "a.b.c"},
		{"a.b(1).c[i + 1]", "a.b(1).c[(+ i 1)]"},
		{"list[0].name", "list[0].name"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := parseOK(t, "string v = "+tt.src+";")
			if got := renderExpr(prog, initExpr(t, prog)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCastDisambiguation(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(int32)x", "(cast int32 x)"},
		{"(float64)-x", "(cast float64 (- x))"},
		{"(Node)x", "(cast Node x)"},
		{"(Map<string,Node>)x.y", "(cast Map<string,Node> x.y)"},
		{"(List<List<int32>>)NULL", "(cast List<List<int32>> NULL)"},
		{"(a) - b", "(- {a} b)"},
		{"(a) + b", "(+ {a} b)"},
		{"(a < b) ? 1 : 2", "(? {(< a b)} 1 2)"},
		{"(int32)(int64)1", "(cast int32 (cast int64 1))"},
		{"(int32)a + b", "(+ (cast int32 a) b)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := parseOK(t, "int32 v = "+tt.src+";")
			if got := renderExpr(prog, initExpr(t, prog)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestShiftRightNeedsAdjacentBrackets(t *testing.T) {
	const src = "int32 v = a > > 2;"
	prog, rep := parseSource(t, src)
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.SynBitshiftSpacing {
		t.Fatalf("expected one SynBitshiftSpacing, got %s", rep.summary())
	}
	fixes := rep.diagnostics[0].Fixes
	if len(fixes) != 1 {
		t.Fatalf("expected one fix, got %d", len(fixes))
	}
	fixed, err := fixes[0].Apply([]byte(src))
	if err != nil || string(fixed) != "int32 v = a >> 2;" {
		t.Errorf("fixed = %q, err = %v", fixed, err)
	}
	// выражение всё равно разбирается как сдвиг
	if got := renderExpr(prog, initExpr(t, prog)); got != "(>> a 2)" {
		t.Errorf("got %s", got)
	}
}

func TestMissingOperand(t *testing.T) {
	_, rep := parseSource(t, "int32 v = 1 + ;")
	if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != diag.SynExpectExpression {
		t.Fatalf("expected SynExpectExpression, got %s", rep.summary())
	}
}
