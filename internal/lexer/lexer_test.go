package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"mapl/internal/diag"
	"mapl/internal/lexer"
	"mapl/internal/source"
	"mapl/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) ErrorMessages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return messages
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mapl", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

// collectAllTokens собирает все токены до EOF
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.ErrorMessages())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	if len(reporter.diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", reporter.ErrorMessages())
	}
}

func expectSingleToken(t *testing.T, input string, expectedKind token.Kind, expectedText string) {
	t.Helper()
	lx, _ := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != expectedKind {
		t.Errorf("Expected kind %v, got %v", expectedKind, tok.Kind)
	}
	if tok.Text != expectedText {
		t.Errorf("Expected text %q, got %q", expectedText, tok.Text)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func TestIdentifiersAndKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"foo", token.Ident},
		{"_bar", token.Ident},
		{"x123", token.Ident},
		{"While", token.Ident}, // ключевые слова регистрозависимые
		{"while", token.KwWhile},
		{"for", token.KwFor},
		{"do", token.KwDo},
		{"exit", token.KwExit},
		{"int32", token.KwInt32},
		{"uint64", token.KwUInt64},
		{"float32", token.KwFloat32},
		{"readonly", token.KwReadonly},
		{"void", token.KwVoid},
		{"NULL", token.KwNull},
		{"null", token.Ident},
		{"true", token.KwTrue},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestDirectives(t *testing.T) {
	expectTokens(t, "#global #type #import", []token.Kind{token.DirGlobal, token.DirType, token.DirImport})

	lx, reporter := makeTestLexer("#define")
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Errorf("expected Invalid, got %v", tok.Kind)
	}
	if len(reporter.diagnostics) != 1 || reporter.diagnostics[0].Code != diag.LexUnknownChar {
		t.Errorf("expected one LexUnknownChar, got %v", reporter.ErrorMessages())
	}
}

func TestNumbers(t *testing.T) {
	expectSingleToken(t, "42", token.IntLit, "42")
	expectSingleToken(t, "3.25", token.FloatLit, "3.25")
	// точка без цифр это отдельный оператор
	expectTokens(t, "1.x", []token.Kind{token.IntLit, token.Dot, token.Ident})
	expectTokens(t, "1.5.2", []token.Kind{token.FloatLit, token.Dot, token.IntLit})
}

func TestStrings(t *testing.T) {
	expectSingleToken(t, `"hi\n\"there\""`, token.StringLit, `"hi\n\"there\""`)

	tests := []struct {
		name  string
		input string
		fixed string // результат применения исправления
	}{
		{"eof", `"abc`, `"abc"`},
		{"newline", "\"abc\nx", "\"abc\"\nx"},
		{"trailing backslash", `"abc\`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, reporter := makeTestLexer(tt.input)
			if tok := lx.Next(); tok.Kind != token.Invalid {
				t.Errorf("expected Invalid, got %v", tok.Kind)
			}
			if len(reporter.diagnostics) != 1 || reporter.diagnostics[0].Code != diag.LexUnterminatedString {
				t.Fatalf("expected LexUnterminatedString, got %v", reporter.ErrorMessages())
			}
			fixes := reporter.diagnostics[0].Fixes
			if tt.fixed == "" {
				if len(fixes) != 0 {
					t.Errorf("unexpected fix %+v", fixes)
				}
				return
			}
			if len(fixes) != 1 {
				t.Fatalf("expected a fix, got %d", len(fixes))
			}
			got, err := fixes[0].Apply([]byte(tt.input))
			if err != nil || string(got) != tt.fixed {
				t.Errorf("fixed = %q, err = %v, want %q", got, err, tt.fixed)
			}
		})
	}
}

func TestMetadata(t *testing.T) {
	expectSingleToken(t, "<? any text ?>", token.Metadata, "<? any text ?>")
	expectTokens(t, "a < b ? c : d", []token.Kind{
		token.Ident, token.Lt, token.Ident, token.Question, token.Ident, token.Colon, token.Ident,
	})

	lx, reporter := makeTestLexer("<? never closed")
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Errorf("expected Invalid, got %v", tok.Kind)
	}
	if len(reporter.diagnostics) != 1 || reporter.diagnostics[0].Code != diag.LexUnterminatedMetadata {
		t.Errorf("expected LexUnterminatedMetadata, got %v", reporter.ErrorMessages())
	}
}

func TestOperatorsGreedy(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Kind
	}{
		{"<<=", []token.Kind{token.ShlAssign}},
		{">>=", []token.Kind{token.ShrAssign}},
		{"<<", []token.Kind{token.Shl}},
		{">>", []token.Kind{token.Gt, token.Gt}},
		{"> >", []token.Kind{token.Gt, token.Gt}},
		{"...", []token.Kind{token.Ellipsis}},
		{"??", []token.Kind{token.QuestionQuestion}},
		{"++--", []token.Kind{token.PlusPlus, token.MinusMinus}},
		{"&&&", []token.Kind{token.AndAnd, token.Amp}},
		{"a+=b", []token.Kind{token.Ident, token.PlusAssign, token.Ident}},
		{"x%=2", []token.Kind{token.Ident, token.PercentAssign, token.IntLit}},
		{"!=!", []token.Kind{token.BangEq, token.Bang}},
		{"~^|", []token.Kind{token.Tilde, token.Caret, token.Pipe}},
		{"([{}])", []token.Kind{token.LParen, token.LBracket, token.LBrace, token.RBrace, token.RBracket, token.RParen}},
		{"Map<K,List<V>>", []token.Kind{
			token.Ident, token.Lt, token.Ident, token.Comma, token.Ident, token.Lt, token.Ident, token.Gt, token.Gt,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTokens(t, tt.input, tt.expected)
		})
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, reporter := makeTestLexer("a @ b")
	tokens := collectAllTokens(lx)
	if len(tokens) != 4 || tokens[1].Kind != token.Invalid || tokens[1].Text != "@" {
		t.Fatalf("unexpected tokens %s", tokensToString(tokens))
	}
	if len(reporter.diagnostics) != 1 || reporter.diagnostics[0].Code != diag.LexUnknownChar {
		t.Errorf("expected LexUnknownChar, got %v", reporter.ErrorMessages())
	}

	// многобайтовая руна даёт один токен
	lx, _ = makeTestLexer("λ")
	if tok := lx.Next(); tok.Text != "λ" {
		t.Errorf("expected whole rune, got %q", tok.Text)
	}
}

func TestTrivia(t *testing.T) {
	lx, reporter := makeTestLexer("// line\n  /* block\n */\tx")
	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	kinds := make([]token.TriviaKind, len(tok.Leading))
	for i, tr := range tok.Leading {
		kinds[i] = tr.Kind
	}
	want := []token.TriviaKind{
		token.TriviaLineComment, token.TriviaNewline, token.TriviaSpace, token.TriviaBlockComment, token.TriviaSpace,
	}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Errorf("leading trivia = %v, want %v", kinds, want)
	}
	if len(reporter.diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", reporter.ErrorMessages())
	}

	// блочные комментарии не вкладываются
	expectTokens(t, "/* a /* b */ c", []token.Kind{token.Ident})

	lx, reporter = makeTestLexer("x /* open")
	collectAllTokens(lx)
	if len(reporter.diagnostics) != 1 || reporter.diagnostics[0].Code != diag.LexUnterminatedBlockComment {
		t.Errorf("expected LexUnterminatedBlockComment, got %v", reporter.ErrorMessages())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("EOF must repeat, got %v", n.Kind)
	}
}

func TestStatementStream(t *testing.T) {
	expectTokens(t, `#import "lib.mapl"
int32 x = (int32)y >> 2;
if (a.b[0] ?? NULL) { exit; }`, []token.Kind{
		token.DirImport, token.StringLit,
		token.KwInt32, token.Ident, token.Assign, token.LParen, token.KwInt32, token.RParen, token.Ident,
		token.Gt, token.Gt, token.IntLit, token.Semicolon,
		token.KwIf, token.LParen, token.Ident, token.Dot, token.Ident, token.LBracket, token.IntLit, token.RBracket,
		token.QuestionQuestion, token.KwNull, token.RParen, token.LBrace, token.KwExit, token.Semicolon, token.RBrace,
	})
}
