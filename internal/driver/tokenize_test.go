package driver

import (
	"context"
	"testing"

	"mapl/internal/compiler"
	"mapl/internal/diag"
	"mapl/internal/token"
)

func TestTokenize(t *testing.T) {
	loader := compiler.MapLoader{
		"/s/good.mapl": "exit;\n",
		"/s/bad.mapl":  "string s = \"open;\n",
	}
	paths := []string{"/s/good.mapl", "/s/bad.mapl", "/s/missing.mapl"}
	fs, results, err := Tokenize(context.Background(), paths, loader, 10, 2)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}

	good := results[0]
	if good.Path != paths[0] || good.Bag.Len() != 0 {
		t.Errorf("good: %+v", good)
	}
	if n := len(good.Tokens); n != 3 || good.Tokens[n-1].Kind != token.EOF {
		t.Errorf("good tokens = %v", good.Tokens)
	}
	if fs.Get(good.File).Path != paths[0] {
		t.Errorf("file id points at %q", fs.Get(good.File).Path)
	}

	if !results[1].Bag.HasErrors() || results[1].Bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Errorf("bad: %v", results[1].Bag.Items())
	}
	// отсутствующий файл: ни одного токена, одна ошибка чтения
	if results[2].Tokens != nil || results[2].Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Errorf("missing: %+v", results[2])
	}
}

func TestTokenizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loader := compiler.MapLoader{"/s/main.mapl": "exit;\n"}
	if _, _, err := Tokenize(ctx, []string{"/s/main.mapl"}, loader, 10, 1); err == nil {
		t.Fatal("expected a cancellation error")
	}
}
