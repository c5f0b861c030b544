package fuzztests

import (
	"testing"

	"mapl/internal/diag"
	"mapl/internal/lexer"
	"mapl/internal/source"
	"mapl/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.mapl", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
			t.Fatalf("token stream must end with EOF")
		}
		var prevEnd uint32
		for i, tok := range tokens {
			if tok.Span.Start < prevEnd || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %d (%v) span %v overlaps or inverts after %d", i, tok.Kind, tok.Span, prevEnd)
			}
			if int(tok.Span.End) > len(input) {
				t.Fatalf("token %d span %v beyond input %d", i, tok.Span, len(input))
			}
			prevEnd = tok.Span.End
		}
	})
}
