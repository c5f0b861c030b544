package fuzztests

import (
	"testing"

	"mapl/internal/compiler"
)

const fuzzPath = "/fuzz/main.mapl"

// FuzzCompile прогоняет произвольный скрипт через весь компилятор.
// Импорт самого себя или "lib.mapl" тоже допустим.
func FuzzCompile(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)
		res := compiler.Compile([]string{fuzzPath}, compiler.Options{
			Loader: compiler.MapLoader{
				fuzzPath:         string(input),
				"/fuzz/lib.mapl": "#global void log(string message);\nint32 shared = 1;\n",
			},
			MaxDiagnostics: 64,
		})
		if res.Err() != nil {
			if len(res.Files) != 0 {
				t.Fatalf("failed compile produced %d files", len(res.Files))
			}
			return
		}
		code, ok := res.Files[fuzzPath]
		if !ok {
			t.Fatalf("no bytecode for %s", fuzzPath)
		}
		if len(code) < 4 {
			t.Fatalf("bytecode shorter than its header: %d bytes", len(code))
		}
		if len(code)-4 > compiler.MaxBytecodeLength {
			t.Fatalf("bytecode exceeds the addressable size: %d", len(code))
		}
	})
}
