package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"mapl/internal/project"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

// languageSeeds covers every statement form and the API directives.
var languageSeeds = []string{
	"",
	"int32 x = 1;\n",
	"uint64 big = 18446744073709551615;\nint64 neg = -9223372036854775808;\n",
	"float32 f = 1.5;\nfloat64 d = f * 2.0;\nchar c = 97;\n",
	"bool b = true && !false || 1 < 2;\n",
	"string s = \"hi\\n\" + 3 + true;\n",
	"#global void log(string message);\nlog(\"a\");\n",
	"#global int32 count;\n#global float64 avg(int32 n, ...);\ncount = 3;\n",
	"#type Sprite : Node {\n\treadonly float64 x;\n\tvoid move(float64 dx, float64 dy);\n\tint32[string];\n}\n",
	"#type Box<T> { T value; }\n",
	"#import \"lib.mapl\"\n",
	"int32 i = 0;\nwhile (i < 10) { i++; if (i == 5) { break; } }\n",
	"for (int32 i = 0; i < 3; i += 1) { continue; }\n",
	"do { exit; } while (false);\n",
	"int32 a = 1 ? 2 : 3;\nint32 m = (int32)2.5 << 2 >> 1 & 7 | 8 ^ ~1;\n",
	"<? meta data ?>\nint32 x = 0;\n",
	"{ { { } } }\n",
	// незакрытые конструкции
	"int32 x = (1 + ;\n",
	"while (true { }\n",
	"\"unterminated\n",
	"#type T {\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.mapl файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != project.SourceExt {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
