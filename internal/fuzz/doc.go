// Package fuzztests houses Go fuzz harnesses that exercise the MaPL
// compilation pipeline (source -> lexer -> parser -> compiler). Its goal is to
// smoke test robustness and guard against panics, hangs and broken spans on
// arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и компилятор.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/compiler, internal/diag, internal/testkit.

package fuzztests
