// Package fuzztests houses Go fuzz harnesses that exercise the compiler
// pipeline (source -> parser -> transform). Its goal is to smoke test
// robustness and guard against panics or hangs on arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через парсер и трансформации.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/parser, internal/driver,
// internal/diag.
package fuzztests
