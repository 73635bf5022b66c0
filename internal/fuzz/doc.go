// Package fuzztests houses Go fuzz harnesses that exercise the front of the
// esspy pipeline (source -> lexer -> translit). Its goal is to smoke test
// robustness and guard against panics on arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер и
// транслитерацию, проверяя инварианты токенов.
//
// Не делает: запуск программ, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/translit,
// internal/diag, internal/testkit.
package fuzztests
