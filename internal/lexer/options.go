package lexer

import (
	"esspy/internal/source"
)

// Reporter: тонкий интерфейс, чтобы не тянуть diag сюда.
// Лексер только вызывает его; форматирует диагностику внешний слой.
type Reporter interface {
	Report(span source.Span, msg string)
}

type Options struct {
	Reporter Reporter // может быть nil: тогда ошибки только возвращаются
}

func (o Options) report(sp source.Span, msg string) {
	if o.Reporter != nil {
		o.Reporter.Report(sp, msg)
	}
}
