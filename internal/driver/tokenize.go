package driver

import (
	"github.com/cockroachdb/errors"

	"esspy/internal/diag"
	"esspy/internal/lexer"
	"esspy/internal/source"
	"esspy/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and scans it. Scanner errors end up in Bag; the error
// return is for I/O only.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)

	reporterAdapter := &lexer.ReporterAdapter{Bag: bag}
	tokens, _ := lexer.Scan(file, lexer.Options{Reporter: reporterAdapter.Reporter()})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
