package driver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"esspy/internal/source"
	"esspy/internal/syntax"
)

// GoText returns the translation of r as a complete Go file. Snippets get
// the package clause and main function they are run with.
func GoText(r *TranslateResult) string {
	return syntax.Complete(r.Result.Text, r.Result.Plan)
}

// OutputName maps a.esspy to a.go.
func OutputName(rel string) string {
	return strings.TrimSuffix(rel, source.Extension) + ".go"
}

// WriteGo writes every valid result under outDir, keeping the relative
// layout. Invalid files are skipped; it returns the paths written.
func WriteGo(results []DirResult, outDir string) ([]string, error) {
	var written []string
	for i := range results {
		r := &results[i]
		if !r.OK() {
			continue
		}
		target := filepath.Join(outDir, filepath.FromSlash(OutputName(r.Rel)))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, errors.Wrapf(err, "creating %s", filepath.Dir(target))
		}
		if err := os.WriteFile(target, []byte(GoText(r.TranslateResult)), 0o644); err != nil {
			return written, errors.Wrapf(err, "writing %s", target)
		}
		written = append(written, target)
	}
	return written, nil
}
