package diagfmt

import (
	"strings"

	"github.com/cockroachdb/errors"

	"esspy/internal/diag"
	"esspy/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview renders the whole lines touched by edit before and
// after applying it.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errors.New("nil FileSet")
	}
	if int(edit.Span.File) >= fs.Len() {
		return fixEditPreview{}, errors.Newf("file %d not found in FileSet", edit.Span.File)
	}
	file := fs.Get(edit.Span.File)
	size := len(file.Content)

	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > size {
		return fixEditPreview{}, errors.Newf("edit span %d..%d out of range", start, end)
	}

	blockStart := strings.LastIndexByte(string(file.Content[:start]), '\n') + 1
	blockEnd := size
	if i := strings.IndexByte(string(file.Content[end:]), '\n'); i >= 0 {
		blockEnd = end + i
	}

	original := string(file.Content[blockStart:blockEnd])
	after := original[:start-blockStart] + edit.NewText + original[end-blockStart:]

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
