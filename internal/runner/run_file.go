package runner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"

	"esspy/internal/loader"
)

// RunFile is the outermost boundary of the command line runner. It runs the
// program at path with out as both output streams, prints any failure to
// out, and returns an exit status. It never panics.
func RunFile(ctx context.Context, path string, out io.Writer) (status int) {
	defer func() {
		if p := recover(); p != nil {
			fmt.Fprintf(out, "error while running %s:\n%v\n", path, p)
			status = 1
		}
	}()

	if info, err := os.Stat(path); err != nil || info.IsDir() {
		fmt.Fprintf(out, "file not found: %s\n", path)
		return 1
	}
	err := New(Options{Stdout: out, Stderr: out}).Run(ctx, path)
	return Report(out, path, err)
}

// Report prints err the way RunFile does and returns the status for it.
func Report(out io.Writer, path string, err error) int {
	if err == nil {
		return 0
	}
	var re *RunError
	var ie *loader.ImportError
	if !errors.As(err, &re) && !errors.As(err, &ie) && errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(out, "file not found: %s\n", path)
		return 1
	}
	fmt.Fprintf(out, "error while running %s:\n%s\n", path, err.Error())
	return 1
}
