package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"esspy/internal/loader"
	"esspy/internal/syntax"
	"esspy/internal/translit"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return root
}

func TestRunFilePrintsOk(t *testing.T) {
	root := writeTree(t, map[string]string{"main.esspy": "मुद्रण(\"ok\")\n"})

	var out bytes.Buffer
	status := RunFile(context.Background(), filepath.Join(root, "main.esspy"), &out)
	require.Equal(t, 0, status)
	require.Equal(t, "ok\n", out.String())
}

func TestRunFileWholeProgram(t *testing.T) {
	src := "सङ्ग्रह main\n\nआयात \"fmt\"\n\nनियोग main() {\n" +
		"\tपरिहरन i := 0; i < 3; i++ {\n" +
		"\t\tयदि i अस्ति 1 {\n\t\t\tविराम\n\t\t}\n" +
		"\t\tfmt.Println(i)\n\t}\n}\n"
	root := writeTree(t, map[string]string{"main.esspy": src})

	var out bytes.Buffer
	require.Equal(t, 0, RunFile(context.Background(), filepath.Join(root, "main.esspy"), &out))
	require.Equal(t, "0\n2\n", out.String())
}

func TestRunFileNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.esspy")

	var out bytes.Buffer
	require.Equal(t, 1, RunFile(context.Background(), missing, &out))
	require.Equal(t, "file not found: "+missing+"\n", out.String())
}

func TestInvalidTranslationIsNotExecuted(t *testing.T) {
	root := writeTree(t, map[string]string{"bad.esspy": "मुद्रण(\"before\")\nयदि {\n"})
	path := filepath.Join(root, "bad.esspy")

	var out bytes.Buffer
	require.Equal(t, 1, RunFile(context.Background(), path, &out))
	require.Contains(t, out.String(), "error while running "+path+":\n")
	require.Contains(t, out.String(), "invalid syntax after translation")
	require.NotContains(t, out.String(), "before")

	err := New(Options{Stdout: &out, Stderr: &out}).Run(context.Background(), path)
	var syn *translit.SyntaxError
	require.ErrorAs(t, err, &syn)
	require.Equal(t, 2, syn.Diag.Line)
}

func TestPanicBecomesError(t *testing.T) {
	root := writeTree(t, map[string]string{"p.esspy": "विगर्हते(\"boom\")\n"})

	var out bytes.Buffer
	err := New(Options{Stdout: &out, Stderr: &out}).Run(context.Background(), filepath.Join(root, "p.esspy"))
	var re *RunError
	require.ErrorAs(t, err, &re)
	require.Contains(t, re.Error(), "boom")
}

func TestImportEquivalence(t *testing.T) {
	root := writeTree(t, map[string]string{
		"lib/ganita/ganita.esspy": "सङ्ग्रह ganita\n\nनियोग Double(x int) int {\n\tनिर्वतनम् x * 2\n}\n",
		"native/ganita/ganita.go": "package ganita\n\nfunc Double(x int) int {\n\treturn x * 2\n}\n",
		"a.esspy":                 "आयात \"lib/ganita\"\n\nमुद्रण(ganita.Double(21))\n",
		"b.esspy":                 "आयात \"native/ganita\"\n\nमुद्रण(ganita.Double(21))\n",
	})

	outputs := make([]string, 0, 2)
	for _, name := range []string{"a.esspy", "b.esspy"} {
		var out bytes.Buffer
		r := New(Options{Stdout: &out, Stderr: &out, Roots: []string{root}})
		require.NoError(t, r.Run(context.Background(), filepath.Join(root, name)), out.String())
		outputs = append(outputs, out.String())
	}
	require.Equal(t, "42\n", outputs[0])
	require.Equal(t, outputs[0], outputs[1])
	require.Empty(t, loader.Finders(), "run must unregister its finders")
}

// spyFinder serves modules from inner and records the meta path it saw.
type spyFinder struct {
	inner *loader.NativeFinder
	seen  [][]loader.Finder
}

func (s *spyFinder) FindSpec(importPath string) (*loader.ModuleSpec, error) {
	s.seen = append(s.seen, loader.Finders())
	return s.inner.FindSpec(importPath)
}

func TestRunKeepsItsFindersOffTheMetaPath(t *testing.T) {
	extra := writeTree(t, map[string]string{
		"extra/ganita/ganita.go": "package ganita\n\nfunc Double(x int) int {\n\treturn x * 2\n}\n",
	})
	root := writeTree(t, map[string]string{
		"main.esspy": "आयात \"extra/ganita\"\n\nमुद्रण(ganita.Double(4))\n",
	})

	spy := &spyFinder{inner: loader.NewNativeFinder(extra)}
	t.Cleanup(loader.Register(spy))

	var out bytes.Buffer
	r := New(Options{Stdout: &out, Stderr: &out, Roots: []string{root}})
	require.NoError(t, r.Run(context.Background(), filepath.Join(root, "main.esspy")), out.String())
	require.Equal(t, "8\n", out.String())

	require.NotEmpty(t, spy.seen, "registered finders must still be consulted")
	for _, finders := range spy.seen {
		require.Equal(t, []loader.Finder{spy}, finders)
	}
}

func TestImportOfInvalidModule(t *testing.T) {
	root := writeTree(t, map[string]string{
		"lib/tuta/tuta.esspy": "सङ्ग्रह tuta\n\nनियोग {\n",
		"main.esspy":          "आयात \"lib/tuta\"\n\nमुद्रण(1)\n",
	})

	var out bytes.Buffer
	err := New(Options{Stdout: &out, Stderr: &out, Roots: []string{root}}).Run(context.Background(), filepath.Join(root, "main.esspy"))
	var ie *loader.ImportError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, "lib/tuta", ie.ImportPath)
	var syn *translit.SyntaxError
	require.ErrorAs(t, err, &syn)
}

func TestCancelledContext(t *testing.T) {
	root := writeTree(t, map[string]string{"loop.esspy": "परिहरन {\n}\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(Options{Stdout: &out, Stderr: &out}).Run(ctx, filepath.Join(root, "loop.esspy"))
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestChunksKeepLineNumbers(t *testing.T) {
	res := translit.Result{
		Text: "import \"fmt\"\nfmt.Println(1)",
		Plan: syntax.Plan{Mode: syntax.ModeScript, Split: 13},
	}
	got := chunks(res)
	require.Equal(t, []string{"import \"fmt\"\n", "\nfmt.Println(1)\n"}, got)

	res.Plan = syntax.Plan{Mode: syntax.ModeStmts}
	require.Equal(t, []string{res.Text + "\n"}, chunks(res))
}

func TestRunErrorRestoresNames(t *testing.T) {
	err := &RunError{Err: errors.New("1:5: undefined: सत_094Dता")}
	require.Equal(t, "1:5: undefined: सत्ता", err.Error())
}
