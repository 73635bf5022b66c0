package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"esspy/internal/diag"
	"esspy/internal/project"
	"esspy/internal/source"
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

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestTranslateFile(t *testing.T) {
	root := writeTree(t, map[string]string{"main.esspy": "मुद्रण(\"ok\")\n"})

	res, err := TranslateFile(filepath.Join(root, "main.esspy"), Options{Timings: true})
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, "println(\"ok\")\n", res.Result.Text)
	require.Zero(t, res.Bag.Len())
	require.NotNil(t, res.Timing)
	require.Equal(t, "translate", res.Timing.Phases[0].Name)

	_, err = TranslateFile(filepath.Join(root, "missing.esspy"), Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestTranslateFileReportsProblems(t *testing.T) {
	root := writeTree(t, map[string]string{
		"bad.esspy":    "यदि {\n",
		"legacy.esspy": "यावत् सत् {\n\tअग्रिम\n}\n",
		"lex.esspy":    "चर s = \"open\n",
	})

	res, err := TranslateFile(filepath.Join(root, "bad.esspy"), Options{})
	require.NoError(t, err)
	require.False(t, res.OK())
	require.Contains(t, codes(res.Bag), diag.SynInvalidProgram)

	res, err = TranslateFile(filepath.Join(root, "legacy.esspy"), Options{Hints: true})
	require.NoError(t, err)
	require.False(t, res.OK())
	require.Contains(t, codes(res.Bag), diag.DialectLegacyKeyword)

	res, err = TranslateFile(filepath.Join(root, "lex.esspy"), Options{})
	require.NoError(t, err)
	require.Error(t, res.LexErr)
	require.Contains(t, codes(res.Bag), diag.LexUnterminatedString)
}

func TestTokenize(t *testing.T) {
	root := writeTree(t, map[string]string{"t.esspy": "मुद्रण(1)\n"})

	res, err := Tokenize(filepath.Join(root, "t.esspy"), 10)
	require.NoError(t, err)
	require.Equal(t, "मुद्रण", res.Tokens[0].Text)
	require.Zero(t, res.Bag.Len())
}

func TestDiskCache(t *testing.T) {
	root := writeTree(t, map[string]string{"main.esspy": "x := सत्\nमुद्रण(x)\n"})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	opts := Options{Cache: cache, Hints: true}
	path := filepath.Join(root, "main.esspy")

	first, err := TranslateFile(path, opts)
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := TranslateFile(path, opts)
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.Result.Text, second.Result.Text)
	require.Equal(t, first.Result.Plan, second.Result.Plan)
	require.Len(t, second.Result.Subs, len(first.Result.Subs))
	require.Equal(t, first.Bag.Len(), second.Bag.Len())

	// другая настройка подсказок: другой ключ
	third, err := TranslateFile(path, Options{Cache: cache})
	require.NoError(t, err)
	require.False(t, third.Cached)

	require.NoError(t, cache.DropAll())
	fourth, err := TranslateFile(path, opts)
	require.NoError(t, err)
	require.False(t, fourth.Cached)

	// запись с неизвестной серьёзностью считается промахом
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	require.NoError(t, err)
	corrupt := &DiskPayload{Schema: diskCacheSchemaVersion, Text: fourth.Result.Text, Diags: []cachedDiag{{Severity: 9, Message: "?"}}}
	require.False(t, corrupt.valid())
	require.NoError(t, cache.Put(cacheKey(fs.Get(id), opts.table(), opts.Hints), corrupt))
	fifth, err := TranslateFile(path, opts)
	require.NoError(t, err)
	require.False(t, fifth.Cached)
	require.Equal(t, first.Result.Text, fifth.Result.Text)
}

func TestTranslateDirAndWrite(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.esspy":         "मुद्रण(1)\n",
		"lib/b.esspy":     "सङ्ग्रह lib\n\nनियोग B() {}\n",
		"lib/c.esspy":     "यदि {\n",
		".hidden/d.esspy": "मुद्रण(2)\n",
		"notes.txt":       "skip",
	})

	var mu sync.Mutex
	var events []FileEvent
	_, results, err := TranslateDir(context.Background(), root, DirOptions{
		Jobs: 2,
		OnEvent: func(ev FileEvent) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, []string{"a.esspy", "lib/b.esspy", "lib/c.esspy"}, []string{results[0].Rel, results[1].Rel, results[2].Rel})
	require.True(t, results[0].OK())
	require.False(t, results[2].OK())
	require.Len(t, events, 6)
	failed := slices.IndexFunc(events, func(ev FileEvent) bool { return ev.Status == FileFailed })
	require.GreaterOrEqual(t, failed, 0)
	require.Equal(t, 3, events[failed].Total)

	out := t.TempDir()
	written, err := WriteGo(results, out)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(out, "a.go"), filepath.Join(out, "lib", "b.go")}, written)

	data, err := os.ReadFile(filepath.Join(out, "a.go"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "package main\n"))
	require.Contains(t, string(data), "func main() {\nprintln(1)\n")
}

func TestTranslateDirCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.esspy": "मुद्रण(1)\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := TranslateDir(ctx, root, DirOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckDirOrdersModules(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.esspy":              "आयात (\n\t\"fmt\"\n\t\"lib/ganita\"\n)\n\nfmt.Println(ganita.Double(2))\n",
		"lib/ganita/ganita.esspy": "सङ्ग्रह ganita\n\nआयात \"lib/upa\"\n\nनियोग Double(x int) int { निर्वतनम् upa.Two * x / 2 * 2 }\n",
		"lib/upa.esspy":           "सङ्ग्रह upa\n\nस्थिर Two = 2\n",
		"native/ext/ext.go":       "package ext\n",
		"lib/useext/u.esspy":      "सङ्ग्रह useext\n\nआयात _ \"native/ext\"\n",
	})

	res, err := CheckDir(context.Background(), root, CheckOptions{Roots: []string{root}})
	require.NoError(t, err)
	require.False(t, res.HasErrors(), "%v", res.Diagnostics().Items())
	require.False(t, res.Cyclic)

	pos := map[string]int{}
	for i, m := range res.Modules {
		pos[m.Path] = i
	}
	require.Less(t, pos["lib/upa"], pos["lib/ganita"])
	require.Less(t, pos["lib/ganita"], pos["main"])
	require.Less(t, pos["native/ext"], pos["lib/useext"])

	for _, m := range res.Modules {
		switch m.Path {
		case "lib/ganita":
			require.Equal(t, "ganita", m.Name)
			require.Equal(t, []string{"lib/upa"}, importPaths(m))
		case "main":
			require.Equal(t, []string{"lib/ganita"}, importPaths(m))
		case "native/ext":
			require.Equal(t, project.ModuleKindNative, m.Kind)
		}
		require.NotEqual(t, project.Digest{}, m.ModuleHash, m.Path)
	}
}

func importPaths(m project.ModuleMeta) []string {
	out := make([]string, len(m.Imports))
	for i, imp := range m.Imports {
		out[i] = imp.Path
	}
	return out
}

func TestCheckDirReportsGraphProblems(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.esspy":       "आयात (\n\t\"lib/a\"\n\t\"lib/nope\"\n\t\"lib/tuta\"\n)\n",
		"lib/a/a.esspy":    "सङ्ग्रह a\n\nआयात _ \"lib/b\"\n",
		"lib/b/b.esspy":    "सङ्ग्रह b\n\nआयात _ \"lib/a\"\n",
		"lib/tuta/t.esspy": "सङ्ग्रह tuta\n\nनियोग {\n",
	})

	res, err := CheckDir(context.Background(), root, CheckOptions{Roots: []string{root}})
	require.NoError(t, err)
	require.True(t, res.HasErrors())
	require.True(t, res.Cyclic)

	got := codes(res.Project)
	require.Contains(t, got, diag.ProjImportCycle)
	require.Contains(t, got, diag.ProjMissingModule)
	require.Contains(t, got, diag.ProjDependencyFailed)

	// позиция отсутствующего импорта указывает на строку в исходнике
	for _, d := range res.Project.Items() {
		if d.Code != diag.ProjMissingModule {
			continue
		}
		file := res.FileSet.Get(d.Primary.File)
		require.Equal(t, `"lib/nope"`, string(file.Content[d.Primary.Start:d.Primary.End]))
	}
}

func TestIsStdlib(t *testing.T) {
	require.True(t, IsStdlib("fmt"))
	require.True(t, IsStdlib("net/http"))
	require.False(t, IsStdlib("lib/ganita"))
}
