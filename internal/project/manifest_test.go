package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), Template("pariksha"))
	nested := filepath.Join(root, "lib", "ganita")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("Discover = %v, %v", ok, err)
	}
	wantRoot, _ := filepath.Abs(root)
	if m.Root != wantRoot {
		t.Fatalf("Root = %q, want %q", m.Root, wantRoot)
	}
	if m.Package.Name != "pariksha" {
		t.Fatalf("name = %q", m.Package.Name)
	}
	if got := m.MainPath(); got != filepath.Join(wantRoot, "main.esspy") {
		t.Fatalf("MainPath = %q", got)
	}
	if !m.CacheEnabled() {
		t.Fatal("cache must be enabled by the template")
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	m, ok, err := Discover(t.TempDir())
	if err != nil || ok || m != nil {
		t.Fatalf("Discover = %v, %v, %v", m, ok, err)
	}
}

func TestLoadRejectsBadManifests(t *testing.T) {
	cases := map[string]struct {
		content string
		want    error
	}{
		"no package": {content: "[run]\nmain = \"a.esspy\"\n", want: ErrPackageSectionMissing},
		"no name":    {content: "[package]\nname = \"  \"\n", want: ErrPackageNameMissing},
		"unknown":    {content: "[package]\nname = \"x\"\nversion = \"1\"\n"},
		"syntax":     {content: "[package\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tc.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestImportRoots(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[package]\nname = \"x\"\n[modules]\nroots = [\"vendor\", \"vendor\"]\n[cache]\nenabled = false\n")
	writeFile(t, filepath.Join(root, "vendor", "lib", "a.esspy"), "")

	m, err := Load(filepath.Join(root, ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	roots, err := m.ImportRoots()
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 2 || roots[0] != m.Root || roots[1] != filepath.Join(m.Root, "vendor") {
		t.Fatalf("roots = %v", roots)
	}
	if m.CacheEnabled() {
		t.Fatal("cache must be disabled")
	}

	mod, ok := LogicalPath(roots, filepath.Join(m.Root, "vendor", "lib", "a.esspy"))
	if !ok || mod != "lib/a" {
		t.Fatalf("LogicalPath = %q, %v", mod, ok)
	}
}

func TestResolveRootRejectsEscapes(t *testing.T) {
	root := t.TempDir()
	for _, bad := range []string{"", "../outside", "/abs", "missing"} {
		if _, err := ResolveRoot(root, bad); err == nil {
			t.Fatalf("ResolveRoot(%q) must fail", bad)
		}
	}
}
