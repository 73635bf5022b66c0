package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrPackageSectionMissing indicates that [package] is missing in esspy.toml.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is empty.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// Manifest is the parsed esspy.toml.
type Manifest struct {
	Path string `toml:"-"` // абсолютный путь к esspy.toml
	Root string `toml:"-"` // каталог манифеста

	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Run struct {
		Main string   `toml:"main"`
		Args []string `toml:"args"`
	} `toml:"run"`
	Modules struct {
		Roots []string `toml:"roots"`
	} `toml:"modules"`
	Cache struct {
		Enabled *bool  `toml:"enabled"`
		Dir     string `toml:"dir"`
	} `toml:"cache"`
}

// Load parses esspy.toml at path.
func Load(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	var m Manifest
	meta, err := toml.DecodeFile(abs, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", abs, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", abs, ErrPackageSectionMissing)
	}
	m.Package.Name = strings.TrimSpace(m.Package.Name)
	if m.Package.Name == "" {
		return nil, fmt.Errorf("%s: %w", abs, ErrPackageNameMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", abs, undecoded[0].String())
	}
	m.Path = abs
	m.Root = filepath.Dir(abs)
	return &m, nil
}

// Discover finds and loads the manifest governing startDir.
// ok is false when there is none.
func Discover(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err = Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// ImportRoots returns the directories searched for imports: the project root
// first, then [modules].roots in declaration order.
func (m *Manifest) ImportRoots() ([]string, error) {
	if m == nil {
		return nil, nil
	}
	roots := []string{m.Root}
	seen := map[string]bool{m.Root: true}
	for _, r := range m.Modules.Roots {
		dir, err := ResolveRoot(m.Root, r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Path, err)
		}
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	return roots, nil
}

// MainPath returns the absolute path of [run].main, or "" when unset.
func (m *Manifest) MainPath() string {
	if m == nil || strings.TrimSpace(m.Run.Main) == "" {
		return ""
	}
	return filepath.Join(m.Root, filepath.FromSlash(strings.TrimSpace(m.Run.Main)))
}

// CacheEnabled reports [cache].enabled; the cache is on by default.
func (m *Manifest) CacheEnabled() bool {
	if m == nil || m.Cache.Enabled == nil {
		return true
	}
	return *m.Cache.Enabled
}

// ResolveRoot resolves and validates an import root relative to the project root.
func ResolveRoot(projectRoot, root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", errors.New("empty [modules].roots entry")
	}
	if filepath.IsAbs(root) {
		return "", fmt.Errorf("invalid [modules].roots entry %q: must be relative", root)
	}
	rootPath := filepath.Join(projectRoot, filepath.Clean(filepath.FromSlash(root)))
	if !pathWithin(projectRoot, rootPath) {
		return "", fmt.Errorf("invalid [modules].roots entry %q: escapes project root", root)
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return "", fmt.Errorf("invalid [modules].roots entry %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("invalid [modules].roots entry %q: not a directory", root)
	}
	return rootPath, nil
}

// LogicalPath maps a filesystem path to an import path using roots; the
// longest matching root wins.
func LogicalPath(roots []string, path string) (string, bool) {
	clean := filepath.Clean(path)
	bestRoot := ""
	for _, root := range roots {
		if root != "" && pathWithin(root, clean) && len(root) > len(bestRoot) {
			bestRoot = root
		}
	}
	if bestRoot == "" {
		return "", false
	}
	rel, err := filepath.Rel(bestRoot, clean)
	if err != nil || rel == "." {
		return "", false
	}
	mod, err := NormalizeModulePath(filepath.ToSlash(rel))
	if err != nil {
		return "", false
	}
	return mod, true
}

// Template renders a fresh esspy.toml for name.
func Template(name string) string {
	return fmt.Sprintf("[package]\nname = %q\n\n[run]\nmain = \"main.esspy\"\n\n[modules]\nroots = []\n\n[cache]\nenabled = true\n", name)
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
