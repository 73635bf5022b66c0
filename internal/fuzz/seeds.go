package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"esspy/internal/keywords"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addKeywordSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.esspy файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".esspy" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
	// добавляем хотя бы один минимальный пример на случай пустого testdata
	f.Add([]byte{})
	f.Add([]byte("मुद्रण(\"नमस्ते\")\n"))
}

// addKeywordSeeds adds every keyword of the default table on its own line
// and glued to a combining mark, the two shapes the lexer treats specially.
func addKeywordSeeds(f *testing.F) {
	for _, e := range keywords.Default.Entries() {
		f.Add([]byte(e.Source + "\n"))
		f.Add([]byte("x := " + e.Source + "्\n"))
	}
	f.Add([]byte("अथ\u200cयदि\n"))
	f.Add([]byte("\ufeffयदि सत् {\r\n}\r\n"))
	f.Add([]byte("`कच्चा\r\nपाठ`"))
	f.Add([]byte("/* अपूर्ण"))
	f.Add([]byte{0xff, 0xfe, 'a'})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
