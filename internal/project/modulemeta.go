package project

import (
	"errors"
	"strings"

	"esspy/internal/source"
)

type ImportMeta struct {
	Path string
	Span source.Span
}

type ModuleKind uint8

const (
	ModuleKindUnknown ModuleKind = iota
	ModuleKindSource             // каталог или файл с .esspy
	ModuleKindNative             // обычный Go-пакет
)

func (k ModuleKind) String() string {
	switch k {
	case ModuleKindSource:
		return "esspy"
	case ModuleKindNative:
		return "go"
	default:
		return "unknown"
	}
}

type ModuleFileMeta struct {
	Path string
	Hash Digest
}

type ModuleMeta struct {
	Name        string       // имя из package clause
	Path        string       // путь импорта: "a/b"
	Dir         string       // каталог на диске
	Kind        ModuleKind
	Span        source.Span  // package clause первого файла
	Imports     []ImportMeta // пути импортов с их спанами
	Files       []ModuleFileMeta
	ContentHash Digest // хеш содержимого всех файлов
	ModuleHash  Digest // агрегированный хеш модуля с учётом зависимостей
}

var errInvalidModulePath = errors.New("invalid module path")

// NormalizeModulePath brings an import path or a file path relative to an
// import root to the canonical form "a/b": the source extension is dropped,
// backslashes become slashes, and empty, "." and ".." segments are rejected.
func NormalizeModulePath(path string) (string, error) {
	path = strings.TrimSuffix(path, source.Extension)
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return "", errInvalidModulePath
	}
	segments := strings.Split(path, "/")
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return "", errInvalidModulePath
		}
	}
	return strings.Join(segments, "/"), nil
}

// IsValidImportPath reports whether path is already in canonical form.
func IsValidImportPath(path string) bool {
	norm, err := NormalizeModulePath(path)
	return err == nil && norm == path && !strings.HasSuffix(path, source.Extension)
}
