package diag

import "fmt"

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                Code = 1000
	LexUnknownChar         Code = 1001
	LexUnterminatedString  Code = 1002
	LexUnterminatedComment Code = 1003
	LexBadNumber           Code = 1004
	LexBadEncoding         Code = 1005

	// Синтаксис переведённого текста
	SynInfo            Code = 2000
	SynInvalidProgram  Code = 2001
	SynReservedAsField Code = 2002
	SynReservedName    Code = 2003

	// I/O
	IOLoadFileError Code = 4001
	IOFileNotFound  Code = 4002
	IOWriteError    Code = 4003

	// Project
	ProjInfo             Code = 5000
	ProjManifestInvalid  Code = 5001
	ProjModuleNotFound   Code = 5002
	ProjImportFailed     Code = 5003
	ProjDuplicateModule  Code = 5004
	ProjMissingModule    Code = 5005
	ProjSelfImport       Code = 5006
	ProjImportCycle      Code = 5007
	ProjDependencyFailed Code = 5008

	// Execution
	RunInfo    Code = 6000
	RunFailed  Code = 6001
	RunPanic   Code = 6002
	RunTimeout Code = 6003

	// Dialect hints
	DialectLegacyKeyword Code = 7001
	DialectHostKeyword   Code = 7002
	DialectPython        Code = 7003

	// Observability
	ObsInfo    Code = 8000
	ObsTimings Code = 8001
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:                "Lexical information",
	LexUnknownChar:         "Unknown character",
	LexUnterminatedString:  "Unterminated string",
	LexUnterminatedComment: "Unterminated block comment",
	LexBadNumber:           "Bad number",
	LexBadEncoding:         "Invalid UTF-8 encoding",

	SynInfo:            "Syntax information",
	SynInvalidProgram:  "Translated text is not a valid program",
	SynReservedAsField: "Keyword spelling used after a selector",
	SynReservedName:    "Name spelled like an escaped mark",

	IOLoadFileError: "I/O load file error",
	IOFileNotFound:  "File not found",
	IOWriteError:    "I/O write error",

	ProjInfo:             "Project information",
	ProjManifestInvalid:  "Invalid esspy.toml",
	ProjModuleNotFound:   "Module not found",
	ProjImportFailed:     "Import failed",
	ProjDuplicateModule:  "Duplicate module",
	ProjMissingModule:    "Missing module",
	ProjSelfImport:       "Module imports itself",
	ProjImportCycle:      "Import cycle",
	ProjDependencyFailed: "Dependency has errors",

	RunInfo:    "Execution information",
	RunFailed:  "Execution failed",
	RunPanic:   "Program panicked",
	RunTimeout: "Execution cancelled",

	DialectLegacyKeyword: "Keyword from an older dialect",
	DialectHostKeyword:   "Go keyword written in place of a Sanskrit spelling",
	DialectPython:        "Python syntax in esspy source",

	ObsInfo:    "Observability information",
	ObsTimings: "Phase timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("RUN%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("DIA%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
