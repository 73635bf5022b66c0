package diag

// Severity is how a diagnostic affects the outcome: only SevError stops a
// program from being run or written out.
type Severity uint8

const (
	// SevInfo carries extra data, e.g. phase timings or dialect hints.
	SevInfo Severity = iota
	// SevWarning marks code that translates but is probably wrong.
	SevWarning
	SevError
)

// Valid reports whether s is one of the known severities. Values read back
// from the translation cache are checked with it.
func (s Severity) Valid() bool { return s <= SevError }

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form used in short and JSON output.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

// SarifLevel maps s onto the SARIF result levels.
func (s Severity) SarifLevel() string {
	if s == SevInfo {
		return "note"
	}
	return s.Label()
}
