package dialect

import "fmt"

// Kind represents a foreign "dialect" an esspy file may resemble.
type Kind uint8

const (
	Unknown Kind = iota
	Legacy
	Python
	Go

	kindCount
)

func (k Kind) String() string {
	switch k {
	case Legacy:
		return "legacy"
	case Python:
		return "python"
	case Go:
		return "go"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}
