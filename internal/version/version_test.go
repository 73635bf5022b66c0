package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored_PlainMatchesVersion(t *testing.T) {
	if got := Colored(false); got != Version {
		t.Fatalf("Colored(false) = %q, want %q", got, Version)
	}
}

func TestColored_Enabled(t *testing.T) {
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("Colored(true) = %q, expected escape sequences", got)
	}
	if !strings.HasSuffix(got, "-dev") && strings.Contains(Version, "-dev") {
		t.Fatalf("pre-release suffix lost: %q", got)
	}
}

func TestColored_NonSemver(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "nightly"
	if got := Colored(true); got != "nightly" {
		t.Fatalf("Colored = %q, want raw version", got)
	}
}

// BenchmarkVersionAccess benchmarks accessing version variables
func BenchmarkVersionAccess(b *testing.B) {
	b.Run("Colored", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Colored(true)
		}
	})
}
