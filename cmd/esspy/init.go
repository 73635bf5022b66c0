package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"esspy/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new esspy project",
	Long: `Initialize a new esspy project by creating a project manifest (esspy.toml)
and a hello-world entry point (main.esspy). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit creates esspy.toml and main.esspy in the target directory (the
// working directory by default). An existing manifest is never overwritten;
// an existing main.esspy is kept.
func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory %q", target)
		}
	} else if !st.IsDir() {
		return errors.Newf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "esspy-project"
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return errors.WithHint(
			errors.Newf("project already initialized: %s exists", manifestPath),
			"edit the existing manifest instead",
		)
	}
	if err := os.WriteFile(manifestPath, []byte(project.Template(name)), 0o600); err != nil {
		return errors.Wrap(err, "failed to write manifest")
	}

	mainPath := filepath.Join(target, "main.esspy")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMain), 0o600); err != nil {
			return errors.Wrap(err, "failed to write main.esspy")
		}
		createdMain = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, target); err == nil {
			rel = r
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized esspy project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdMain {
		fmt.Fprintln(out, "  - main.esspy")
	} else {
		fmt.Fprintln(out, "  - main.esspy (existing)")
	}
	return nil
}

const defaultMain = `// esspy run main.esspy
सङ्ग्रह main

नियोग अभिवादन(नाम string) string {
	निर्वतनम् "नमस्ते, " + नाम + "!"
}

नियोग main() {
	मुद्रण(अभिवादन("विश्व"))
}
`
