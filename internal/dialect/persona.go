package dialect

import (
	"fmt"
	"strings"
)

// Persona defines the voice of a dialect hint message.
type Persona struct {
	Name      string
	Greetings []string
	LeadIns   []string
	Closings  []string
}

// RenderInput provides data for rendering a hint message.
type RenderInput struct {
	Seed     int
	Detected string
	Reason   string
	Suggest  string
}

// RenderHint builds a persona-based message. It is deterministic.
func RenderHint(d Kind, in RenderInput) string {
	p := personaFor(d)
	return p.Render(in)
}

func personaFor(d Kind) Persona {
	switch d {
	case Legacy:
		return Persona{
			Name:     "legacy",
			LeadIns:  []string{"%s comes from the older esspy dialect."},
			Closings: []string{"Write instead:"},
		}
	case Python:
		return Persona{
			Name:      "python",
			Greetings: []string{"Python habits die hard."},
			LeadIns:   []string{"%s looks like Python."},
			Closings:  []string{"In esspy, try:"},
		}
	case Go:
		return Persona{
			Name:      "go",
			Greetings: []string{"Oh hey, Gopher."},
			LeadIns:   []string{"%s is plain Go; it works, but the file mixes spellings."},
			Closings:  []string{"The Devanagari spelling is:"},
		}
	default:
		return Persona{
			Name:    "unknown",
			LeadIns: []string{"Foreign-language syntax detected."},
		}
	}
}

// Render produces the final message; lines are joined with "\n".
func (p *Persona) Render(in RenderInput) string {
	lines := make([]string, 0, 5)

	if greeting := pick(p.Greetings, in.Seed); greeting != "" {
		lines = append(lines, greeting)
	}
	if leadIn := formatTemplate(pick(p.LeadIns, in.Seed), in.Detected); leadIn != "" {
		lines = append(lines, leadIn)
	}
	if reason := strings.TrimSpace(in.Reason); reason != "" {
		lines = append(lines, reason)
	}
	if suggest := strings.TrimSpace(in.Suggest); suggest != "" {
		if closing := pick(p.Closings, in.Seed); closing != "" {
			lines = append(lines, closing+" "+suggest)
		} else {
			lines = append(lines, suggest)
		}
	}
	return strings.Join(lines, "\n")
}

func pick(options []string, seed int) string {
	if len(options) == 0 {
		return ""
	}
	if seed < 0 {
		seed = -seed
	}
	return strings.TrimSpace(options[seed%len(options)])
}

func formatTemplate(tmpl, detected string) string {
	tmpl = strings.TrimSpace(tmpl)
	if tmpl == "" {
		return ""
	}
	if strings.Contains(tmpl, "%s") {
		if detected == "" {
			detected = "this"
		} else {
			detected = "`" + detected + "`"
		}
		return fmt.Sprintf(tmpl, detected)
	}
	return tmpl
}
