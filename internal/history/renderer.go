package history

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/labs/internal/session"
)

// Renderer serializes records for printing. Output is built in memory so a
// failure never leaves partial output on the terminal.
type Renderer interface {
	Render(records []session.Record) ([]byte, error)
}

var (
	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")).
			Bold(true)

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TextRenderer renders records as a readable listing. Colour is decided by
// lipgloss from the output terminal.
type TextRenderer struct {
	// CommandsOnly prints one line per record without the captured output.
	CommandsOnly bool
}

func (r *TextRenderer) Render(records []session.Record) ([]byte, error) {
	var sb strings.Builder
	for i, rec := range records {
		if i > 0 && !r.CommandsOnly {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s %s", indexStyle.Render(fmt.Sprintf("[%d]", rec.Index)), commandStyle.Render(commandLine(rec)))
		if s := statusText(rec); s != "" {
			sb.WriteString("  " + s)
		}
		sb.WriteString("\n")
		if r.CommandsOnly {
			continue
		}

		output := rec.Combined
		if output == "" {
			output = rec.Stdout + rec.Stderr
		}
		if output != "" {
			sb.WriteString(output)
			if !strings.HasSuffix(output, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return []byte(sb.String()), nil
}

func commandLine(rec session.Record) string {
	if rec.Command != "" {
		return strings.TrimRight(rec.Command, "\n")
	}
	if rec.IsFallback() {
		return "(unknown command)"
	}
	return rec.Label
}

func statusText(rec session.Record) string {
	switch {
	case rec.ExitStatus == nil:
		return dimStyle.Render("(running or unknown)")
	case *rec.ExitStatus == 0:
		return okStyle.Render("(exit 0)")
	default:
		return failStyle.Render(fmt.Sprintf("(exit %d)", *rec.ExitStatus))
	}
}

// JSONRenderer renders records as an indented JSON array.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(records []session.Record) ([]byte, error) {
	if records == nil {
		records = []session.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	return append(data, '\n'), nil
}
