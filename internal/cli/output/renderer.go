// Package output renders command results as styled terminal text or
// machine-readable JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeAuto Mode = "auto"
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// Styles holds the lipgloss styles used across commands.
type Styles struct {
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	FilePath lipgloss.Style
}

// Renderer writes command output in the selected mode. Styling degrades
// to plain text automatically when the writer is not a color terminal.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles Styles
}

// NewRenderer creates a renderer for the given writers and mode.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}

	lr := lipgloss.NewRenderer(out, termenv.WithColorCache(true))
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		styles: Styles{
			Error:    lr.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Warning:  lr.NewStyle().Foreground(lipgloss.Color("11")),
			Info:     lr.NewStyle().Foreground(lipgloss.Color("12")),
			Success:  lr.NewStyle().Foreground(lipgloss.Color("10")),
			Muted:    lr.NewStyle().Foreground(lipgloss.Color("8")),
			Bold:     lr.NewStyle().Bold(true),
			FilePath: lr.NewStyle().Bold(true).Underline(true),
		},
	}
}

// EffectiveMode resolves ModeAuto to the concrete mode in use.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode == ModeAuto {
		return ModeText
	}
	return r.mode
}

// Styles returns the renderer's style set.
func (r *Renderer) Styles() Styles { return r.styles }

// Out returns the output writer.
func (r *Renderer) Out() io.Writer { return r.out }

// Println writes a line to the output writer.
func (r *Renderer) Println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Printf writes formatted text to the output writer.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Success writes a success line.
func (r *Renderer) Success(msg string) {
	_, _ = fmt.Fprintln(r.out, r.styles.Success.Render("✓ ")+msg)
}

// Errorf writes a formatted error line to the error writer.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("✗ ")+fmt.Sprintf(format, args...))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// LintSummary aggregates finding counts across files.
type LintSummary struct {
	FilesAnalyzed int `json:"files_analyzed"`
	TotalFindings int `json:"total_findings"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Info          int `json:"info"`
}

// LintFinding is one finding in the JSON report.
type LintFinding struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Element  string `json:"element,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
}

// LintFileResult groups the findings of one file.
type LintFileResult struct {
	Path     string        `json:"path"`
	Findings []LintFinding `json:"findings"`
}

// LintOutput is the JSON report for a lint run.
type LintOutput struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Summary     LintSummary      `json:"summary"`
	Files       []LintFileResult `json:"files"`
}

// NewLintOutput creates a report envelope with a fresh run identifier.
func NewLintOutput(summary LintSummary, files []LintFileResult) LintOutput {
	return LintOutput{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Files:       files,
	}
}
