// Package cli formats command results for the terminal.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// Outcome is the result of rendering one capture
type Outcome struct {
	// Source is the capture file the report came from
	Source string
	// Name is the report name
	Name string
	// Path is where the page was written, empty when nothing was written
	Path string
	// PDF is the exported PDF, if any
	PDF      string
	Items    int
	Sections int
	Err      error
}

// Skipped reports whether the capture had nothing to render
func (o Outcome) Skipped() bool {
	return o.Err == nil && o.Path == ""
}

// Summary collects the outcomes of one render run
type Summary struct {
	RunID     string
	OutputDir string
	Outcomes  []Outcome
	Duration  time.Duration
}

// NewSummary creates an empty summary for a run
func NewSummary(runID, outputDir string) *Summary {
	return &Summary{
		RunID:     runID,
		OutputDir: outputDir,
		Outcomes:  make([]Outcome, 0),
	}
}

// Add records an outcome
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

// Counts returns how many reports were written, skipped and failed
func (s *Summary) Counts() (written, skipped, failed int) {
	for _, o := range s.Outcomes {
		switch {
		case o.Err != nil:
			failed++
		case o.Skipped():
			skipped++
		default:
			written++
		}
	}
	return written, skipped, failed
}

// FirstError returns the first failure, if any
func (s *Summary) FirstError() error {
	for _, o := range s.Outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}

// Print writes the summary to w
func (s *Summary) Print(w io.Writer) {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("12")).
		Padding(0, 2)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15"))
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	header := titleStyle.Render("DocTest reports") + "\n" +
		dimStyle.Render(fmt.Sprintf("run %s → %s", s.RunID, s.OutputDir))
	fmt.Fprintln(w, boxStyle.Render(header))

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for _, o := range s.Outcomes {
		switch {
		case o.Err != nil:
			red.Fprintf(w, "  ✗ %s: %v\n", label(o), o.Err)
		case o.Skipped():
			yellow.Fprintf(w, "  ⚠ %s: no items, nothing written\n", label(o))
		default:
			green.Fprintf(w, "  ✓ %s → %s (%d items, %d sections)\n", label(o), o.Path, o.Items, o.Sections)
			if o.PDF != "" {
				green.Fprintf(w, "    └─ %s\n", o.PDF)
			}
		}
	}

	written, skipped, failed := s.Counts()
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("─", 50)))

	status := green
	mark := "✓"
	if failed > 0 {
		status, mark = red, "✗"
	} else if skipped > 0 {
		status, mark = yellow, "⚠"
	}
	status.Fprintf(w, "%s %d written, %d skipped, %d failed", mark, written, skipped, failed)
	if s.Duration > 0 {
		fmt.Fprintf(w, " in %s", s.Duration.Round(time.Millisecond))
	}
	fmt.Fprintln(w)
}

func label(o Outcome) string {
	if o.Source != "" && o.Source != o.Name {
		return fmt.Sprintf("%s (%s)", o.Name, o.Source)
	}
	return o.Name
}
