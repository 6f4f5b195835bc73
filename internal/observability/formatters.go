// Package observability provides logging setup and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/Vigneshm07/resume-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to n runes, ending in "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDocument outputs a human-readable summary of a parsed resume.
func (p *Printer) PrintDocument(source string, doc *types.ResumeDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(doc.Name)))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", orDash(doc.Title)))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orDash(doc.Contact.Email)))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", orDash(doc.Contact.Phone)))
	if doc.Contact.LinkedIn != "" {
		sb.WriteString(fmt.Sprintf("LinkedIn: %s\n", doc.Contact.LinkedIn))
	}

	if len(doc.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("\nExperience (%d):\n", len(doc.Experience)))
		count := min(len(doc.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := doc.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s", orDash(e.Company)))
			if e.Period != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", e.Period))
			}
			sb.WriteString("\n")
			if n := len(e.Achievements); n > 0 {
				sb.WriteString(fmt.Sprintf("    %d achievements\n", n))
			}
		}
		if len(doc.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Experience)-maxItemsToShow))
		}
	}

	if len(doc.Projects) > 0 {
		sb.WriteString(fmt.Sprintf("\nProjects (%d):\n", len(doc.Projects)))
		count := min(len(doc.Projects), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", orDash(doc.Projects[i].Name)))
		}
		if len(doc.Projects) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Projects)-3))
		}
	}

	if len(doc.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkills: %s\n", truncate(strings.Join(doc.Skills, ", "), 48)))
	}

	title := "PARSED RESUME"
	if source != "" {
		title += ": " + source
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation reports the schema check of one document.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(source string, err error) {
	if err == nil {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate("✅ VALID: "+source, boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}
	p.printBox("⚠ INVALID: "+source, err.Error())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
