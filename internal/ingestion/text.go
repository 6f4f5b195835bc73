// Package ingestion turns extracted page text into the ordered line sequence the parser consumes.
package ingestion

import (
	"fmt"
	"os"
	"strings"
)

// SplitLines normalizes line endings, splits text into lines, trims each line and drops
// the blank ones. Order is preserved.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return CleanLines(strings.Split(text, "\n"))
}

// CleanLines trims every line and drops the blank ones, for callers that already hold a
// line sequence. The result is never nil.
func CleanLines(raw []string) []string {
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = cleanLine(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// cleanLine trims surrounding whitespace, including the non-breaking spaces PDF
// extraction tends to leave behind.
func cleanLine(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, "\u00a0", " "))
}

// JoinPages concatenates page texts in page order, one newline between pages.
func JoinPages(pages []string) string {
	return strings.Join(pages, "\n")
}

// LinesFromPages is SplitLines(JoinPages(pages)).
func LinesFromPages(pages []string) []string {
	return SplitLines(JoinPages(pages))
}

// IngestFromFile reads an already linearized text file and returns its lines.
func IngestFromFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return SplitLines(string(content)), nil
}
