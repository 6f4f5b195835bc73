// Package extraction reads the page text out of uploaded resume documents.
package extraction

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Vigneshm07/resume-parser/internal/upload"
)

// Result holds the text of every page in page order
type Result struct {
	Pages     []string `json:"pages"`
	PageCount int      `json:"page_count"`
}

// Extractor reads all page text out of a document held in memory.
// Implementations collect every page before returning.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*Result, error)
}

// ForKind returns the extractor for a detected document kind.
func ForKind(kind upload.Kind) (Extractor, error) {
	switch kind {
	case upload.KindPDF:
		return NewPDFExtractor(), nil
	case upload.KindDOCX:
		return &DOCXExtractor{}, nil
	case upload.KindText:
		return &TextExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}

// TextExtractor passes UTF-8 text through as a single page.
type TextExtractor struct{}

// Extract implements Extractor.
func (e *TextExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ExtractionError{Message: "extraction cancelled", Cause: err}
	}
	if !utf8.Valid(data) {
		return nil, &ExtractionError{Message: "text is not valid UTF-8"}
	}
	return &Result{Pages: []string{string(data)}, PageCount: 1}, nil
}
