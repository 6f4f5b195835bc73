package extraction

import (
	"bytes"
	"context"

	"code.sajari.com/docconv"
)

// DOCXExtractor reads the body text of a Word document. DOCX has no fixed pagination, so the
// whole body is returned as one page.
type DOCXExtractor struct{}

// Extract implements Extractor.
func (e *DOCXExtractor) Extract(ctx context.Context, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ExtractionError{Message: "extraction cancelled", Cause: err}
	}

	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return nil, &ExtractionError{Message: "failed to read DOCX", Cause: err}
	}
	return &Result{Pages: []string{text}, PageCount: 1}, nil
}
