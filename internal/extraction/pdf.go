package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home on first use.
	api.DisableConfigDir()
}

// PDFExtractor validates a PDF with pdfcpu and reads it page by page, one line per text row.
type PDFExtractor struct {
	// SkipValidation bypasses the structural check, for PDFs pdfcpu rejects but which still
	// render text.
	SkipValidation bool
}

// NewPDFExtractor returns a PDFExtractor with validation enabled.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract implements Extractor.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (result *Result, err error) {
	if !e.SkipValidation {
		if err := validatePDF(data); err != nil {
			return nil, err
		}
	}

	// ledongthuc/pdf panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExtractionError{Message: "failed to read PDF", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Message: "failed to open PDF", Cause: err}
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &ExtractionError{Message: "extraction cancelled", Cause: err}
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, &ExtractionError{Message: fmt.Sprintf("failed to read page %d", i), Cause: err}
		}
		pages = append(pages, rowsText(rows))
	}

	return &Result{Pages: pages, PageCount: numPages}, nil
}

func validatePDF(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return &ExtractionError{Message: "invalid PDF", Cause: err}
	}
	return nil
}

// minWordGap is the horizontal gap, as a fraction of the font size, that separates two
// words placed by positioning rather than by a space glyph.
const minWordGap = 0.15

// rowsText renders each row as one line, fragments in reading order.
func rowsText(rows pdf.Rows) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var sb strings.Builder
		for i, text := range row.Content {
			if i > 0 && wordBreak(row.Content[i-1], text) {
				sb.WriteByte(' ')
			}
			sb.WriteString(text.S)
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// wordBreak reports whether a space belongs between two fragments of the same row.
// Fragments of one TJ array share their starting X and are glued; separately positioned
// fragments are words unless the text already carries the space. When the reader knows the
// fragment width, only a gap wider than minWordGap of the font size counts.
func wordBreak(prev, cur pdf.Text) bool {
	if prev.S == "" || cur.S == "" {
		return false
	}
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(cur.S, " ") {
		return false
	}
	if prev.W > 0 {
		gap := cur.X - (prev.X + prev.W)
		return gap > minWordGap*prev.FontSize
	}
	return cur.X > prev.X
}
