// Package upload validates uploaded resume files and classifies their content.
package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxUploadBytes is the largest accepted upload (2 MiB)
const MaxUploadBytes int64 = 2 << 20

var (
	ErrUnsupportedType = errors.New("Please upload a PDF or DOCX file only.") //nolint:staticcheck // shown to users verbatim
	ErrFileTooLarge    = errors.New("File size exceeds 2MB limit.")          //nolint:staticcheck // shown to users verbatim
	ErrEmptyFile       = errors.New("file is empty")
)

// Kind is the detected format of an upload
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindDOCX    Kind = "docx"
	KindText    Kind = "text"
	KindUnknown Kind = "unknown"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
	mimeZip  = "application/zip"
)

// Validate checks an upload against the default size limit.
func Validate(filename, contentType string, size int64) error {
	return ValidateLimit(filename, contentType, size, MaxUploadBytes)
}

// ValidateLimit accepts a file whose declared content type mentions "pdf" or whose name ends
// with ".docx", and whose size is within (0, limit]. The type is checked before the size.
func ValidateLimit(filename, contentType string, size, limit int64) error {
	if !strings.Contains(contentType, "pdf") && !strings.HasSuffix(filename, ".docx") {
		return fmt.Errorf("%w: %q (%s)", ErrUnsupportedType, filename, contentType)
	}
	if size > limit {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, limit)
	}
	if size <= 0 {
		return ErrEmptyFile
	}
	return nil
}

// DetectKind sniffs data and falls back to the file extension when the content is
// inconclusive, e.g. a DOCX whose zip directory mimetype cannot see into.
func DetectKind(data []byte, filename string) Kind {
	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is(mimePDF):
		return KindPDF
	case mtype.Is(mimeDOCX):
		return KindDOCX
	case mtype.Is(mimeZip) && hasExt(filename, ".docx"):
		return KindDOCX
	case mtype.Is(mimeText):
		if hasExt(filename, ".pdf") || hasExt(filename, ".docx") {
			return KindUnknown
		}
		return KindText
	}
	return KindUnknown
}

// ContentType returns the sniffed MIME type of data, for callers that have no declared type.
func ContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

func hasExt(filename, ext string) bool {
	return strings.EqualFold(filepath.Ext(filename), ext)
}
