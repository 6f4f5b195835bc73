package extraction

import (
	"errors"
	"fmt"
)

// ErrUnsupportedKind is returned by ForKind for formats no extractor handles
var ErrUnsupportedKind = errors.New("unsupported document kind")

// ExtractionError represents a failure to read text out of a document
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
