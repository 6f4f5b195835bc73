package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Vigneshm07/resume-parser/internal/extraction"
	"github.com/Vigneshm07/resume-parser/internal/session"
	"github.com/Vigneshm07/resume-parser/internal/upload"
	"github.com/go-playground/validator/v10"
)

// msgProcessingFailed is shown for any extraction failure; details stay in the log.
const msgProcessingFailed = "Error processing the file. Please try again."

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// newValidationError converts validator errors into an *ErrValidation naming the first failing field.
func newValidationError(err error) *ErrValidation {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ErrValidation{Field: verrs[0].Field(), Message: verrs[0].Tag()}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var extractionErr *extraction.ExtractionError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, upload.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, upload.ErrUnsupportedType), errors.Is(err, upload.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrExists):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidScore), errors.As(err, &validationErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message safe to show the caller for err.
func ClientMessage(err error) string {
	var extractionErr *extraction.ExtractionError

	switch {
	case errors.Is(err, upload.ErrFileTooLarge):
		return upload.ErrFileTooLarge.Error()
	case errors.Is(err, upload.ErrUnsupportedType):
		return upload.ErrUnsupportedType.Error()
	case errors.As(err, &extractionErr):
		return msgProcessingFailed
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
