// Package schemas provides JSON Schema validation for the documents the parser emits.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Vigneshm07/resume-parser/internal/types"
	schemafiles "github.com/Vigneshm07/resume-parser/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ResolveSchemaPath attempts to find a schema file by trying the working directory and up to
// two parent directories. Returns the first path that exists, or empty string if none found.
func ResolveSchemaPath(relativePath string) string {
	candidates := []string{
		relativePath,
		filepath.Join("..", relativePath),
		filepath.Join("..", "..", relativePath),
	}

	for _, candidate := range candidates {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath
			}
		}
	}

	return ""
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	schemaContent, err := os.ReadFile(schemaAbsPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	jsonContent, err := os.ReadFile(jsonAbsPath)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	err = ValidateJSONString(string(schemaContent), string(jsonContent))
	var loadErr *SchemaLoadError
	if errors.As(err, &loadErr) {
		loadErr.Path = schemaAbsPath
	}
	return err
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	return toValidationError(result)
}

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

// embedded returns the compiled schema for one of the files shipped in the schemas package.
func embedded(name string) (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[string]*gojsonschema.Schema)
		for _, file := range []string{schemafiles.ResumeDocumentFile, schemafiles.AnalysisFile} {
			data, err := schemafiles.FS.ReadFile(file)
			if err != nil {
				compileErr = &SchemaLoadError{Path: file, Message: "embedded schema missing", Cause: err}
				return
			}
			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			if err != nil {
				compileErr = &SchemaLoadError{Path: file, Message: "failed to compile schema", Cause: err}
				return
			}
			compiled[file] = schema
		}
	})
	if compileErr != nil {
		return nil, compileErr
	}
	return compiled[name], nil
}

// ValidateResumeDocument checks doc against the ResumeDocument output contract.
func ValidateResumeDocument(doc *types.ResumeDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return ValidateResumeDocumentJSON(data)
}

// ValidateResumeDocumentJSON checks raw JSON against the ResumeDocument output contract.
func ValidateResumeDocumentJSON(data []byte) error {
	return validateEmbedded(schemafiles.ResumeDocumentFile, data)
}

// ValidateAnalysisJSON checks an analysis update body against its schema.
func ValidateAnalysisJSON(data []byte) error {
	return validateEmbedded(schemafiles.AnalysisFile, data)
}

func validateEmbedded(name string, data []byte) error {
	schema, err := embedded(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	return toValidationError(result)
}

// toValidationError returns nil for a valid result, otherwise the structured field errors.
func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
