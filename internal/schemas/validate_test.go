package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Vigneshm07/resume-parser/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_ValidJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidJSON_MissingField(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "invalid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_InvalidJSON_WrongType(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "type_mismatch.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	schemaPath := "testdata/nonexistent_schema.json"
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_NonExistentJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := "testdata/nonexistent_json.json"

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	// Create a temporary malformed JSON file
	tmpDir := t.TempDir()
	malformedJSON := filepath.Join(tmpDir, "malformed.json")
	err := os.WriteFile(malformedJSON, []byte("{ invalid json }"), 0644)
	require.NoError(t, err)

	schemaPath := filepath.Join("testdata", "valid_schema.json")

	valErr := ValidateJSON(schemaPath, malformedJSON)
	require.Error(t, valErr)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, valErr, &loadErr)
	assert.True(t, filepath.IsAbs(loadErr.Path))
	assert.Equal(t, "valid_schema.json", filepath.Base(loadErr.Path))
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}

func TestValidateJSON_NestedFieldValidation(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string"}
				}
			}
		}
	}`

	jsonContent := `{"person": {}}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
	// Check that the field path includes nested field
	found := false
	for _, fieldErr := range validationErr.Errors {
		if fieldErr.Field != "" {
			found = true
			break
		}
	}
	assert.True(t, found, "should include field path in error")
}

func TestValidateJSON_ArrayValidation(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"properties": {
			"items": {
				"type": "array",
				"items": {"type": "string"},
				"minItems": 1
			}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"items": []}`)
	assert.Error(t, err)
}

func TestValidateResumeDocument_ParserOutputShape(t *testing.T) {
	doc := types.NewResumeDocument()
	doc.Name = "Jane Doe"
	doc.Experience = append(doc.Experience, types.ExperienceEntry{
		Title:        "Staff Engineer",
		Period:       "2019",
		Achievements: []string{"Cut latency 30%"},
	})
	doc.Projects = append(doc.Projects, types.ProjectEntry{Name: "Parser", Achievements: []string{}})
	doc.Skills = []string{"Go"}

	assert.NoError(t, ValidateResumeDocument(doc))
	assert.NoError(t, ValidateResumeDocument(types.NewResumeDocument()))
}

func TestValidateResumeDocument_NilSlicesRejected(t *testing.T) {
	doc := &types.ResumeDocument{Name: "Jane Doe"}

	err := ValidateResumeDocument(doc)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "got %T", err)
	assert.Len(t, validationErr.Errors, 3)

	doc.Normalize()
	assert.NoError(t, ValidateResumeDocument(doc))
}

func TestValidateResumeDocumentJSON(t *testing.T) {
	assert.Error(t, ValidateResumeDocumentJSON([]byte(`{"name": "Jane Doe"}`)))
	assert.Error(t, ValidateResumeDocumentJSON([]byte(`{"name": 1}`)))
	assert.Error(t, ValidateResumeDocumentJSON([]byte(`not json`)))
}

func TestValidateAnalysisJSON(t *testing.T) {
	valid := `{"score": 60, "analysis": {"content": {"score": 60, "items": []}, "skills": {"score": 75, "items": ["Technical Skills"]}}}`
	assert.NoError(t, ValidateAnalysisJSON([]byte(valid)))

	assert.Error(t, ValidateAnalysisJSON([]byte(`{"score": -1, "analysis": {}}`)))
}

func TestResolveSchemaPath(t *testing.T) {
	path := ResolveSchemaPath("schemas/resume_document.schema.json")
	assert.NotEmpty(t, path)
	assert.True(t, filepath.IsAbs(path))

	assert.Empty(t, ResolveSchemaPath("schemas/does_not_exist.schema.json"))
}

func TestValidateJSON_AgainstShippedSchema(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name": "Jane Doe"}`), 0644))

	err := ValidateJSON(ResolveSchemaPath("schemas/resume_document.schema.json"), jsonPath)
	require.Error(t, err)
	_, ok := err.(*ValidationError)
	assert.True(t, ok)
}
