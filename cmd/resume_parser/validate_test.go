package main

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `{
  "name": "Jane Doe",
  "title": "Engineer",
  "contact": {"phone": "", "email": "jane@example.com", "location": "", "linkedin": ""},
  "summary": "",
  "experience": [],
  "projects": [],
  "skills": ["Go"]
}`

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "valid.json", []byte(validDocument))
	missing := writeFile(t, dir, "missing.json", []byte(`{"name": "Jane Doe"}`))
	garbage := writeFile(t, dir, "garbage.json", []byte(`not json`))

	t.Run("all valid", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, validateFiles([]string{valid}, "", &out))
		assert.Contains(t, out.String(), "✅ VALID")
		assert.NotContains(t, out.String(), "INVALID")
	})

	t.Run("schema violations are counted", func(t *testing.T) {
		var out bytes.Buffer
		err := validateFiles([]string{valid, missing, garbage}, "", &out)
		require.Error(t, err)
		assert.Equal(t, "2 of 3 documents are invalid", err.Error())
		assert.Equal(t, 2, strings.Count(out.String(), "⚠ INVALID"))
		assert.Contains(t, out.String(), "could not read document")
	})

	t.Run("unreadable file", func(t *testing.T) {
		var out bytes.Buffer
		err := validateFiles([]string{filepath.Join(dir, "nope.json")}, "", &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

func TestValidateFiles_CustomSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "name_only.schema.json", []byte(`{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string"}}
	}`))
	nameOnly := writeFile(t, dir, "name_only.json", []byte(`{"name": "Jane Doe"}`))
	noName := writeFile(t, dir, "no_name.json", []byte(`{"title": "Engineer"}`))

	t.Run("document valid against the given schema", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, validateFiles([]string{nameOnly}, schemaPath, &out))
		assert.Contains(t, out.String(), "✅ VALID")

		// The built-in schema requires every field.
		assert.Error(t, validateFiles([]string{nameOnly}, "", &out))
	})

	t.Run("document invalid against the given schema", func(t *testing.T) {
		var out bytes.Buffer
		err := validateFiles([]string{nameOnly, noName}, schemaPath, &out)
		require.Error(t, err)
		assert.Equal(t, "1 of 2 documents are invalid", err.Error())
	})

	t.Run("missing schema file", func(t *testing.T) {
		var out bytes.Buffer
		err := validateFiles([]string{nameOnly}, filepath.Join(dir, "nope.schema.json"), &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema file not found")
	})
}

func TestParseTextFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "resume.txt", []byte("Jane Doe\nSenior Engineer\n\njane.doe@example.com\nSkills\nGo, Rust\n"))

	var stdout bytes.Buffer
	require.NoError(t, parseTextFile(in, "", &stdout))

	doc := decodeDocument(t, stdout.Bytes())
	assert.Equal(t, "Jane Doe", doc.Name)
	assert.Equal(t, "Senior Engineer", doc.Title)
	assert.Equal(t, []string{"Go", "Rust"}, doc.Skills)

	err := parseTextFile(filepath.Join(dir, "nope.txt"), "", &stdout)
	assert.Error(t, err)
}

func TestValidateCommand_FlagsValidation(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "validate").CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "required")

	output, err = exec.Command(binaryPath, "parse-text").CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "required")
}
