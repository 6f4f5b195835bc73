// Package schemas holds the JSON Schema files describing the documents this service emits.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names within FS
const (
	ResumeDocumentFile = "resume_document.schema.json"
	AnalysisFile       = "analysis.schema.json"
)
