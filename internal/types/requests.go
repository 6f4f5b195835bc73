package types

import (
	"github.com/go-playground/validator/v10"
)

// ParseRequest is the body of a stateless parse call. Exactly one of Lines or Text is used;
// Lines wins when both are set.
type ParseRequest struct {
	Lines []string `json:"lines,omitempty" validate:"required_without=Text,max=20000,dive,max=4096"`
	Text  string   `json:"text,omitempty" validate:"required_without=Lines,max=2097152"`
}

// UpdateContentRequest replaces the document held by a session.
type UpdateContentRequest struct {
	Content *ResumeDocument `json:"content" validate:"required"`
}

// UpdateAnalysisRequest sets the externally computed score and analysis of a session.
type UpdateAnalysisRequest struct {
	Score    int      `json:"score" validate:"gte=0,lte=100"`
	Analysis Analysis `json:"analysis"`
}

var validate = validator.New()

// Validate validates the ParseRequest using the validator.
func (r *ParseRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateContentRequest using the validator.
func (r *UpdateContentRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateAnalysisRequest using the validator.
func (r *UpdateAnalysisRequest) Validate() error {
	return validate.Struct(r)
}
