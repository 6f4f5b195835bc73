// Package types provides type definitions for structured data used throughout the resume parser.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeDocument is the structured record produced from the text of an uploaded resume.
// Every field is always present: strings default to "" and slices to empty, never nil.
type ResumeDocument struct {
	Name       string            `json:"name"`
	Title      string            `json:"title"`
	Contact    ContactInfo       `json:"contact"`
	Summary    string            `json:"summary"`
	Experience []ExperienceEntry `json:"experience"`
	Projects   []ProjectEntry    `json:"projects"`
	Skills     []string          `json:"skills"`
}

// ContactInfo holds the contact fields found anywhere in the document
type ContactInfo struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
}

// ExperienceEntry represents a single work-experience block
type ExperienceEntry struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Period       string   `json:"period"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

// ProjectEntry represents a single project block
type ProjectEntry struct {
	Name         string   `json:"name"`
	Period       string   `json:"period"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

// NewResumeDocument returns an empty document with all sequences initialized.
func NewResumeDocument() *ResumeDocument {
	return &ResumeDocument{
		Experience: []ExperienceEntry{},
		Projects:   []ProjectEntry{},
		Skills:     []string{},
	}
}

// IsEmpty reports whether no field of the entry has been set yet.
func (e *ExperienceEntry) IsEmpty() bool {
	return e.Title == "" && e.Company == "" && e.Period == "" && e.Location == "" &&
		e.Description == "" && len(e.Achievements) == 0
}

// IsEmpty reports whether no field of the entry has been set yet.
func (p *ProjectEntry) IsEmpty() bool {
	return p.Name == "" && p.Period == "" && p.Description == "" && len(p.Achievements) == 0
}

// Normalize replaces nil slices with empty ones, including nested achievements.
// Documents decoded from JSON may carry nulls; after Normalize they satisfy the
// "every field present" output contract again.
func (d *ResumeDocument) Normalize() {
	if d.Experience == nil {
		d.Experience = []ExperienceEntry{}
	}
	for i := range d.Experience {
		if d.Experience[i].Achievements == nil {
			d.Experience[i].Achievements = []string{}
		}
	}
	if d.Projects == nil {
		d.Projects = []ProjectEntry{}
	}
	for i := range d.Projects {
		if d.Projects[i].Achievements == nil {
			d.Projects[i].Achievements = []string{}
		}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
}
