package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Vigneshm07/resume-parser/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintDocument(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	doc := types.NewResumeDocument()
	doc.Name = "Jane Doe"
	doc.Title = "Backend Engineer"
	doc.Contact.Email = "jane@example.com"
	doc.Experience = []types.ExperienceEntry{
		{Company: "Acme Corp", Period: "2019 - 2023", Achievements: []string{"Shipped", "Scaled"}},
	}
	doc.Projects = []types.ProjectEntry{{Name: "Atlas"}}
	doc.Skills = []string{"Go", "Postgres"}

	p.PrintDocument("jane.pdf", doc)
	output := buf.String()

	assert.Contains(t, output, "PARSED RESUME: jane.pdf")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Backend Engineer")
	assert.Contains(t, output, "jane@example.com")
	assert.Contains(t, output, "Acme Corp (2019 - 2023)")
	assert.Contains(t, output, "2 achievements")
	assert.Contains(t, output, "Atlas")
	assert.Contains(t, output, "Go, Postgres")
	assert.NotContains(t, output, "LinkedIn")
}

func TestPrintDocument_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDocument("x", nil)
	assert.Empty(t, buf.String())
}

func TestPrintDocument_EmptyFieldsShowDash(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDocument("", types.NewResumeDocument())

	output := buf.String()
	assert.Contains(t, output, "PARSED RESUME")
	assert.Contains(t, output, "Name:     -")
	assert.NotContains(t, output, "Experience")
}

func TestPrintDocument_ManyExperiences(t *testing.T) {
	var buf bytes.Buffer
	doc := types.NewResumeDocument()
	for i := 0; i < 8; i++ {
		doc.Experience = append(doc.Experience, types.ExperienceEntry{Company: "Company"})
	}

	NewPrinter(&buf).PrintDocument("cv", doc)

	output := buf.String()
	assert.Contains(t, output, "Experience (8)")
	assert.Contains(t, output, "... and 3 more")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintValidation("good.json", nil)
	assert.Contains(t, buf.String(), "VALID: good.json")

	buf.Reset()
	p.PrintValidation("bad.json", errors.New("skills: invalid type"))
	assert.Contains(t, buf.String(), "INVALID: bad.json")
	assert.Contains(t, buf.String(), "skills: invalid type")
}
