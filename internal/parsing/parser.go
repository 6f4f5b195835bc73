// Package parsing turns the extracted text lines of a resume into a structured ResumeDocument.
package parsing

import (
	"strings"

	"github.com/Vigneshm07/resume-parser/internal/types"
)

// Parse classifies lines in a single forward pass and returns the resulting document.
//
// Lines are expected trimmed, non-empty and in reading order. Parse never fails:
// input it cannot classify simply leaves fields empty. It performs no I/O and keeps
// no state between calls.
func Parse(lines []string) *types.ResumeDocument {
	p := &parser{
		lines: lines,
		doc:   types.NewResumeDocument(),
	}
	for i := 0; i < len(p.lines); i++ {
		i = p.step(i)
	}
	p.flush()
	return p.doc
}

// parser holds the state of one Parse call.
// At most one of exp and proj is non-nil: the entry currently being accumulated.
type parser struct {
	lines   []string
	doc     *types.ResumeDocument
	section Section
	exp     *types.ExperienceEntry
	proj    *types.ProjectEntry
}

// bodyHandler consumes a content line of the current section and returns the index of
// the last line it consumed.
type bodyHandler func(p *parser, i int, line, lower string) int

var bodyHandlers = map[Section]bodyHandler{
	SectionSummary:    (*parser).summaryLine,
	SectionExperience: (*parser).experienceLine,
	SectionProjects:   (*parser).projectLine,
	SectionSkills:     (*parser).skillsLine,
}

// step classifies line i and returns the index of the last line consumed.
func (p *parser) step(i int) int {
	line := p.lines[i]

	if p.extractContact(line) {
		return i
	}

	lower := strings.ToLower(line)
	switch {
	case i == 0:
		p.doc.Name = line
		return i
	case i == 1 && !containsAny(lower, titleGuards):
		p.doc.Title = line
		return i
	}

	if section, ok := matchHeader(lower); ok {
		p.enter(section)
		return i
	}

	if handle, ok := bodyHandlers[p.section]; ok {
		return handle(p, i, line, lower)
	}
	return i
}

// extractContact stores the first contact pattern found in line and reports whether it
// consumed the line.
func (p *parser) extractContact(line string) bool {
	for _, rule := range contactRules {
		if match := rule.pattern.FindString(line); match != "" {
			rule.assign(&p.doc.Contact, match)
			return true
		}
	}
	return false
}

// enter closes the open entry and switches sections.
func (p *parser) enter(section Section) {
	p.flush()
	p.section = section
}

// flush appends the open entry, if it holds anything, to the sequence that owns it.
func (p *parser) flush() {
	if p.exp != nil && !p.exp.IsEmpty() {
		p.doc.Experience = append(p.doc.Experience, *p.exp)
	}
	if p.proj != nil && !p.proj.IsEmpty() {
		p.doc.Projects = append(p.doc.Projects, *p.proj)
	}
	p.exp, p.proj = nil, nil
}

func (p *parser) summaryLine(i int, line, lower string) int {
	if !strings.Contains(lower, "experience") {
		p.doc.Summary += line + " "
	}
	return i
}

func (p *parser) experienceLine(i int, line, _ string) int {
	if periodPattern.MatchString(line) {
		p.flush()
		p.exp = &types.ExperienceEntry{Period: line, Achievements: []string{}}
		return i
	}

	if p.exp == nil {
		p.exp = &types.ExperienceEntry{Achievements: []string{}}
	}
	entry := p.exp

	switch {
	case entry.Title == "":
		entry.Title = line
	case entry.Company == "":
		entry.Company = line
		if next, ok := p.peek(i); ok && strings.Contains(next, ",") {
			entry.Location = next
			return i + 1
		}
	case isBullet(line):
		entry.Achievements = append(entry.Achievements, stripBullet(line))
	default:
		entry.Description += line + " "
	}
	return i
}

func (p *parser) projectLine(i int, line, _ string) int {
	if p.proj == nil {
		p.proj = &types.ProjectEntry{Achievements: []string{}}
	}
	entry := p.proj

	switch {
	case entry.Name == "":
		entry.Name = line
		return i
	case periodPattern.MatchString(line):
		entry.Period = line
		return i
	case entry.Description == "":
		entry.Description = line
		entry.Achievements = []string{}
	case isBullet(line):
		entry.Achievements = append(entry.Achievements, stripBullet(line))
	}

	next, ok := p.peek(i)
	if !ok || strings.Contains(strings.ToLower(next), "project") {
		p.flush()
	}
	return i
}

func (p *parser) skillsLine(i int, line, _ string) int {
	p.doc.Skills = append(p.doc.Skills, splitSkills(line)...)
	return i
}

// peek returns the line after i, if any.
func (p *parser) peek(i int) (string, bool) {
	if i+1 >= len(p.lines) {
		return "", false
	}
	return p.lines[i+1], true
}
