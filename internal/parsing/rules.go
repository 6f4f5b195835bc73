package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Vigneshm07/resume-parser/internal/types"
)

// Section identifies which part of the resume the parser is reading.
type Section int

// Sections, in the order they usually appear on a resume.
const (
	SectionNone Section = iota
	SectionSummary
	SectionExperience
	SectionProjects
	SectionSkills
)

func (s Section) String() string {
	switch s {
	case SectionSummary:
		return "summary"
	case SectionExperience:
		return "experience"
	case SectionProjects:
		return "projects"
	case SectionSkills:
		return "skills"
	default:
		return "none"
	}
}

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	// optional +, optional country code, optional (area code), then 3 and 4-6 digits
	phonePattern    = regexp.MustCompile(`\+?(?:\d{1,3}[-\s.]?)?\(?\d{3}\)?[-\s.]?\d{3}[-\s.]?\d{4,6}`)
	linkedInPattern = regexp.MustCompile(`linkedin\.com/in/[\w-]+`)

	// MM/YYYY or any bare four-digit run
	periodPattern = regexp.MustCompile(`\d{2}/\d{4}|\d{4}`)
)

// contactRule assigns the first match of pattern to one contact field.
type contactRule struct {
	pattern *regexp.Regexp
	assign  func(c *types.ContactInfo, value string)
}

// contactRules are checked in order; the first match consumes the line.
var contactRules = []contactRule{
	{emailPattern, func(c *types.ContactInfo, v string) { c.Email = v }},
	{phonePattern, func(c *types.ContactInfo, v string) { c.Phone = v }},
	{linkedInPattern, func(c *types.ContactInfo, v string) { c.LinkedIn = v }},
}

// headerRule switches the parser into section when the lowercased line contains any keyword.
type headerRule struct {
	keywords []string
	section  Section
}

// headerRules are evaluated in priority order; the first hit wins.
var headerRules = []headerRule{
	{keywords: []string{"summary", "objective"}, section: SectionSummary},
	{keywords: []string{"experience", "work history"}, section: SectionExperience},
	{keywords: []string{"project"}, section: SectionProjects},
	{keywords: []string{"skills", "technologies"}, section: SectionSkills},
}

// titleGuards mark a second line as a section header rather than a job title.
var titleGuards = []string{"summary", "experience"}

// matchHeader returns the section a header line opens.
func matchHeader(lower string) (Section, bool) {
	for _, rule := range headerRules {
		if containsAny(lower, rule.keywords) {
			return rule.section, true
		}
	}
	return SectionNone, false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// isBullet reports whether the line starts with a bullet marker.
func isBullet(line string) bool {
	return strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-")
}

// stripBullet drops the leading marker rune and surrounding whitespace.
func stripBullet(line string) string {
	_, size := utf8.DecodeRuneInString(line)
	return strings.TrimSpace(line[size:])
}

// splitSkills splits a skills line on commas, pipes and bullets, dropping empty pieces.
func splitSkills(line string) []string {
	pieces := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == '|' || r == '•'
	})
	skills := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if skill := strings.TrimSpace(piece); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}
