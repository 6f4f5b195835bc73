//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResumeDocument_MarshalsAllFields(t *testing.T) {
	data, err := json.Marshal(NewResumeDocument())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"name": "",
		"title": "",
		"contact": {"phone": "", "email": "", "location": "", "linkedin": ""},
		"summary": "",
		"experience": [],
		"projects": [],
		"skills": []
	}`, string(data))
}

func TestExperienceEntry_IsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		entry ExperienceEntry
		want  bool
	}{
		{"zero value", ExperienceEntry{}, true},
		{"empty achievements", ExperienceEntry{Achievements: []string{}}, true},
		{"title set", ExperienceEntry{Title: "Engineer"}, false},
		{"period only", ExperienceEntry{Period: "2019"}, false},
		{"achievement only", ExperienceEntry{Achievements: []string{"x"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.IsEmpty())
		})
	}
}

func TestProjectEntry_IsEmpty(t *testing.T) {
	assert.True(t, (&ProjectEntry{}).IsEmpty())
	assert.True(t, (&ProjectEntry{Achievements: []string{}}).IsEmpty())
	assert.False(t, (&ProjectEntry{Name: "Parser"}).IsEmpty())
	assert.False(t, (&ProjectEntry{Description: "d"}).IsEmpty())
}

func TestResumeDocument_Normalize(t *testing.T) {
	var doc ResumeDocument
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Jane",
		"experience": [{"title": "Dev", "achievements": null}],
		"projects": [{"name": "Tool"}],
		"skills": null
	}`), &doc))

	doc.Normalize()

	assert.Equal(t, "Jane", doc.Name)
	require.Len(t, doc.Experience, 1)
	assert.NotNil(t, doc.Experience[0].Achievements)
	require.Len(t, doc.Projects, 1)
	assert.NotNil(t, doc.Projects[0].Achievements)
	assert.NotNil(t, doc.Skills)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestResumeDocument_NormalizeEmpty(t *testing.T) {
	doc := &ResumeDocument{}
	doc.Normalize()

	assert.Equal(t, NewResumeDocument(), doc)
}
