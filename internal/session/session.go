// Package session keeps the per-upload state a client works with after a resume is parsed:
// the file metadata, the editable document and the externally supplied analysis.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vigneshm07/resume-parser/internal/types"
	"github.com/Vigneshm07/resume-parser/internal/upload"
	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrExists       = errors.New("session already exists")
	ErrInvalidScore = errors.New("score must be between 0 and 100")
)

// Session is the state of one uploaded resume
type Session struct {
	ID        uuid.UUID            `json:"id"`
	File      upload.Metadata      `json:"file"`
	Content   types.ResumeDocument `json:"content"`
	Score     int                  `json:"score"`
	Analysis  types.Analysis       `json:"analysis"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Store persists sessions. Get returns a copy: changes are visible to other callers only
// after Update.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// New creates a session holding content for the given upload.
func New(file upload.Metadata, content *types.ResumeDocument) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.New(),
		File:      file,
		Analysis:  types.NewAnalysis(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.SetContent(content)
	s.UpdatedAt = now
	return s
}

// SetContent replaces the document. A nil document resets it to empty.
func (s *Session) SetContent(doc *types.ResumeDocument) {
	if doc == nil {
		doc = types.NewResumeDocument()
	}
	s.Content = cloneDocument(doc)
	s.Content.Normalize()
	s.touch()
}

// SetScore sets the overall score.
func (s *Session) SetScore(score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidScore, score)
	}
	s.Score = score
	s.touch()
	return nil
}

// SetAnalysis replaces the per-category analysis.
func (s *Session) SetAnalysis(a types.Analysis) error {
	for _, c := range []types.AnalysisCategory{a.Content, a.Skills} {
		if c.Score < 0 || c.Score > 100 {
			return fmt.Errorf("%w: category score %d", ErrInvalidScore, c.Score)
		}
	}
	if a.Content.Items == nil {
		a.Content.Items = []string{}
	}
	if a.Skills.Items == nil {
		a.Skills.Items = []string{}
	}
	s.Analysis = a
	s.touch()
	return nil
}

// Reset clears the document, score and analysis. ID, file and creation time are kept.
func (s *Session) Reset() {
	s.Content = *types.NewResumeDocument()
	s.Score = 0
	s.Analysis = types.NewAnalysis()
	s.touch()
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	c := *s
	c.Content = cloneDocument(&s.Content)
	c.Analysis.Content.Items = cloneStrings(s.Analysis.Content.Items)
	c.Analysis.Skills.Items = cloneStrings(s.Analysis.Skills.Items)
	return &c
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

func cloneDocument(doc *types.ResumeDocument) types.ResumeDocument {
	c := *doc
	c.Skills = cloneStrings(doc.Skills)
	if doc.Experience != nil {
		c.Experience = make([]types.ExperienceEntry, len(doc.Experience))
		for i, e := range doc.Experience {
			e.Achievements = cloneStrings(e.Achievements)
			c.Experience[i] = e
		}
	}
	if doc.Projects != nil {
		c.Projects = make([]types.ProjectEntry, len(doc.Projects))
		for i, p := range doc.Projects {
			p.Achievements = cloneStrings(p.Achievements)
			c.Projects[i] = p
		}
	}
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
