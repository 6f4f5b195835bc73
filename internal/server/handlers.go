package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Vigneshm07/resume-parser/internal/ingestion"
	"github.com/Vigneshm07/resume-parser/internal/pipeline"
	"github.com/Vigneshm07/resume-parser/internal/schemas"
	"github.com/Vigneshm07/resume-parser/internal/server/middleware"
	"github.com/Vigneshm07/resume-parser/internal/session"
	"github.com/Vigneshm07/resume-parser/internal/types"
	"github.com/Vigneshm07/resume-parser/internal/upload"
)

const (
	// multipartOverhead is allowed on top of the file limit for headers and boundaries
	multipartOverhead = 64 << 10
	// maxJSONBody caps JSON request bodies
	maxJSONBody = 4 << 20
)

// UploadResponse is returned by POST /resumes
type UploadResponse struct {
	SessionID string                `json:"session_id"`
	Token     string                `json:"token"`
	Content   *types.ResumeDocument `json:"content"`
	File      upload.Metadata       `json:"file"`
	PageCount int                   `json:"page_count"`
}

// ParseResponse is returned by POST /resumes/parse
type ParseResponse struct {
	Content *types.ResumeDocument `json:"content"`
}

// handleUpload accepts a multipart "file" field, parses it and opens a session for it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUploadBytes + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.fail(w, r, fmt.Errorf("%w: request body over %d bytes", upload.ErrFileTooLarge, maxErr.Limit))
			return
		}
		s.fail(w, r, &ErrValidation{Field: "file", Message: "expected multipart/form-data"})
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp file cleanup

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "file", Message: "required"})
		return
	}
	defer file.Close() //nolint:errcheck // read-only

	contentType := header.Header.Get("Content-Type")
	if err := upload.ValidateLimit(header.Filename, contentType, header.Size, s.maxUploadBytes); err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		s.fail(w, r, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	out, err := pipeline.Process(r.Context(), pipeline.Input{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, s.pipelineOpts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sess := session.New(out.File, out.Document)
	if err := s.store.Create(r.Context(), sess); err != nil {
		s.fail(w, r, fmt.Errorf("failed to create session: %w", err))
		return
	}
	token, err := s.tokens.Issue(sess.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, UploadResponse{
		SessionID: sess.ID.String(),
		Token:     token,
		Content:   &sess.Content,
		File:      sess.File,
		PageCount: out.PageCount,
	})
}

// handleParse parses lines or raw text without creating a session.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req types.ParseRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, newValidationError(err))
		return
	}

	var lines []string
	if len(req.Lines) > 0 {
		lines = ingestion.CleanLines(req.Lines)
	} else {
		lines = ingestion.SplitLines(req.Text)
	}

	doc, err := pipeline.ParseLines(lines)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ParseResponse{Content: doc})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess)
}

// handleUpdateContent replaces the document after checking it against the output contract.
func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateContentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, newValidationError(err))
		return
	}
	req.Content.Normalize()
	if err := schemas.ValidateResumeDocument(req.Content); err != nil {
		s.fail(w, r, &ErrValidation{Field: "content", Message: err.Error()})
		return
	}

	s.mutateSession(w, r, func(sess *session.Session) error {
		sess.SetContent(req.Content)
		return nil
	})
}

// handleUpdateAnalysis stores an externally computed score and analysis.
func (s *Server) handleUpdateAnalysis(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "body", Message: "too large or unreadable"})
		return
	}
	if err := schemas.ValidateAnalysisJSON(body); err != nil {
		s.fail(w, r, &ErrValidation{Field: "analysis", Message: err.Error()})
		return
	}

	var req types.UpdateAnalysisRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(w, r, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, newValidationError(err))
		return
	}

	s.mutateSession(w, r, func(sess *session.Session) error {
		if err := sess.SetScore(req.Score); err != nil {
			return err
		}
		return sess.SetAnalysis(req.Analysis)
	})
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(sess *session.Session) error {
		sess.Reset()
		return nil
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadSession fetches the authenticated session, writing the error response on failure.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return sess, true
}

// mutateSession loads the session, applies fn and stores the result.
func (s *Server) mutateSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := fn(sess); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Update(r.Context(), sess); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess)
}

// decodeJSON decodes a size-limited JSON body into dst, writing a 400 on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.fail(w, r, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}
