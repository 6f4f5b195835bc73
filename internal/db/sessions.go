package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vigneshm07/resume-parser/internal/session"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SessionStore implements session.Store on the resume_sessions table.
type SessionStore struct {
	db  *DB
	ttl time.Duration
}

// NewSessionStore creates a SessionStore. A zero TTL keeps sessions until deleted.
func NewSessionStore(db *DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl}
}

var _ session.Store = (*SessionStore)(nil)

// sessionRow is the column form of a session
type sessionRow struct {
	ID        uuid.UUID
	File      []byte
	Content   []byte
	Score     int
	Analysis  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

func toRow(s *session.Session) (*sessionRow, error) {
	file, err := json.Marshal(s.File)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal file metadata: %w", err)
	}
	content, err := json.Marshal(s.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}
	analysis, err := json.Marshal(s.Analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}
	return &sessionRow{
		ID:        s.ID,
		File:      file,
		Content:   content,
		Score:     s.Score,
		Analysis:  analysis,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}, nil
}

func (r *sessionRow) toSession() (*session.Session, error) {
	s := &session.Session{
		ID:        r.ID,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if err := json.Unmarshal(r.File, &s.File); err != nil {
		return nil, fmt.Errorf("failed to unmarshal file metadata: %w", err)
	}
	if err := json.Unmarshal(r.Content, &s.Content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content: %w", err)
	}
	if err := json.Unmarshal(r.Analysis, &s.Analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	s.Content.Normalize()
	return s, nil
}

func (st *SessionStore) expiresAt() *time.Time {
	if st.ttl <= 0 {
		return nil
	}
	t := time.Now().Add(st.ttl)
	return &t
}

// Create inserts a session. An expired row with the same ID is replaced.
func (st *SessionStore) Create(ctx context.Context, s *session.Session) error {
	row, err := toRow(s)
	if err != nil {
		return err
	}

	tag, err := st.db.pool.Exec(ctx,
		`INSERT INTO resume_sessions (id, file, content, score, analysis, created_at, updated_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		     file = EXCLUDED.file, content = EXCLUDED.content, score = EXCLUDED.score,
		     analysis = EXCLUDED.analysis, created_at = EXCLUDED.created_at,
		     updated_at = EXCLUDED.updated_at, expires_at = EXCLUDED.expires_at
		 WHERE resume_sessions.expires_at IS NOT NULL AND resume_sessions.expires_at <= NOW()`,
		row.ID, row.File, row.Content, row.Score, row.Analysis, row.CreatedAt, row.UpdatedAt, st.expiresAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrExists
	}
	return nil
}

// Get retrieves a live session by ID
func (st *SessionStore) Get(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	var row sessionRow
	err := st.db.pool.QueryRow(ctx,
		`SELECT id, file, content, score, analysis, created_at, updated_at
		 FROM resume_sessions
		 WHERE id = $1 AND (expires_at IS NULL OR expires_at > NOW())`,
		id,
	).Scan(&row.ID, &row.File, &row.Content, &row.Score, &row.Analysis, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return row.toSession()
}

// Update overwrites a live session and refreshes its expiry
func (st *SessionStore) Update(ctx context.Context, s *session.Session) error {
	row, err := toRow(s)
	if err != nil {
		return err
	}

	tag, err := st.db.pool.Exec(ctx,
		`UPDATE resume_sessions
		 SET file = $2, content = $3, score = $4, analysis = $5, updated_at = $6, expires_at = $7
		 WHERE id = $1 AND (expires_at IS NULL OR expires_at > NOW())`,
		row.ID, row.File, row.Content, row.Score, row.Analysis, row.UpdatedAt, st.expiresAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

// Delete removes a live session
func (st *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := st.db.pool.Exec(ctx,
		`DELETE FROM resume_sessions WHERE id = $1 AND (expires_at IS NULL OR expires_at > NOW())`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

// DeleteExpired removes every expired session and returns how many rows were dropped
func (st *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := st.db.pool.Exec(ctx,
		`DELETE FROM resume_sessions WHERE expires_at IS NOT NULL AND expires_at <= NOW()`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
