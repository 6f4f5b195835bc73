// Package middleware provides HTTP middleware for the resume API: session authentication,
// request IDs, access logging, panic recovery and CORS.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for storing the authenticated session ID.
const sessionIDKey ContextKey = "sessionID"

// TokenVerifier checks a bearer token and returns the session it was issued for.
type TokenVerifier interface {
	Verify(tokenString string) (uuid.UUID, error)
}

// ErrorWriter writes an error response; the server supplies its JSON writer.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, message string)

// SessionAuth requires a bearer token issued for the session named by the {id} path value.
func SessionAuth(verifier TokenVerifier, writeError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, r, http.StatusUnauthorized, "missing or malformed bearer token")
				return
			}

			sessionID, err := verifier.Verify(tokenString)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			pathID, err := uuid.Parse(r.PathValue("id"))
			if err != nil {
				writeError(w, r, http.StatusBadRequest, "invalid session id")
				return
			}
			if pathID != sessionID {
				writeError(w, r, http.StatusForbidden, "token does not grant access to this session")
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an Authorization header; the scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// GetSessionID extracts the authenticated session ID from the request context.
func GetSessionID(r *http.Request) (uuid.UUID, error) {
	id, ok := r.Context().Value(sessionIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("session ID not found in request context")
	}
	return id, nil
}
