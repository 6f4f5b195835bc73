package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/Vigneshm07/resume-parser/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails verification
var ErrInvalidToken = errors.New("invalid session token")

// Claims binds a token to one session.
type Claims struct {
	SessionID uuid.UUID `json:"session_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given configuration.
func NewTokenService(cfg *config.JWTConfig) *TokenService {
	return &TokenService{config: cfg, now: time.Now}
}

// Issue returns a signed token for the session.
func (s *TokenService) Issue(sessionID uuid.UUID) (string, error) {
	now := s.now()
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the session it was issued for.
func (s *TokenService) Verify(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, fmt.Errorf("%w: token string is empty", ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return uuid.Nil, fmt.Errorf("%w: token expired: %v", ErrInvalidToken, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return uuid.Nil, fmt.Errorf("%w: invalid token signature: %v", ErrInvalidToken, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return uuid.Nil, fmt.Errorf("%w: malformed token: %v", ErrInvalidToken, err)
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	return claims.SessionID, nil
}
