package session

import (
	"strings"
	"testing"
	"time"

	"github.com/Vigneshm07/resume-parser/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService(&config.JWTConfig{Secret: "test-secret-key", ExpirationHours: 24})
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService()
	id := uuid.New()

	token, err := svc.Issue(id)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTestTokenService()
	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := newTestTokenService().Issue(uuid.New())
	require.NoError(t, err)

	other := NewTokenService(&config.JWTConfig{Secret: "another-secret", ExpirationHours: 24})
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsBadInput(t *testing.T) {
	svc := newTestTokenService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"three garbage parts", "a.b.c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		SessionID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestTokenService().Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsNilSession(t *testing.T) {
	svc := newTestTokenService()
	token, err := svc.Issue(uuid.Nil)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
