package http

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokens_RoundTrip(t *testing.T) {
	tokens, err := NewSessionTokens("secret", time.Hour)
	require.NoError(t, err)

	token, err := tokens.Issue("session-1")
	require.NoError(t, err)

	sid, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", sid)
}

func TestSessionTokens_Expired(t *testing.T) {
	tokens, err := NewSessionTokens("secret", time.Minute)
	require.NoError(t, err)
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }

	token, err := tokens.Issue("session-1")
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tokens.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokens_WrongSecret(t *testing.T) {
	a, err := NewSessionTokens("a", time.Hour)
	require.NoError(t, err)
	b, err := NewSessionTokens("b", time.Hour)
	require.NoError(t, err)

	token, err := a.Issue("session-1")
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokens_RandomSecret(t *testing.T) {
	a, err := NewSessionTokens("", time.Hour)
	require.NoError(t, err)
	b, err := NewSessionTokens("", time.Hour)
	require.NoError(t, err)

	token, err := a.Issue("session-1")
	require.NoError(t, err)

	_, err = a.Parse(token)
	assert.NoError(t, err)
	_, err = b.Parse(token)
	assert.Error(t, err)
}

func TestSessionTokens_RejectsMissingSID(t *testing.T) {
	tokens, err := NewSessionTokens("secret", time.Hour)
	require.NoError(t, err)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tokens.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokens_RejectsNoneAlg(t *testing.T) {
	tokens, err := NewSessionTokens("secret", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sid": "session-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
