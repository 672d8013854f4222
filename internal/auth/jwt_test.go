package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", "quizdeck", "quizdeck-api", time.Minute)

	token, err := issuer.Issue("user-1", "jane@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Email)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret", "quizdeck", "quizdeck-api", time.Minute)
	other := NewTokenIssuer("different", "quizdeck", "quizdeck-api", time.Minute)

	token, err := issuer.Issue("user-1", "jane@example.com")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", "quizdeck", "quizdeck-api", -time.Minute)

	token, err := issuer.Issue("user-1", "jane@example.com")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	issuer := NewTokenIssuer("secret", "quizdeck", "quizdeck-api", time.Minute)
	other := NewTokenIssuer("secret", "quizdeck", "other-api", time.Minute)

	token, err := issuer.Issue("user-1", "jane@example.com")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("secret", "quizdeck", "quizdeck-api", time.Minute)

	_, err := issuer.Verify("not.a.token")
	assert.Error(t, err)
}
