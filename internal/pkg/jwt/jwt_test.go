package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("secret")
	token, err := GenerateToken("user-1", "a@b.com", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "a@b.com", claims.Email)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", "", []byte("a"), time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(token, []byte("b"))
	require.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("user-1", "", []byte("a"), -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(token, []byte("a"))
	require.Error(t, err)
}
