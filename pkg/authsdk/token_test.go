package authsdk_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signHS(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	t.Run("with exp", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		tok := signHS(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

		got, ok, err := authsdk.TokenExpiry(tok)
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, exp.Equal(got))
	})

	t.Run("already expired is still readable", func(t *testing.T) {
		tok := signHS(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))})

		got, ok, err := authsdk.TokenExpiry(tok)
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, got.Before(time.Now()))
	})

	t.Run("without exp", func(t *testing.T) {
		_, ok, err := authsdk.TokenExpiry(signHS(t, jwt.RegisteredClaims{Subject: "EMP001"}))
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("opaque", func(t *testing.T) {
		_, _, err := authsdk.TokenExpiry("abc123")
		require.ErrorIs(t, err, authsdk.ErrNotJWT)
	})

	t.Run("three segments of junk", func(t *testing.T) {
		_, _, err := authsdk.TokenExpiry("a.b.c")
		require.ErrorIs(t, err, authsdk.ErrNotJWT)
	})
}
