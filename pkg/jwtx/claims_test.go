package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/leavedesk/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "leavedesk-devserver"

func TestValidateIssuer(t *testing.T) {
	t.Parallel()

	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: testIssuer}}

	require.NoError(t, c.ValidateIssuer(testIssuer))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("someone-else"), jwtx.ErrIssuer)
}

func TestValidateExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		c := jwtx.NewChallengeClaims("ch", "EMP001", testIssuer, time.Minute, now)
		require.NoError(t, c.ValidateExpiry(now))
	})

	t.Run("expired at the boundary", func(t *testing.T) {
		c := jwtx.NewChallengeClaims("ch", "EMP001", testIssuer, time.Minute, now)
		require.ErrorIs(t, c.ValidateExpiry(now.Add(time.Minute)), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := jwtx.NewChallengeClaims("ch", "EMP001", testIssuer, time.Minute, now.Add(time.Hour))
		require.ErrorIs(t, c.ValidateExpiry(now), jwtx.ErrNotYetValid)
	})
}

func TestNewClaims(t *testing.T) {
	t.Parallel()

	now := time.Now()

	ch := jwtx.NewChallengeClaims("01J0CHALLENGE", "EMP001", testIssuer, jwtx.DefaultChallengeTTL, now)
	require.Equal(t, jwtx.PurposeChallenge, ch.Purpose)
	require.Equal(t, "01J0CHALLENGE", ch.ChallengeID)
	require.Empty(t, ch.Role)
	require.NotEmpty(t, ch.ID)

	sess := jwtx.NewSessionClaims("EMP001", "FACULTY", testIssuer, jwtx.DefaultSessionTTL, now)
	require.Equal(t, jwtx.PurposeSession, sess.Purpose)
	require.Equal(t, "EMP001", sess.EmployeeID)
	require.Equal(t, "FACULTY", sess.Role)
	require.NotEqual(t, ch.ID, sess.ID)
}
