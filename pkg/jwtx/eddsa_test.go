package jwtx_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/leavedesk/pkg/cryptox"
	"github.com/aussiebroadwan/leavedesk/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())
	return signer
}

func TestEdDSASignAndVerify(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, "dev-1")
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "dev-1", signer.KID())

	claims := jwtx.NewSessionClaims("EMP001", "FACULTY", testIssuer, time.Hour, time.Now())
	claims.AdminID = "ADM1"
	claims.DisplayName = "Asha Rao"
	claims.FirstLogin = true

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := jwtx.NewVerifierEdDSA(testIssuer, signer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "EMP001", got.Subject)
	require.Equal(t, jwtx.PurposeSession, got.Purpose)
	require.Equal(t, "FACULTY", got.Role)
	require.Equal(t, "ADM1", got.AdminID)
	require.Equal(t, "Asha Rao", got.DisplayName)
	require.True(t, got.FirstLogin)
}

func TestEdDSAVerifyFailures(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, "dev-1")
	now := time.Now()

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewChallengeClaims("c", "EMP001", "other", time.Minute, now))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(testIssuer, signer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
		require.False(t, jwtx.IsExpired(err))
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewChallengeClaims("c", "EMP001", testIssuer, time.Minute, now.Add(-time.Hour)))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(testIssuer, signer).Verify(token)
		require.Error(t, err)
		require.True(t, jwtx.IsExpired(err))
	})

	t.Run("unknown kid", func(t *testing.T) {
		other := newSigner(t, "dev-2")
		token, err := other.Sign(jwtx.NewChallengeClaims("c", "EMP001", testIssuer, time.Minute, now))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(testIssuer, signer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("forged with same kid", func(t *testing.T) {
		forger := newSigner(t, "dev-1")
		token, err := forger.Sign(jwtx.NewChallengeClaims("c", "EMP001", testIssuer, time.Minute, now))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(testIssuer, signer).Verify(token)
		require.Error(t, err)
		require.False(t, jwtx.IsExpired(err))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA(testIssuer, signer).Verify("not.a.jwt")
		require.Error(t, err)
	})
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	require.True(t, jwtx.IsExpired(jwtx.ErrExpired))
	require.False(t, jwtx.IsExpired(errors.New("boom")))
	require.False(t, jwtx.IsExpired(nil))
}
