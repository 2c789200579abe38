package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/leavedesk/pkg/cryptox"
	"github.com/aussiebroadwan/leavedesk/pkg/idx"
	"github.com/aussiebroadwan/leavedesk/pkg/jwtx"
)

// InitKeys generates an ephemeral Ed25519 signing key. Tokens issued before
// a restart stop verifying, which is what a dev backend wants.
func InitKeys(issuer string, logger *slog.Logger) (*jwtx.EdDSASigner, *jwtx.EdDSAVerifier, error) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(idx.New().String(), pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load signing key: %w", err)
	}
	if err := signer.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid signing key: %w", err)
	}

	logger.Info("ephemeral signing key generated", "alg", signer.Alg(), "kid", signer.KID(), "issuer", issuer)
	return signer, jwtx.NewVerifierEdDSA(issuer, signer), nil
}
