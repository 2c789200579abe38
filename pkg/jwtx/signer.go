package jwtx

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	Validate() error
}

// NewSignerEdDSA creates an EdDSA signer from PEM bytes.
// Ed25519 keys must be in PKCS8 format.
func NewSignerEdDSA(kid string, pemKey []byte) (*EdDSASigner, error) {
	return newEdDSASigner(kid, pemKey)
}
