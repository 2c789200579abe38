package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	ErrPasswordMismatch = errors.New("password does not match")
	ErrInvalidHash      = errors.New("invalid hash format")
)

// Hasher hashes and verifies passwords with Argon2id. The pepper is appended
// to every password before hashing and is never stored alongside the hash.
type Hasher struct {
	pepper string
}

// NewHasher returns a Hasher using pepper. An empty pepper is allowed.
func NewHasher(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

// Hash returns a PHC-format Argon2id string including salt and parameters.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	sum := argon2.IDKey([]byte(password+h.pepper), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify compares password against a PHC Argon2id hash in constant time.
func (h *Hasher) Verify(password, encodedHash string) error {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return fmt.Errorf("%w: expected 6 parts", ErrInvalidHash)
	}
	if parts[1] != "argon2id" {
		return fmt.Errorf("%w: not argon2id", ErrInvalidHash)
	}
	if parts[2] != "v=19" {
		return fmt.Errorf("%w: wrong version", ErrInvalidHash)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %w", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %w", ErrInvalidHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("%w: hash: %w", ErrInvalidHash, err)
	}

	computed := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
