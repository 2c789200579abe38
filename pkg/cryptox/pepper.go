package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrGeneratePepper reads the pepper stored at path, creating the file
// with a fresh random value when it does not exist yet.
func LoadOrGeneratePepper(path string) (string, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("pepper dir: %w", err)
	}

	b, err := os.ReadFile(path)
	if err == nil {
		return strings.TrimSpace(string(b)), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read pepper: %w", err)
	}

	raw := make([]byte, keyLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	pepper := base64.RawURLEncoding.EncodeToString(raw)

	if err := os.WriteFile(path, []byte(pepper), 0600); err != nil {
		return "", fmt.Errorf("write pepper: %w", err)
	}
	return pepper, nil
}
