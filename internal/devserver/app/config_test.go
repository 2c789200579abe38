package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = 7000\nfixed_otp = true\nchallenge_ttl = \"2m\"\n"), 0o600))

	t.Setenv("LEAVEDESK_DEVSERVER_CONFIG", path)
	t.Setenv("PORT", "7100")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 7100, cfg.Port)
	require.True(t, cfg.FixedOTP)
	require.Equal(t, 2*time.Minute, cfg.ChallengeTTL)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, "leavedesk-devserver", cfg.Issuer)
}
