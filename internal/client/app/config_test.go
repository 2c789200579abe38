package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, authsdk.DefaultEndpoints(), cfg.Endpoints())
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEAVEDESK_API_URL=http://env-file:8080\n"), 0o600))
	path := filepath.Join(dir, "client.toml")
	toml := "storage = \"memory\"\nresend_window = 10\nverify_otp_path = \"/api/auth/verify-otp\"\n"
	require.NoError(t, os.WriteFile(path, []byte(toml), 0o600))

	t.Setenv("LEAVEDESK_CONFIG", path)
	t.Setenv("LEAVEDESK_HTTP_TIMEOUT", "3s")
	t.Setenv("LEAVEDESK_RESEND_WINDOW", "15")
	t.Cleanup(func() { _ = os.Unsetenv("LEAVEDESK_API_URL") })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "http://env-file:8080", cfg.APIURL)
	require.Equal(t, StorageMemory, cfg.Storage)
	require.Equal(t, 15, cfg.ResendWindow)
	require.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "/api/auth/verify-otp", cfg.Endpoints().VerifyOTP)
	require.Equal(t, "/login", cfg.Endpoints().Login)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown storage", func(c *Config) { c.Storage = "etcd" }},
		{"bad url", func(c *Config) { c.APIURL = "localhost:9090" }},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }},
		{"zero resend window", func(c *Config) { c.ResendWindow = 0 }},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
