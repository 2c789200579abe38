package configx_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/leavedesk/pkg/configx"
)

type testConfig struct {
	Name    string        `toml:"name" env:"CONFIGX_TEST_NAME"`
	Port    int           `toml:"port" env:"CONFIGX_TEST_PORT"`
	Timeout time.Duration `toml:"timeout" env:"CONFIGX_TEST_TIMEOUT"`
	Debug   bool          `toml:"debug" env:"CONFIGX_TEST_DEBUG"`
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "test.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = \"from-toml\"\nport = 7000\ntimeout = \"3s\"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CONFIGX_TEST_DEBUG=true\n"), 0o600))
	t.Setenv("CONFIGX_TEST_PORT", "8000")
	t.Cleanup(func() { _ = os.Unsetenv("CONFIGX_TEST_DEBUG") })

	cfg := testConfig{Name: "default", Port: 1, Timeout: time.Second}
	require.NoError(t, configx.Load(&cfg, path))

	require.Equal(t, "from-toml", cfg.Name)
	require.Equal(t, 8000, cfg.Port, "environment wins over the file")
	require.Equal(t, 3*time.Second, cfg.Timeout)
	require.True(t, cfg.Debug, ".env is applied")
}

func TestLoadMissingFiles(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := testConfig{Name: "default", Port: 1}
	require.NoError(t, configx.Load(&cfg, "does-not-exist.toml"))
	require.Equal(t, testConfig{Name: "default", Port: 1}, cfg)
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = \"not a number\""), 0o600))

	var cfg testConfig
	require.Error(t, configx.Load(&cfg, path))
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIGX_TEST_PATH", "/etc/leavedesk.toml")
	require.Equal(t, "/etc/leavedesk.toml", configx.Path("CONFIGX_TEST_PATH", "x"))
	require.Equal(t, "x", configx.Path("CONFIGX_TEST_UNSET_PATH", "x"))
}
