package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.True(t, cfg.CaptureEnabled)
	assert.False(t, cfg.OnlySuccesses)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server_url: http://membox.internal:9000
capture_enabled: false
only_successes: true
shell: /bin/zsh
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://membox.internal:9000", cfg.ServerURL)
	assert.False(t, cfg.CaptureEnabled)
	assert.True(t, cfg.OnlySuccesses)
	assert.Equal(t, "/bin/zsh", cfg.Shell)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadPartialFileKeepsRemainingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("only_successes: true\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.OnlySuccesses)
	assert.True(t, cfg.CaptureEnabled)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [not, a, string\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
