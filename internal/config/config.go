// Package config loads membox configuration from the user's dot-directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultServerURL is where the capture client looks for the backend
// unless configured otherwise.
const DefaultServerURL = "http://127.0.0.1:7377"

// Config holds membox settings.
type Config struct {
	// ServerURL is the address of the membox backend.
	ServerURL string `yaml:"server_url"`
	// CaptureEnabled toggles command capture in the shell session.
	CaptureEnabled bool `yaml:"capture_enabled"`
	// OnlySuccesses drops executions with a nonzero or unknown exit code.
	OnlySuccesses bool `yaml:"only_successes"`
	// Shell overrides the shell spawned by the capture session.
	Shell string `yaml:"shell"`
	// LogLevel sets the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ServerURL:      DefaultServerURL,
		CaptureEnabled: true,
		OnlySuccesses:  false,
		LogLevel:       "info",
	}
}

// Dir returns the membox dot-directory (~/.membox).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".membox"), nil
}

// Load reads configuration from the given path. A missing file yields
// the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	return cfg, nil
}

// LoadDefault reads ~/.membox/config.yaml.
func LoadDefault() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Default(), err
	}
	return Load(filepath.Join(dir, "config.yaml"))
}
