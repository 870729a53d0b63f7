package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// SessionEnv names the environment variable holding the session root.
const SessionEnv = "LABS_SESSION_DIR"

// Config holds the few configurable labs settings.
type Config struct {
	SessionsDir string `json:"sessions_dir"` // where `labs session new` creates roots
	HistCount   int    `json:"hist_count"`   // records shown by hist without -n
	LogLevel    string `json:"log_level"`    // zerolog level name
	LogFile     string `json:"log_file"`     // append JSON logs here instead of stderr
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		HistCount: 10,
		LogLevel:  "warn",
	}
}

// Dir returns the labs config directory.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "labs"), nil
}

// LoadGlobal reads ~/.config/labs/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return loadFile(filepath.Join(dir, "config.json"))
}

// loadFile reads and parses a JSON config file at path, returning defaults
// when the file is absent.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d := Defaults()
			return &d, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines the global config with command-line overrides, the latter
// taking precedence. Missing keys fall back to global, then defaults.
func Merge(global, override *Config) Config {
	result := Defaults()
	for _, c := range []*Config{global, override} {
		if c == nil {
			continue
		}
		if c.SessionsDir != "" {
			result.SessionsDir = c.SessionsDir
		}
		if c.HistCount > 0 {
			result.HistCount = c.HistCount
		}
		if c.LogLevel != "" {
			result.LogLevel = c.LogLevel
		}
		if c.LogFile != "" {
			result.LogFile = c.LogFile
		}
	}
	return result
}

// ResolveSessionRoot returns the session root from flagValue, falling back to
// $LABS_SESSION_DIR. Neither being set is a *ConfigError.
func ResolveSessionRoot(flagValue string) (string, error) {
	root := strings.TrimSpace(flagValue)
	if root == "" {
		root = strings.TrimSpace(os.Getenv(SessionEnv))
	}
	if root == "" {
		return "", &ConfigError{
			Key:    SessionEnv,
			Reason: "no session root; set " + SessionEnv + " or pass --session",
		}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &ConfigError{Key: SessionEnv, Reason: "invalid session root " + root + ": " + err.Error()}
	}
	return abs, nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigError reports a missing or invalid configuration value.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}
