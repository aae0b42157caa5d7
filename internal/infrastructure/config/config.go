// Package config provides configuration loading for the drover
// application. Settings come from an optional config.toml in the
// configuration directory, overridden by DROVER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Environment variable names.
const (
	// EnvConfigDir overrides the configuration directory holding the
	// record store and config.toml.
	EnvConfigDir = "DROVER_CONFIG_DIR"

	// EnvStateDir overrides the state directory holding the log file.
	EnvStateDir = "DROVER_STATE_DIR"

	// EnvLogLevel is the console log level (debug, info, warn, error).
	EnvLogLevel = "DROVER_LOG_LEVEL"

	// EnvStowTarget overrides the directory STOW repositories link into.
	EnvStowTarget = "DROVER_STOW_TARGET"
)

// Default values and well-known file names.
const (
	DefaultLogLevel      = "warn"
	DefaultCommitMessage = "drover: sync managed repositories"

	appDirName     = "drover"
	storeFileName  = "repositories.yaml"
	configFileName = "config.toml"
	logFileName    = "drover.log"
)

// Configuration errors.
var (
	// ErrConfigInvalid indicates config.toml exists but cannot be parsed.
	ErrConfigInvalid = errors.New("configuration file is not valid TOML")
)

// Config holds all application configuration.
type Config struct {
	// ConfigDir is the directory holding the record store and config.toml.
	ConfigDir string

	// StorePath is the record store file.
	StorePath string

	// LogPath is the JSON debug log file.
	LogPath string

	// LogLevel is the console logging level (debug, info, warn, error).
	LogLevel string

	// StowTarget is the directory STOW repositories link into. Defaults
	// to the user's home directory.
	StowTarget string

	// CommitMessage is the default message for push commits.
	CommitMessage string
}

// fileConfig is the subset of settings config.toml may carry.
type fileConfig struct {
	LogLevel      string `toml:"log_level"`
	StowTarget    string `toml:"stow_target"`
	CommitMessage string `toml:"commit_message"`
}

// Load resolves the application configuration. Precedence, lowest to
// highest: built-in defaults, config.toml, DROVER_* environment
// variables. The configuration directory defaults to the XDG config home
// and the log to the XDG state home.
func Load() (*Config, error) {
	configDir, err := resolveDir(EnvConfigDir, xdg.ConfigHome)
	if err != nil {
		return nil, err
	}
	stateDir, err := resolveDir(EnvStateDir, xdg.StateHome)
	if err != nil {
		return nil, err
	}

	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	cfg := &Config{
		ConfigDir:     configDir,
		StorePath:     filepath.Join(configDir, storeFileName),
		LogPath:       filepath.Join(stateDir, logFileName),
		LogLevel:      DefaultLogLevel,
		StowTarget:    home,
		CommitMessage: DefaultCommitMessage,
	}

	fc, err := loadFile(filepath.Join(configDir, configFileName))
	if err != nil {
		return nil, err
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.StowTarget != "" {
		if cfg.StowTarget, err = homedir.Expand(fc.StowTarget); err != nil {
			return nil, fmt.Errorf("%w: stow_target: %v", ErrConfigInvalid, err)
		}
	}
	if fc.CommitMessage != "" {
		cfg.CommitMessage = fc.CommitMessage
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvStowTarget); v != "" {
		if cfg.StowTarget, err = homedir.Expand(v); err != nil {
			return nil, fmt.Errorf("expanding %s: %w", EnvStowTarget, err)
		}
	}

	return cfg, nil
}

// resolveDir returns the override directory from env, expanded, or the
// application subdirectory of the XDG base.
func resolveDir(envName, xdgBase string) (string, error) {
	if v := os.Getenv(envName); v != "" {
		expanded, err := homedir.Expand(v)
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", envName, err)
		}
		return expanded, nil
	}
	return filepath.Join(xdgBase, appDirName), nil
}

// loadFile reads config.toml. A missing file yields an empty fileConfig.
func loadFile(path string) (*fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &fc, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigInvalid, path, err)
	}
	return &fc, nil
}
