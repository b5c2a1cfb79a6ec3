// Package paths resolves configuration and data directory locations for
// the eavl CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".eavl"
	DefaultDataDirName   = ".eavl-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "EAVL_CONFIG_DIR"
	EnvDataDir   = "EAVL_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in
// tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration
// directory.
//
// Linux:   $XDG_CONFIG_HOME/eavl (fallback ~/.config/eavl)
// macOS:   ~/Library/Application Support/eavl
// Windows: %APPDATA%/eavl
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "eavl"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "eavl"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "eavl"), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/eavl (fallback ~/.local/share/eavl)
// macOS:   ~/Library/Application Support/eavl
// Windows: %APPDATA%/eavl
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "eavl"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", "eavl"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "eavl"), nil
	}
}

// ResolveConfigDir picks the configuration directory with precedence:
// flag > EAVL_CONFIG_DIR > $(CWD)/.eavl when present > platform default.
func ResolveConfigDir(flagValue string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err == nil {
		local := filepath.Join(cwd, DefaultConfigDirName)
		if info, statErr := os.Stat(local); statErr == nil && info.IsDir() {
			return local, nil
		}
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory with precedence:
// flag > config file value > EAVL_DATA_DIR > $(CWD)/.eavl-db.
func ResolveDataDir(flagValue, configValue string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
