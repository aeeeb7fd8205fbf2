// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "slipway"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".slipway"
	DefaultDataDirName   = ".slipway-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SLIPWAY_CONFIG_DIR"
	EnvDataDir   = "SLIPWAY_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// platformDefault resolves the app directory for one XDG base-dir pair.
// On linux the named XDG variable wins, then the fallback path under the
// home dir. Elsewhere os.UserConfigDir covers both macOS
// (~/Library/Application Support) and Windows (%APPDATA%).
func platformDefault(xdgEnv string, homeFallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, homeFallback...)
	return filepath.Join(append(parts, appDirName)...), nil
}

// DefaultConfigDir returns the platform default configuration directory,
// $XDG_CONFIG_HOME/slipway (fallback ~/.config/slipway) on linux.
func DefaultConfigDir() (string, error) {
	return platformDefault("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform default data directory,
// $XDG_DATA_HOME/slipway (fallback ~/.local/share/slipway) on linux.
func DefaultDataDir() (string, error) {
	return platformDefault("XDG_DATA_HOME", ".local", "share")
}

// firstOverride returns the first non-empty candidate as an absolute
// path, or "" when every candidate is empty.
func firstOverride(candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return "", nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > SLIPWAY_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	dir, err := firstOverride(flag, os.Getenv(EnvConfigDir))
	if err != nil || dir != "" {
		return dir, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > SLIPWAY_DATA_DIR env > $(CWD)/.slipway-db.
//
// The CWD-relative default keeps a workshop checkout self-contained when no
// override is active.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	dir, err := firstOverride(flag, configYAMLValue, os.Getenv(EnvDataDir))
	if err != nil || dir != "" {
		return dir, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
