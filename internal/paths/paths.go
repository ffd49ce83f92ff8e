// Package paths resolves configuration directory and workspace locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative defaults.
const (
	DefaultConfigDirName = ".strata"
	DefaultWorkspaceName = "strata.db"
)

// Environment variable names for overrides.
const (
	EnvConfigDir = "STRATA_CONFIG_DIR"
	EnvWorkspace = "STRATA_WORKSPACE"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// ConfigDir resolves the configuration directory: explicit value, then the
// environment, then the CWD-relative default.
func ConfigDir(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(EnvConfigDir); v != "" {
		return v
	}
	return DefaultConfigDirName
}

// Workspace resolves the workspace database path: explicit value, then the
// environment, then a workspace file inside the config directory.
func Workspace(flag, configDir string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(EnvWorkspace); v != "" {
		return v
	}
	return filepath.Join(configDir, DefaultWorkspaceName)
}

// DefaultConfigDir returns the platform-specific configuration directory,
// for installations that want a per-user location instead of CWD-relative.
//
// Linux:   $XDG_CONFIG_HOME/strata (fallback ~/.config/strata)
// macOS:   ~/Library/Application Support/strata
// Windows: %APPDATA%/strata
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "strata"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "strata"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "strata"), nil
	}
}
