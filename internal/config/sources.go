package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/nibzard/studycal/internal/appdir"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range []string{appdir.DefaultConfigFile, "." + appdir.DefaultConfigFile} {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.studycal/studycal.toml first, then falls back to the
// OS-specific config directory.
func findUserConfigFile() string {
	for _, path := range UserConfigPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// UserConfigPaths returns the user config file candidates in lookup order.
func UserConfigPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+appdir.Name, appdir.DefaultConfigFile))
	}
	if cfgDir := osUserConfigDir(); cfgDir != "" {
		paths = append(paths, filepath.Join(cfgDir, appdir.Name, appdir.DefaultConfigFile))
	}
	return paths
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		// Linux/BSD: respect XDG_CONFIG_HOME or use ~/.config
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}
