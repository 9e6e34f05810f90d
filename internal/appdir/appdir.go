// Package appdir resolves where studycal keeps its data, logs, and config.
package appdir

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// WindowsName is the data folder name under %APPDATA% and on macOS.
	WindowsName = "StudyCalendar"

	// Name is the lowercase folder name used on XDG systems and for config.
	Name = "studycal"

	// DefaultTasksFile is the task file name inside the data directory.
	DefaultTasksFile = "tasks.json"

	// DefaultLogDir is the history log directory inside the data directory.
	DefaultLogDir = "logs"

	// DefaultConfigFile is the config file name.
	DefaultConfigFile = "studycal.toml"

	// ConsoleLogFile receives console logging while the TUI owns the terminal.
	ConsoleLogFile = "studycal.log"
)

// Env is the slice of the process environment that path resolution needs.
type Env struct {
	GOOS    string
	Getenv  func(string) string
	HomeDir func() (string, error)
}

// ProcessEnv describes the running process.
func ProcessEnv() Env {
	return Env{
		GOOS:    runtime.GOOS,
		Getenv:  os.Getenv,
		HomeDir: os.UserHomeDir,
	}
}

// DataDir returns the per-user data directory for the running process.
func DataDir() (string, error) {
	return ProcessEnv().DataDir()
}

// DataDir returns the per-user data directory for env.
//
//	windows: %APPDATA%\StudyCalendar
//	darwin:  ~/Library/Application Support/StudyCalendar
//	other:   $XDG_DATA_HOME/studycal or ~/.local/share/studycal
func (env Env) DataDir() (string, error) {
	getenv := env.Getenv
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	switch env.GOOS {
	case "windows":
		if appData := getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, WindowsName), nil
		}
		home, err := env.home()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming", WindowsName), nil
	case "darwin":
		home, err := env.home()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", WindowsName), nil
	default:
		if xdg := getenv("XDG_DATA_HOME"); xdg != "" && filepath.IsAbs(xdg) {
			return filepath.Join(xdg, Name), nil
		}
		home, err := env.home()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", Name), nil
	}
}

func (env Env) home() (string, error) {
	if env.HomeDir == nil {
		return "", errors.New("home directory unknown")
	}
	home, err := env.HomeDir()
	if err != nil {
		return "", err
	}
	if home == "" {
		return "", errors.New("home directory unknown")
	}
	return home, nil
}

// TasksPath resolves the configured task file against dataDir.
func (env Env) TasksPath(dataDir, configured string) string {
	return env.Resolve(dataDir, configured, DefaultTasksFile)
}

// LogDir resolves the configured history directory against dataDir.
func (env Env) LogDir(dataDir, configured string) string {
	return env.Resolve(dataDir, configured, DefaultLogDir)
}

// ConsoleLogPath returns the TUI console log path within a log directory.
func ConsoleLogPath(logDir string) string {
	return filepath.Join(logDir, ConsoleLogFile)
}

// Ensure creates dir and any missing parents.
func Ensure(dir string) error {
	if dir == "" {
		return errors.New("empty directory path")
	}
	return os.MkdirAll(dir, 0755)
}
