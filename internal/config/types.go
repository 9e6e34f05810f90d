package config

import "time"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, in load order.
	Files []string
	// Unknown lists keys found in config files that studycal does not use.
	Unknown []string
}

// Default values.
const (
	DefaultScanIntervalSeconds = 30
	DefaultOnCorrupt           = "fail"
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"

	// MaxScanIntervalSeconds is half the one-minute fire window, so two
	// scans fall inside every window even when a scan runs long.
	MaxScanIntervalSeconds = 30
)

// Config holds the full configuration for studycal.
type Config struct {
	// Paths. Empty values are derived from the per-user data directory.
	DataDir   string `toml:"data_dir"`
	TasksFile string `toml:"tasks_file"`
	LogDir    string `toml:"log_dir"`

	// Scanner
	ScanIntervalSeconds int `toml:"scan_interval_seconds"`

	// What to do with a malformed task file: "fail" or "reset".
	OnCorrupt string `toml:"on_corrupt"`

	// Notifications
	Notify NotifyConfig `toml:"notify"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// NotifyConfig controls how reminders are delivered.
type NotifyConfig struct {
	Enabled bool     `toml:"enabled"`
	Desktop bool     `toml:"desktop"`
	Sound   bool     `toml:"sound"`
	Title   string   `toml:"title"`
	Icon    string   `toml:"icon"`
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// ScanInterval returns the scan interval as a duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.ScanIntervalSeconds) * time.Second
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.ScanIntervalSeconds = DefaultScanIntervalSeconds
	cfg.OnCorrupt = DefaultOnCorrupt
	cfg.Notify = NotifyConfig{
		Enabled: true,
		Desktop: true,
		Sound:   true,
		Title:   "⏰ Task Reminder",
	}
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_dir",
		"tasks_file",
		"log_dir",
		"scan_interval_seconds",
		"on_corrupt",
		"notify.enabled",
		"notify.desktop",
		"notify.sound",
		"notify.title",
		"notify.icon",
		"notify.command",
		"notify.args",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
