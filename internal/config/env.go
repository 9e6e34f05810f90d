package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/studycal/internal/utils"
)

// loadFromEnv overrides config from STUDYCAL_* environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(key, field string, target *string) {
		if v := os.Getenv(key); v != "" {
			*target = v
			mark(field)
		}
	}
	boolean := func(key, field string, target *bool) {
		if v := os.Getenv(key); v != "" {
			*target = boolFromString(v)
			mark(field)
		}
	}

	str("STUDYCAL_DATA_DIR", "data_dir", &cfg.DataDir)
	str("STUDYCAL_TASKS", "tasks_file", &cfg.TasksFile)
	str("STUDYCAL_LOG_DIR", "log_dir", &cfg.LogDir)
	if v := os.Getenv("STUDYCAL_SCAN_INTERVAL"); v != "" {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("STUDYCAL_SCAN_INTERVAL: %q is not a number of seconds", v)
		}
		cfg.ScanIntervalSeconds = i
		mark("scan_interval_seconds")
	}
	str("STUDYCAL_ON_CORRUPT", "on_corrupt", &cfg.OnCorrupt)

	boolean("STUDYCAL_NOTIFY_ENABLED", "notify.enabled", &cfg.Notify.Enabled)
	boolean("STUDYCAL_NOTIFY_DESKTOP", "notify.desktop", &cfg.Notify.Desktop)
	boolean("STUDYCAL_NOTIFY_SOUND", "notify.sound", &cfg.Notify.Sound)
	str("STUDYCAL_NOTIFY_TITLE", "notify.title", &cfg.Notify.Title)
	str("STUDYCAL_NOTIFY_ICON", "notify.icon", &cfg.Notify.Icon)
	str("STUDYCAL_NOTIFY_COMMAND", "notify.command", &cfg.Notify.Command)
	if v := os.Getenv("STUDYCAL_NOTIFY_ARGS"); v != "" {
		cfg.Notify.Args = utils.SplitAndTrim(v, ",")
		mark("notify.args")
	}

	// Logging configuration
	str("STUDYCAL_LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("STUDYCAL_LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("STUDYCAL_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("STUDYCAL_LOG_CALLER", "log_caller", &cfg.LogCaller)
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
