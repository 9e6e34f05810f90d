package config

import (
	"flag"
	"strings"

	"github.com/nibzard/studycal/internal/utils"
)

// parseFlags defines the global CLI flags on fs, parses args, and applies
// only the flags that were set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("studycal", flag.ContinueOnError)
	}

	// Flags bind to copies so that defaults shown in usage reflect the
	// merged config without writing through on Parse.
	var (
		dataDir       = cfg.DataDir
		tasksFile     = cfg.TasksFile
		logDir        = cfg.LogDir
		scanInterval  = cfg.ScanIntervalSeconds
		onCorrupt     = cfg.OnCorrupt
		notifyCommand = cfg.Notify.Command
		notifyArgs    = strings.Join(cfg.Notify.Args, ",")
		notifyTitle   = cfg.Notify.Title
		noNotify      bool
		noDesktop     bool
		noSound       bool
		logLevel      = cfg.LogLevel
		logFormat     = cfg.LogFormat
		logTimestamps = cfg.LogTimestamps
		logCaller     = cfg.LogCaller
	)

	// Paths
	fs.StringVar(&dataDir, "data-dir", dataDir, "Data directory (default: per-user app data dir)")
	fs.StringVar(&tasksFile, "tasks", tasksFile, "Path to the tasks file")
	fs.StringVar(&logDir, "log-dir", logDir, "Reminder history directory")

	// Scanner
	fs.IntVar(&scanInterval, "scan-interval", scanInterval, "Seconds between reminder scans (1-30)")
	fs.StringVar(&onCorrupt, "on-corrupt", onCorrupt, "Malformed tasks file policy (fail|reset)")

	// Notifications
	fs.StringVar(&notifyCommand, "notify-command", notifyCommand, "Command to run for every reminder")
	fs.StringVar(&notifyArgs, "notify-args", notifyArgs, "Comma-separated extra args for the notify command")
	fs.StringVar(&notifyTitle, "notify-title", notifyTitle, "Notification title")
	fs.BoolVar(&noNotify, "no-notify", false, "Disable all notifications")
	fs.BoolVar(&noDesktop, "no-desktop", false, "Disable desktop notifications")
	fs.BoolVar(&noSound, "no-sound", false, "Disable the alert sound")

	// Logging
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", logTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", logCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"data-dir":       "data_dir",
		"tasks":          "tasks_file",
		"log-dir":        "log_dir",
		"scan-interval":  "scan_interval_seconds",
		"on-corrupt":     "on_corrupt",
		"notify-command": "notify.command",
		"notify-args":    "notify.args",
		"notify-title":   "notify.title",
		"no-notify":      "notify.enabled",
		"no-desktop":     "notify.desktop",
		"no-sound":       "notify.sound",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.DataDir = dataDir
		case "tasks":
			cfg.TasksFile = tasksFile
		case "log-dir":
			cfg.LogDir = logDir
		case "scan-interval":
			cfg.ScanIntervalSeconds = scanInterval
		case "on-corrupt":
			cfg.OnCorrupt = onCorrupt
		case "notify-command":
			cfg.Notify.Command = notifyCommand
		case "notify-args":
			cfg.Notify.Args = utils.SplitAndTrim(notifyArgs, ",")
		case "notify-title":
			cfg.Notify.Title = notifyTitle
		case "no-notify":
			cfg.Notify.Enabled = !noNotify
		case "no-desktop":
			cfg.Notify.Desktop = !noDesktop
		case "no-sound":
			cfg.Notify.Sound = !noSound
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		case "log-timestamps":
			cfg.LogTimestamps = logTimestamps
		case "log-caller":
			cfg.LogCaller = logCaller
		}
		if field, ok := flagToSource[f.Name]; ok && sources != nil {
			sources[field] = SourceFlag
		}
	})
	return nil
}
