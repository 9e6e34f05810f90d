package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# studycal configuration file
# Values can be overridden by STUDYCAL_* environment variables or CLI flags.

# Data directory (default: %APPDATA%\StudyCalendar on Windows,
# ~/Library/Application Support/StudyCalendar on macOS,
# $XDG_DATA_HOME/studycal or ~/.local/share/studycal elsewhere)
# data_dir = "~/StudyCalendar"

# Tasks file, relative to data_dir unless absolute
# tasks_file = "tasks.json"

# Reminder history directory, relative to data_dir unless absolute
# log_dir = "logs"

# Seconds between reminder scans (1-60). A task fires only if a scan
# lands inside the minute that starts at its time.
scan_interval_seconds = 30

# Malformed tasks file: "fail" stops with an error, "reset" moves the
# file aside to tasks.json.corrupt-<timestamp> and starts empty.
on_corrupt = "fail"

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false

[notify]
enabled = true
desktop = true
sound = true
title = "⏰ Task Reminder"
# icon = "~/.studycal/icon.png"

# Command run for every reminder with args: <args...> title task date time
# command = "/path/to/notify.sh"
# args = ["--urgent"]
`
}
