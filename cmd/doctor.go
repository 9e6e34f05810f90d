package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/nibzard/studycal/internal/config"
	"github.com/nibzard/studycal/internal/logging"
	"github.com/nibzard/studycal/internal/store"
)

// doctorCommand checks config, the data directory, the task file, and the
// notification command.
func (a *app) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("studycal doctor", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := a.out
	cfg := a.cfg

	fmt.Fprintln(w, "studycal Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Config files
	fmt.Fprintln(w, "Config:")
	if len(a.sources.Files) == 0 {
		fmt.Fprintln(w, "  ✅ No config file (using defaults)")
	}
	for _, f := range a.sources.Files {
		fmt.Fprintf(w, "  ✅ Loaded %s\n", f)
	}
	for _, key := range a.sources.Unknown {
		fmt.Fprintf(w, "  ⚠️  Unknown key %s\n", key)
	}
	fmt.Fprintf(w, "  ✅ Scan interval: %s\n", cfg.ScanInterval())
	fmt.Fprintf(w, "  ✅ On corrupt: %s\n", cfg.CorruptPolicy())
	if *verbose {
		printSources(w, a.sources)
	}
	fmt.Fprintln(w)

	// Data directory
	fmt.Fprintf(w, "Data directory: %s\n", cfg.DataDir)
	if !checkDir(w, cfg.DataDir) {
		allOK = false
	}
	fmt.Fprintln(w)

	// Task file
	fmt.Fprintf(w, "Tasks file: %s\n", cfg.TasksFile)
	if !a.checkTasksFile(w, *verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	// Notifications
	fmt.Fprintln(w, "Notifications:")
	switch {
	case !cfg.Notify.Enabled:
		fmt.Fprintln(w, "  ⚠️  Disabled (reminders are only logged)")
	default:
		if cfg.Notify.Desktop {
			fmt.Fprintf(w, "  ✅ Desktop (sound: %t)\n", cfg.Notify.Sound)
		}
		if cfg.Notify.Icon != "" {
			if _, err := os.Stat(cfg.Notify.Icon); err != nil {
				fmt.Fprintf(w, "  ⚠️  Icon not found, toasts will have no icon: %s\n", cfg.Notify.Icon)
			}
		}
		if cfg.Notify.Command != "" {
			if !checkBinary(w, "command", cfg.Notify.Command, true) {
				allOK = false
			}
		}
		if !cfg.Notify.Desktop && cfg.Notify.Command == "" {
			fmt.Fprintln(w, "  ⚠️  No desktop or command delivery (reminders are only logged)")
		}
	}
	fmt.Fprintln(w)

	// Log directory
	fmt.Fprintf(w, "Log directory: %s\n", cfg.LogDir)
	if !checkDir(w, cfg.LogDir) {
		allOK = false
	} else if latest, err := logging.FindLatestLog(cfg.LogDir); err == nil && latest != "" && *verbose {
		fmt.Fprintf(w, "  Latest history: %s\n", latest)
	}
	fmt.Fprintln(w)

	// Overall status
	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. studycal may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func printSources(w io.Writer, cws *config.ConfigWithSources) {
	fmt.Fprintln(w, "  Sources:")
	fields := make([]string, 0, len(cws.Sources))
	for field := range cws.Sources {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(w, "    %-22s %s\n", field, cws.Sources[field])
	}
}

// checkDir reports a directory. A missing directory is only a warning
// since it is created on first write.
func checkDir(w io.Writer, dir string) bool {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first save)")
		return true
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	case !info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		return false
	}
	fmt.Fprintln(w, "  ✅ OK")
	return true
}

// checkTasksFile validates the task file without applying the corrupt
// policy, so doctor never moves a file aside.
func (a *app) checkTasksFile(w io.Writer, verbose bool) bool {
	path := a.cfg.TasksFile
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (starts empty)")
		return true
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}

	events, err := store.New(path, store.WithCorruptPolicy(store.PolicyFail)).Load()
	if err != nil {
		var corrupt *store.CorruptError
		if errors.As(err, &corrupt) {
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, e := range corrupt.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			return false
		}
		fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  ✅ Valid (%d task(s) on %d date(s))\n", events.Count(), len(events))

	if backups, _ := filepath.Glob(path + ".corrupt-*"); len(backups) > 0 {
		fmt.Fprintf(w, "  ⚠️  %d corrupt backup(s) next to the file\n", len(backups))
	}
	if verbose {
		for _, date := range events.Dates() {
			for _, t := range events[date] {
				fmt.Fprintf(w, "    - %s %s %s\n", date, t.Time, t.Name)
			}
		}
	}
	return true
}

// checkBinary reports whether a configured program can be run.
func checkBinary(w io.Writer, label, binary string, required bool) bool {
	fmt.Fprintf(w, "  %s: %s\n", label, binary)
	if strings.TrimSpace(binary) == "" {
		if required {
			fmt.Fprintln(w, "  ❌ Not configured")
			return false
		}
		fmt.Fprintln(w, "  ⚠️  Not configured")
		return true
	}
	if info, err := os.Stat(binary); err == nil {
		if info.IsDir() {
			return report(w, required, "Path is a directory")
		}
		if !isExecutablePath(binary, info) {
			return report(w, required, "Not executable")
		}
		fmt.Fprintln(w, "  ✅ OK")
		return true
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		return report(w, required, fmt.Sprintf("Not found: %v", err))
	}
	if info, err := os.Stat(resolved); err == nil {
		if info.IsDir() {
			return report(w, required, "Found in PATH but is a directory: "+resolved)
		}
		if !isExecutablePath(resolved, info) {
			return report(w, required, "Found in PATH but not executable: "+resolved)
		}
	}
	fmt.Fprintf(w, "  ✅ OK (found in PATH: %s)\n", resolved)
	return true
}

// report prints a failed check as an error when required, else a warning.
func report(w io.Writer, required bool, msg string) bool {
	if required {
		fmt.Fprintf(w, "  ❌ %s\n", msg)
		return false
	}
	fmt.Fprintf(w, "  ⚠️  %s\n", msg)
	return true
}

func isExecutablePath(path string, info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if runtime.GOOS == "windows" {
		return isWindowsExecutable(path)
	}
	return info.Mode().Perm()&0111 != 0
}

func isWindowsExecutable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return windowsExecutableExts()[ext]
}

func windowsExecutableExts() map[string]bool {
	exts := map[string]bool{}
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = ".COM;.EXE;.BAT;.CMD"
	}
	for _, ext := range strings.Split(pathext, ";") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}
	return exts
}
