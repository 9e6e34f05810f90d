// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/studycal/internal/store"
	"github.com/nibzard/studycal/internal/ui"
)

type env struct {
	dataDir string
	workDir string
}

// setup isolates config and data lookups and pins the clock.
func setup(t *testing.T, at time.Time) env {
	t.Helper()
	home := t.TempDir()
	e := env{dataDir: t.TempDir(), workDir: t.TempDir()}
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	t.Setenv("STUDYCAL_DATA_DIR", e.dataDir)
	t.Setenv("STUDYCAL_NOTIFY_DESKTOP", "false")
	t.Setenv("STUDYCAL_NOTIFY_COMMAND", "")
	t.Setenv("STUDYCAL_ON_CORRUPT", "")
	t.Chdir(e.workDir)

	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
	return e
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\nstderr: %s", args, err, errOut)
	}
	return out
}

func (e env) load(t *testing.T) store.EventStore {
	t.Helper()
	events, err := store.New(filepath.Join(e.dataDir, "tasks.json")).Load()
	if err != nil {
		t.Fatal(err)
	}
	return events
}

var june10 = time.Date(2025, 6, 10, 8, 0, 0, 0, time.Local)

// TestRun tests the main dispatch.
func TestRun(t *testing.T) {
	setup(t, june10)

	t.Run("shows help with --help flag", func(t *testing.T) {
		out := mustRun(t, "--help")
		if !strings.Contains(out, "Commands:") {
			t.Errorf("help output: %s", out)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		out := mustRun(t, "help")
		if !strings.Contains(out, "-scan-interval") {
			t.Errorf("global flags missing from help: %s", out)
		}
	})

	t.Run("shows version", func(t *testing.T) {
		for _, arg := range []string{"-v", "--version", "version"} {
			out := mustRun(t, arg)
			if !strings.Contains(out, "studycal version "+Version) {
				t.Errorf("%s: %q", arg, out)
			}
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		_, _, err := runCLI(t, "unknown-command")
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("invalid config is reported", func(t *testing.T) {
		_, _, err := runCLI(t, "-scan-interval", "120", "ls")
		if err == nil || !strings.Contains(err.Error(), "loading config") {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("tui needs a terminal", func(t *testing.T) {
		_, _, err := runCLI(t, "tui")
		if !errors.Is(err, ui.ErrNoTTY) {
			t.Errorf("expected ErrNoTTY, got %v", err)
		}
	})
}

func TestTaskCommands(t *testing.T) {
	e := setup(t, june10)

	out := mustRun(t, "add", "2025-06-10", "09:00", "Read", "chapter", "3")
	if !strings.Contains(out, "Added 2025-06-10 09:00 Read chapter 3") {
		t.Errorf("add output: %q", out)
	}
	mustRun(t, "add", "today", "07:00", "Flashcards")
	mustRun(t, "add", "tomorrow", "10:00", "Exam")

	events := e.load(t)
	if got := events["2025-06-10"]; len(got) != 2 || got[0].Name != "Read chapter 3" || got[1].Time != "07:00" {
		t.Fatalf("unexpected tasks: %#v", got)
	}
	if len(events["2025-06-11"]) != 1 {
		t.Fatalf("tomorrow not resolved: %v", events)
	}

	out = mustRun(t, "ls")
	for _, want := range []string{"2025-06-10 (2):", "[0] 09:00", "pending", "[1] 07:00", "missed", "2025-06-11 (1):"} {
		if !strings.Contains(out, want) {
			t.Errorf("ls missing %q:\n%s", want, out)
		}
	}
	out = mustRun(t, "ls", "2025-06-11", "-v")
	if strings.Contains(out, "2025-06-10") || !strings.Contains(out, "id: "+events["2025-06-11"][0].ID) {
		t.Errorf("ls for one date:\n%s", out)
	}

	// Flags after the positional arguments; time is kept.
	mustRun(t, "edit", "2025-06-10", "1", "-name", "Flashcards (deck 2)")
	id := events["2025-06-10"][0].ID
	mustRun(t, "edit", "-time", "09:30", "2025-06-10", id)

	events = e.load(t)
	got := events["2025-06-10"]
	if got[0].Time != "09:30" || got[0].Name != "Read chapter 3" || got[0].ID != id {
		t.Errorf("edit by id: %#v", got[0])
	}
	if got[1].Name != "Flashcards (deck 2)" || got[1].Time != "07:00" {
		t.Errorf("edit by index: %#v", got[1])
	}

	out = mustRun(t, "rm", "2025-06-11", "0")
	if !strings.Contains(out, "Deleted 2025-06-11 10:00 Exam") {
		t.Errorf("rm output: %q", out)
	}
	if _, ok := e.load(t)["2025-06-11"]; ok {
		t.Error("empty date survived rm")
	}

	errorCases := []struct {
		name string
		args []string
		want string
	}{
		{"blank name", []string{"add", "2025-06-10", "09:00", " "}, "must not be empty"},
		{"bad time", []string{"add", "2025-06-10", "9am", "x"}, "invalid time"},
		{"bad date", []string{"add", "2025-02-30", "09:00", "x"}, "invalid date"},
		{"missing args", []string{"add", "2025-06-10"}, "usage"},
		{"edit nothing", []string{"edit", "2025-06-10", "0"}, "nothing to change"},
		{"edit not found", []string{"edit", "2025-06-10", "9", "-name", "x"}, "task not found"},
		{"rm not found", []string{"rm", "2025-06-10", "nope"}, "task not found"},
		{"rm negative index", []string{"rm", "2025-06-10", "-1"}, ""},
	}
	before := e.load(t)
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != "" && !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not contain %q", err, tc.want)
			}
		})
	}
	if after := e.load(t); len(after["2025-06-10"]) != len(before["2025-06-10"]) {
		t.Error("failed commands changed the store")
	}
}

func TestCalCommand(t *testing.T) {
	setup(t, june10)
	mustRun(t, "add", "2025-06-10", "07:00", "Missed one")
	mustRun(t, "add", "2025-06-12", "09:00", "Exam")

	out := mustRun(t, "cal")
	lines := strings.Split(out, "\n")
	if lines[0] != "June 2025" {
		t.Errorf("title: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Mon") || !strings.Contains(lines[1], "Sun") {
		t.Errorf("weekday header: %q", lines[1])
	}
	for _, want := range []string{"[10]○", "12 ●", "○ 2025-06-10  1 task(s)", "● 2025-06-12  1 task(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("cal missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "cal", "2024-02")
	if !strings.HasPrefix(out, "February 2024") || !strings.Contains(out, "29") {
		t.Errorf("cal 2024-02:\n%s", out)
	}
	if _, _, err := runCLI(t, "cal", "June"); err == nil {
		t.Error("expected error for bad month")
	}
}

func TestScanAndTail(t *testing.T) {
	e := setup(t, june10)
	mustRun(t, "add", "2025-06-10", "09:00", "Study")
	mustRun(t, "add", "2025-06-10", "09:00", "Review")
	mustRun(t, "add", "2025-06-10", "12:00", "Lunch break")

	now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 30, 0, time.Local) }
	out := mustRun(t, "scan")
	if !strings.Contains(out, "Fired: 2  Pending: 1  Missed: 0") {
		t.Errorf("scan output: %q", out)
	}
	events := e.load(t)
	if tasks := events["2025-06-10"]; len(tasks) != 1 || tasks[0].Name != "Lunch break" {
		t.Fatalf("fired tasks not removed: %#v", tasks)
	}

	out = mustRun(t, "tail", "-n", "0")
	if strings.Count(out, `"type":"fired"`) != 2 {
		t.Errorf("tail output: %q", out)
	}

	// A second scan in the same minute fires nothing.
	out = mustRun(t, "scan")
	if !strings.Contains(out, "Fired: 0") {
		t.Errorf("second scan: %q", out)
	}
}

func TestScanRunsNotifyCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script")
	}
	setup(t, june10)
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	script := filepath.Join(t.TempDir(), "notify.sh")
	content := "#!/bin/sh\nprintf '%s|' \"$@\" > " + argsFile + "\n"
	if err := os.WriteFile(script, []byte(content), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STUDYCAL_NOTIFY_COMMAND", script)

	mustRun(t, "add", "2025-06-10", "08:00", "Study")
	mustRun(t, "-notify-title", "Hey", "-notify-args", "--urgent", "scan")

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("command did not run: %v", err)
	}
	if got := string(data); got != "--urgent|Hey|Study|2025-06-10|08:00|" {
		t.Errorf("command args: %q", got)
	}
}

func TestDoctorCommand(t *testing.T) {
	e := setup(t, june10)

	t.Run("fresh install passes", func(t *testing.T) {
		out, _, err := runCLI(t, "doctor", "-v")
		if err != nil {
			t.Fatalf("doctor failed: %v\n%s", err, out)
		}
		for _, want := range []string{"All checks passed", "Not found (starts empty)", "data_dir", "environment"} {
			if !strings.Contains(out, want) {
				t.Errorf("doctor missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("corrupt file fails without being moved", func(t *testing.T) {
		t.Setenv("STUDYCAL_ON_CORRUPT", "reset")
		path := filepath.Join(e.dataDir, "tasks.json")
		if err := os.WriteFile(path, []byte(`{"2025-06-10": [{"task": "", "time": "9"}]}`), 0644); err != nil {
			t.Fatal(err)
		}
		out, _, err := runCLI(t, "doctor")
		if err == nil {
			t.Fatal("expected doctor to fail")
		}
		if !strings.Contains(out, "Validation failed") || !strings.Contains(out, "2025-06-10[0]") {
			t.Errorf("doctor output:\n%s", out)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("doctor moved the corrupt file: %v", err)
		}
	})

	t.Run("unknown config keys are warned about", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(e.workDir, "studycal.toml"), []byte("reminder_sound = true\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { os.Remove(filepath.Join(e.workDir, "studycal.toml")) })
		os.Remove(filepath.Join(e.dataDir, "tasks.json"))

		out, _, _ := runCLI(t, "doctor")
		if !strings.Contains(out, "Unknown key studycal.toml: reminder_sound") {
			t.Errorf("doctor output:\n%s", out)
		}
	})

	t.Run("missing notify command fails", func(t *testing.T) {
		t.Setenv("STUDYCAL_NOTIFY_COMMAND", "nonexistent-binary-xyz123")
		out, _, err := runCLI(t, "doctor")
		if err == nil || !strings.Contains(out, "Not found") {
			t.Errorf("expected failure, got %v\n%s", err, out)
		}
	})
}

func TestInitCommand(t *testing.T) {
	e := setup(t, june10)

	out := mustRun(t, "init")
	if !strings.Contains(out, "Wrote studycal.toml") {
		t.Errorf("init output: %q", out)
	}
	data, err := os.ReadFile(filepath.Join(e.workDir, "studycal.toml"))
	if err != nil || !strings.Contains(string(data), "scan_interval_seconds") {
		t.Fatalf("config not written: %v", err)
	}

	out = mustRun(t, "init")
	if !strings.Contains(out, "Skipping") {
		t.Errorf("second init should skip: %q", out)
	}

	// The written file is picked up as the project config.
	out = mustRun(t, "doctor")
	if !strings.Contains(out, "Loaded studycal.toml") {
		t.Errorf("doctor did not load the new config:\n%s", out)
	}
}

func TestParseInterspersed(t *testing.T) {
	tests := []struct {
		args     []string
		wantPos  []string
		wantName string
	}{
		{[]string{"a", "b"}, []string{"a", "b"}, ""},
		{[]string{"-name", "x", "a", "b"}, []string{"a", "b"}, "x"},
		{[]string{"a", "-name", "x", "b"}, []string{"a", "b"}, "x"},
		{[]string{"a", "b", "-name", "x"}, []string{"a", "b"}, "x"},
		{[]string{"a", "--", "-name", "x"}, []string{"a", "-name", "x"}, ""},
	}
	for _, tt := range tests {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		name := fs.String("name", "", "")
		pos, err := parseInterspersed(fs, tt.args)
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if strings.Join(pos, " ") != strings.Join(tt.wantPos, " ") || *name != tt.wantName {
			t.Errorf("%v: got %v name=%q", tt.args, pos, *name)
		}
	}
}

func TestResolveDate(t *testing.T) {
	setup(t, june10)
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"today", "2025-06-10", false},
		{"Tomorrow", "2025-06-11", false},
		{"2024-02-29", "2024-02-29", false},
		{"2023-02-29", "", true},
		{"10/06/2025", "", true},
	}
	for _, tt := range tests {
		got, err := resolveDate(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("resolveDate(%q) = %q, %v", tt.in, got, err)
		}
	}
}

// TestCheckBinary tests the checkBinary helper with various scenarios.
func TestCheckBinary(t *testing.T) {
	var w bytes.Buffer

	t.Run("required binary that exists", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("skipping Unix-specific test")
		}
		if !checkBinary(&w, "sh", "sh", true) {
			t.Error("expected checkBinary to return true for existing sh")
		}
	})

	t.Run("optional binary that doesn't exist", func(t *testing.T) {
		if !checkBinary(&w, "missing", "nonexistent-binary-xyz123", false) {
			t.Error("expected checkBinary to return true even for missing optional binary")
		}
	})

	t.Run("required binary that doesn't exist", func(t *testing.T) {
		if checkBinary(&w, "missing", "nonexistent-binary-xyz123", true) {
			t.Error("expected checkBinary to return false for missing required binary")
		}
	})

	t.Run("file that is not executable", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission bits")
		}
		path := filepath.Join(t.TempDir(), "plain.txt")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if checkBinary(&w, "plain", path, true) {
			t.Error("expected non-executable file to fail")
		}
	})
}

func TestWindowsExecutableExts(t *testing.T) {
	t.Setenv("PATHEXT", ".exe; BAT ;;")
	exts := windowsExecutableExts()
	if !exts[".exe"] || !exts[".bat"] || len(exts) != 2 {
		t.Errorf("got %v", exts)
	}
	if !isWindowsExecutable(`C:\tools\notify.EXE`) || isWindowsExecutable("notify") {
		t.Error("isWindowsExecutable mismatch")
	}
}
