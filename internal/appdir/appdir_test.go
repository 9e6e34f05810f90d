package appdir

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func fakeEnv(goos string, vars map[string]string, home string) Env {
	return Env{
		GOOS:   goos,
		Getenv: func(k string) string { return vars[k] },
		HomeDir: func() (string, error) {
			if home == "" {
				return "", errors.New("no home")
			}
			return home, nil
		},
	}
}

func TestDataDir(t *testing.T) {
	tests := []struct {
		name string
		env  Env
		want string
	}{
		{
			name: "windows appdata",
			env:  fakeEnv("windows", map[string]string{"APPDATA": filepath.Join("C:", "Users", "me", "AppData", "Roaming")}, "/home/me"),
			want: filepath.Join("C:", "Users", "me", "AppData", "Roaming", "StudyCalendar"),
		},
		{
			name: "windows without appdata",
			env:  fakeEnv("windows", nil, "/home/me"),
			want: filepath.Join("/home/me", "AppData", "Roaming", "StudyCalendar"),
		},
		{
			name: "darwin",
			env:  fakeEnv("darwin", nil, "/Users/me"),
			want: filepath.Join("/Users/me", "Library", "Application Support", "StudyCalendar"),
		},
		{
			name: "linux xdg",
			env:  fakeEnv("linux", map[string]string{"XDG_DATA_HOME": "/data"}, "/home/me"),
			want: filepath.Join("/data", "studycal"),
		},
		{
			name: "linux relative xdg ignored",
			env:  fakeEnv("linux", map[string]string{"XDG_DATA_HOME": "rel"}, "/home/me"),
			want: filepath.Join("/home/me", ".local", "share", "studycal"),
		},
		{
			name: "linux default",
			env:  fakeEnv("linux", nil, "/home/me"),
			want: filepath.Join("/home/me", ".local", "share", "studycal"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.env.DataDir()
			if err != nil {
				t.Fatalf("DataDir failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDataDirNoHome(t *testing.T) {
	if _, err := fakeEnv("linux", nil, "").DataDir(); err == nil {
		t.Error("expected error without home directory")
	}
	if _, err := (Env{GOOS: "linux"}).DataDir(); err == nil {
		t.Error("expected error with nil HomeDir")
	}
}

func TestPaths(t *testing.T) {
	env := fakeEnv("linux", nil, "/home/me")
	dir := filepath.Join("base", "data")
	if got := env.TasksPath(dir, ""); got != filepath.Join(dir, "tasks.json") {
		t.Errorf("TasksPath: %q", got)
	}
	if got := env.TasksPath(dir, "study.json"); got != filepath.Join(dir, "study.json") {
		t.Errorf("TasksPath relative: %q", got)
	}
	if got := env.LogDir(dir, ""); got != filepath.Join(dir, "logs") {
		t.Errorf("LogDir: %q", got)
	}
	if got := env.LogDir(dir, "~/cal-logs"); got != filepath.Join("/home/me", "cal-logs") {
		t.Errorf("LogDir from home: %q", got)
	}
	if got := ConsoleLogPath("logs"); got != filepath.Join("logs", "studycal.log") {
		t.Errorf("ConsoleLogPath: %q", got)
	}
}

func TestEnsure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := Ensure(dir); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	if err := Ensure(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestExpand(t *testing.T) {
	vars := map[string]string{"CAL": "/srv/cal", "APPDATA": `C:\Users\me\AppData\Roaming`}
	unix := fakeEnv("linux", vars, "/home/me")
	win := fakeEnv("windows", vars, `C:\Users\me`)

	tests := []struct {
		name string
		env  Env
		in   string
		want string
	}{
		{"empty", unix, "", ""},
		{"home", unix, "~", "/home/me"},
		{"home prefix", unix, "~/cal", filepath.Join("/home/me", "cal")},
		{"tilde inside", unix, "a/~/b", "a/~/b"},
		{"dollar var", unix, "$CAL/tasks.json", "/srv/cal/tasks.json"},
		{"braced var", unix, "${CAL}/logs", "/srv/cal/logs"},
		{"unset var", unix, "$NOPE/x", "/x"},
		{"percent ignored off windows", unix, "%CAL%", "%CAL%"},
		{"absolute", unix, "/abs/path", "/abs/path"},
		{"windows percent var", win, `%APPDATA%\StudyCalendar`, `C:\Users\me\AppData\Roaming\StudyCalendar`},
		{"windows unset percent kept", win, `%NOPE%\x`, `%NOPE%\x`},
		{"windows double percent", win, "100%%", "100%%"},
		{"windows unset then set", win, "%NOPE%%CAL%", "%NOPE%/srv/cal"},
		{"windows lone percent", win, "50%", "50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.Expand(tt.in); got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandNoHome(t *testing.T) {
	env := fakeEnv("linux", nil, "")
	if got := env.Expand("~/cal"); got != "~/cal" {
		t.Errorf("Expand without home: got %q", got)
	}
}

func TestResolve(t *testing.T) {
	env := fakeEnv("linux", map[string]string{"CAL": "/srv/cal"}, "/home/me")
	data := filepath.Join("/data", "studycal")

	tests := []struct {
		in   string
		want string
	}{
		{"", filepath.Join(data, "tasks.json")},
		{"study.json", filepath.Join(data, "study.json")},
		{"sub/study.json", filepath.Join(data, "sub", "study.json")},
		{"/elsewhere/t.json", "/elsewhere/t.json"},
		{"$CAL/t.json", "/srv/cal/t.json"},
		{"~/t.json", filepath.Join("/home/me", "t.json")},
	}
	for _, tt := range tests {
		if got := env.Resolve(data, tt.in, "tasks.json"); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
