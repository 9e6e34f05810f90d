// Package logging writes the reminder history as JSONL and tails it.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// EventType names a history entry.
type EventType string

const (
	EventStart       EventType = "start"
	EventFired       EventType = "fired"
	EventNotifyError EventType = "notify_error"
	EventStop        EventType = "stop"
)

// Event is one line of the history log.
type Event struct {
	Time     time.Time `json:"time"`
	Type     EventType `json:"type"`
	Date     string    `json:"date,omitempty"`
	TaskTime string    `json:"task_time,omitempty"`
	Task     string    `json:"task,omitempty"`
	ID       string    `json:"id,omitempty"`
	Error    string    `json:"error,omitempty"`
	Content  string    `json:"content,omitempty"`
}

// History appends events to a per-run JSONL file.
type History struct {
	Dir     string
	RunID   string
	LogPath string

	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// OpenHistory creates dir if needed and starts a new history file in it.
func OpenHistory(dir string) (*History, error) {
	return openHistory(dir, time.Now)
}

func openHistory(dir string, now func() time.Time) (*History, error) {
	if dir == "" {
		return nil, fmt.Errorf("log dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := runID(now())
	logPath := filepath.Join(dir, id+".jsonl")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &History{
		Dir:     dir,
		RunID:   id,
		LogPath: logPath,
		file:    file,
		now:     now,
	}, nil
}

// Record appends e as one JSON line. A zero Time is stamped with the
// current time. Recording on a nil History is a no-op.
func (h *History) Record(e Event) error {
	if h == nil {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = h.now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal history event: %w", err)
	}
	data = append(data, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.file == nil {
		return fmt.Errorf("history log is closed")
	}
	if _, err := h.file.Write(data); err != nil {
		return fmt.Errorf("write history event: %w", err)
	}
	return nil
}

// Close closes the log file.
func (h *History) Close() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}

func runID(t time.Time) string {
	return fmt.Sprintf("%s-%d", t.UTC().Format("20060102-150405"), os.Getpid())
}

// FindLatestLog finds the most recently modified history file in logDir.
// A missing directory yields "" and no error.
func FindLatestLog(logDir string) (string, error) {
	logs, err := ListLogs(logDir)
	if err != nil || len(logs) == 0 {
		return "", err
	}
	return logs[0], nil
}

// ListLogs returns the history files in logDir, newest first.
func ListLogs(logDir string) ([]string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{
			path:    filepath.Join(logDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	// Run ids sort by start time, so the name breaks mod-time ties.
	sort.Slice(files, func(i, j int) bool {
		if !files[i].modTime.Equal(files[j].modTime) {
			return files[i].modTime.After(files[j].modTime)
		}
		return files[i].path > files[j].path
	})

	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.path
	}
	return out, nil
}
