package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultFileName is the task file name inside the data directory.
const DefaultFileName = "tasks.json"

// TaskRecord is one reminder attached to a date.
type TaskRecord struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"task"`
	Time string `json:"time"`
}

// EventStore maps "YYYY-MM-DD" date keys to ordered task lists.
type EventStore map[string][]TaskRecord

// Clone returns a deep copy of the store.
func (e EventStore) Clone() EventStore {
	out := make(EventStore, len(e))
	for date, tasks := range e {
		copied := make([]TaskRecord, len(tasks))
		copy(copied, tasks)
		out[date] = copied
	}
	return out
}

// Prune removes dates whose task list is empty and reports how many were
// removed.
func (e EventStore) Prune() int {
	removed := 0
	for date, tasks := range e {
		if len(tasks) == 0 {
			delete(e, date)
			removed++
		}
	}
	return removed
}

// Dates returns the date keys in ascending order.
func (e EventStore) Dates() []string {
	dates := make([]string, 0, len(e))
	for date := range e {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Count returns the total number of tasks across all dates.
func (e EventStore) Count() int {
	n := 0
	for _, tasks := range e {
		n += len(tasks)
	}
	return n
}

// CorruptPolicy decides what Load does with a malformed task file.
type CorruptPolicy string

const (
	// PolicyFail returns a *CorruptError and leaves the file alone.
	PolicyFail CorruptPolicy = "fail"
	// PolicyReset moves the bad file aside and starts from an empty store.
	PolicyReset CorruptPolicy = "reset"
)

// ParseCorruptPolicy validates a policy name. Empty means PolicyFail.
func ParseCorruptPolicy(s string) (CorruptPolicy, error) {
	switch CorruptPolicy(s) {
	case "", PolicyFail:
		return PolicyFail, nil
	case PolicyReset:
		return PolicyReset, nil
	default:
		return "", fmt.Errorf("invalid corrupt-file policy %q (want fail or reset)", s)
	}
}

// Store reads and writes one task file.
type Store struct {
	path   string
	policy CorruptPolicy
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithCorruptPolicy sets how malformed files are handled.
func WithCorruptPolicy(p CorruptPolicy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the clock used to stamp backup file names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Store backed by path.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		policy: PolicyFail,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the task file. A missing or blank file is an empty store.
// Malformed content is handled according to the corrupt policy.
func (s *Store) Load() (EventStore, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return EventStore{}, nil
		}
		return nil, fmt.Errorf("read tasks file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return EventStore{}, nil
	}

	events, err := Decode(data)
	if err != nil {
		var corrupt *CorruptError
		if errors.As(err, &corrupt) {
			corrupt.Path = s.path
			return s.recover(corrupt)
		}
		return nil, err
	}
	return events, nil
}

// Save writes the whole store, replacing the previous contents. Empty
// date lists are pruned from the written document. A store that Load
// would reject is not written.
func (s *Store) Save(events EventStore) error {
	out := events.Clone()
	out.Prune()
	if result := ValidateEvents(out); !result.Valid {
		return fmt.Errorf("refusing to save invalid tasks: %w", errors.Join(result.Errors...))
	}

	data, err := Encode(out)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := writeFileAtomic(dir, s.path, data); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	return nil
}

// Update loads the store, applies fn, and saves the result if fn returns
// nil. Returning an error from fn leaves the file untouched.
func (s *Store) Update(fn func(EventStore) error) error {
	events, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(events); err != nil {
		return err
	}
	return s.Save(events)
}

func (s *Store) recover(corrupt *CorruptError) (EventStore, error) {
	if s.policy != PolicyReset {
		return nil, corrupt
	}

	backup := fmt.Sprintf("%s.corrupt-%s", s.path, s.now().UTC().Format("20060102-150405"))
	if err := os.Rename(s.path, backup); err != nil {
		return nil, fmt.Errorf("move corrupt tasks file aside: %w (%v)", err, corrupt)
	}
	s.logger.Warn("tasks file was corrupt, starting empty", "path", s.path, "backup", backup, "err", corrupt)
	return EventStore{}, nil
}

// Decode parses and validates a task document.
func Decode(data []byte) (EventStore, error) {
	result := Validate(data)
	if !result.Valid {
		return nil, &CorruptError{Errors: result.Errors}
	}

	var events EventStore
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, &CorruptError{Errors: []error{err}}
	}
	if events == nil {
		events = EventStore{}
	}
	events.Prune()
	return events, nil
}

// Encode renders the store in the on-disk format.
func Encode(events EventStore) ([]byte, error) {
	if events == nil {
		events = EventStore{}
	}
	data, err := json.MarshalIndent(events, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks file: %w", err)
	}
	return append(data, '\n'), nil
}

func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
