package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	ID          string `json:"id"`
	Timestamp   string `json:"ts"` // RFC3339 with microseconds.
	Operation   string `json:"op"`
	User        string `json:"user"`
	Repository  string `json:"repo"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Format      string `json:"format,omitempty"`
}

// Log appends entries to a JSON Lines file. A nil Log or an empty Path
// records nothing.
type Log struct {
	Path string

	now func() time.Time
}

// New returns a Log writing to path.
func New(path string) *Log {
	return &Log{Path: path}
}

// Enabled reports whether entries will be written.
func (l *Log) Enabled() bool {
	return l != nil && l.Path != ""
}

// Record appends entry, filling in ID and Timestamp when unset.
func (l *Log) Record(entry Entry) error {
	if !l.Enabled() {
		return nil
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = l.clock().UTC().Format(TimestampFormat)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding audit entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.Path), 0700); err != nil {
		return fmt.Errorf("creating audit log directory: %w", err)
	}

	// #nosec G306 -- audit log should be readable by team members.
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}
	return nil
}

func (l *Log) clock() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}

// ReadEntries reads all entries from the audit log at path.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data), nil
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) []Entry {
	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries
}
