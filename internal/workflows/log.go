package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/envgate/internal/audit"
	kerrors "github.com/PolarWolf314/envgate/internal/errors"
)

const dateLayout = "2006-01-02"

// LogOptions configures the log workflow.
type LogOptions struct {
	// Path is the audit log file. Empty means auditing is disabled.
	Path string

	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest.
	Reverse bool

	// User keeps entries recorded for this identity (case-insensitive).
	User string

	// Operations keeps entries whose operation is listed.
	Operations []string

	// Since and Until bound entries by date (YYYY-MM-DD, inclusive).
	Since string
	Until string
}

// LogResult contains the filtered audit entries.
type LogResult struct {
	Entries []audit.Entry

	// Total is the number of entries before filtering.
	Total int
}

// Log reads and filters the audit log.
//
// A log that does not exist yet has no entries. Returns ErrAuditDisabled
// if no path is configured and ErrInvalidDateFormat for a bad Since or
// Until.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	if opts.Path == "" {
		return nil, kerrors.ErrAuditDisabled
	}

	since, until, err := dateBounds(opts.Since, opts.Until)
	if err != nil {
		return nil, err
	}

	entries, err := audit.ReadEntries(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading audit log: %v", kerrors.ErrIO, err)
	}

	result := &LogResult{Total: len(entries)}

	ops := make(map[string]bool, len(opts.Operations))
	for _, op := range opts.Operations {
		if op = strings.ToLower(strings.TrimSpace(op)); op != "" {
			ops[op] = true
		}
	}

	var filtered []audit.Entry
	for _, e := range entries {
		if opts.User != "" && !strings.EqualFold(e.User, opts.User) {
			continue
		}
		if len(ops) > 0 && !ops[strings.ToLower(e.Operation)] {
			continue
		}
		if !since.IsZero() || !until.IsZero() {
			t, ok := entryTime(e)
			if !ok || (!since.IsZero() && t.Before(since)) || (!until.IsZero() && t.After(until)) {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	// The limit always keeps the most recent entries.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

func dateBounds(since, until string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if since != "" {
		if from, err = time.Parse(dateLayout, since); err != nil {
			return from, to, fmt.Errorf("%w: --since %q, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat, since)
		}
	}
	if until != "" {
		if to, err = time.Parse(dateLayout, until); err != nil {
			return from, to, fmt.Errorf("%w: --until %q, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat, until)
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

func entryTime(e audit.Entry) (time.Time, bool) {
	t, err := time.Parse(audit.TimestampFormat, e.Timestamp)
	if err != nil {
		t, err = time.Parse(time.RFC3339, e.Timestamp)
	}
	return t, err == nil
}

// FormatDateTime renders an entry timestamp as "YYYY-MM-DD HH:MM:SS".
func FormatDateTime(ts string) string {
	t, ok := entryTime(audit.Entry{Timestamp: ts})
	if !ok {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}
