package workflows

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/envgate/internal/audit"
	kerrors "github.com/PolarWolf314/envgate/internal/errors"
)

func writeAuditLog(t *testing.T, entries ...audit.Entry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	log := audit.New(path)
	for _, e := range entries {
		if err := log.Record(e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	return path
}

func sampleLog(t *testing.T) string {
	return writeAuditLog(t,
		audit.Entry{Timestamp: "2026-01-01T10:00:00.000000Z", Operation: "encrypt", User: "octocat"},
		audit.Entry{Timestamp: "2026-01-02T10:00:00.000000Z", Operation: "decrypt", User: "hubot"},
		audit.Entry{Timestamp: "2026-01-03T10:00:00.000000Z", Operation: "decrypt", User: "Octocat"},
		audit.Entry{Timestamp: "2026-01-04T10:00:00.000000Z", Operation: "encrypt", User: "hubot"},
	)
}

func TestLog_Filters(t *testing.T) {
	path := sampleLog(t)

	tests := []struct {
		name string
		opts LogOptions
		want []string
	}{
		{"all", LogOptions{}, []string{"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04"}},
		{"user", LogOptions{User: "octocat"}, []string{"2026-01-01", "2026-01-03"}},
		{"operation", LogOptions{Operations: []string{" Decrypt "}}, []string{"2026-01-02", "2026-01-03"}},
		{"since until", LogOptions{Since: "2026-01-02", Until: "2026-01-03"}, []string{"2026-01-02", "2026-01-03"}},
		{"limit keeps latest", LogOptions{Limit: 2}, []string{"2026-01-03", "2026-01-04"}},
		{"reverse limit", LogOptions{Reverse: true, Limit: 1}, []string{"2026-01-04"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.Path = path
			res, err := Log(context.Background(), tc.opts)
			if err != nil {
				t.Fatalf("Log failed: %v", err)
			}
			if res.Total != 4 {
				t.Errorf("Total = %d, want 4", res.Total)
			}
			if len(res.Entries) != len(tc.want) {
				t.Fatalf("Got %d entries, want %d", len(res.Entries), len(tc.want))
			}
			for i, e := range res.Entries {
				if e.Timestamp[:10] != tc.want[i] {
					t.Errorf("Entries[%d] = %s, want %s", i, e.Timestamp[:10], tc.want[i])
				}
			}
		})
	}
}

func TestLog_Errors(t *testing.T) {
	if _, err := Log(context.Background(), LogOptions{}); !errors.Is(err, kerrors.ErrAuditDisabled) {
		t.Errorf("Expected ErrAuditDisabled, got %v", err)
	}

	_, err := Log(context.Background(), LogOptions{Path: sampleLog(t), Since: "01/02/2026"})
	if !errors.Is(err, kerrors.ErrInvalidDateFormat) {
		t.Errorf("Expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestLog_MissingFileIsEmpty(t *testing.T) {
	res, err := Log(context.Background(), LogOptions{Path: filepath.Join(t.TempDir(), "none.jsonl")})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if res.Total != 0 || len(res.Entries) != 0 {
		t.Errorf("Expected no entries, got %+v", res)
	}
}

func TestFormatDateTime(t *testing.T) {
	if got := FormatDateTime("2026-01-02T03:04:05.000000Z"); got != "2026-01-02 03:04:05" {
		t.Errorf("FormatDateTime = %q", got)
	}
	if got := FormatDateTime("garbage"); got != "garbage" {
		t.Errorf("FormatDateTime(garbage) = %q", got)
	}
}
