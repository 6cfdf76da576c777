package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindRepoRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatalf("Failed to create .git: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}

	tests := []struct {
		name  string
		start string
	}{
		{"AtRoot", root},
		{"Nested", nested},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FindRepoRoot(tc.start)
			if err != nil {
				t.Fatalf("FindRepoRoot failed: %v", err)
			}
			if got != root {
				t.Errorf("FindRepoRoot(%q) = %q, expected %q", tc.start, got, root)
			}
		})
	}
}

func TestFindRepoRoot_GitFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: ../main/.git/worktrees/x\n"), 0600); err != nil {
		t.Fatalf("Failed to create .git file: %v", err)
	}

	got, err := FindRepoRoot(root)
	if err != nil {
		t.Fatalf("FindRepoRoot failed: %v", err)
	}
	if got != root {
		t.Errorf("FindRepoRoot = %q, expected %q", got, root)
	}
}

func TestFormatPaths(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	got := FormatPaths([]string{".env", ".env.encrypted"})
	want := "\n    - .env\n    - .env.encrypted\n"
	if got != want {
		t.Errorf("FormatPaths = %q, expected %q", got, want)
	}
	if !strings.HasPrefix(FormatPaths(nil), "\n") {
		t.Error("Expected FormatPaths(nil) to start with a newline")
	}
}

func TestIsTerminal_Nil(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("Expected nil file to not be a terminal")
	}
}
