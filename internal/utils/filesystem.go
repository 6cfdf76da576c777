package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRepoRoot traverses up from start to find the directory containing .git.
// A .git file (worktrees, submodules) counts as well as a directory.
// Returns an empty string if no repository root is found.
func FindRepoRoot(start string) (string, error) {
	currentDir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		gitPath := filepath.Join(currentDir, ".git")
		_, err := os.Stat(gitPath)
		// No error means the path exists
		if err == nil {
			return currentDir, nil
		} else if !os.IsNotExist(err) {
			// Return any error that's not "file not found" (like permission issues)
			return "", fmt.Errorf("error checking for .git at %s: %w", currentDir, err)
		}

		parentDir := filepath.Dir(currentDir)

		// If we've reached the filesystem root and haven't found .git
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}
