package secrets

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"

	kerrors "github.com/PolarWolf314/envgate/internal/errors"
)

// ReadPayload reads the whole file at path.
func ReadPayload(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", kerrors.ErrIO, path, err)
	}
	return data, nil
}

// WritePayload atomically replaces path with data. On failure the previous
// contents of path, or its absence, are preserved.
func WritePayload(path string, data []byte) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", kerrors.ErrWriteFailed, path)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: failed to write to %s: %v", kerrors.ErrWriteFailed, path, err)
	}
	return nil
}

// FileExists reports whether path exists as a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
