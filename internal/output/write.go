// Package output writes generated formulas to disk.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// WriteError describes a failed formula write.
type WriteError struct {
	Path    string
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// WriteFile atomically replaces path with data while holding its lock.
func WriteFile(ctx context.Context, path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: path, Message: "failed to create output directory", Cause: err}
	}

	lock, err := AcquireLock(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.Release(); err == nil {
			err = releaseErr
		}
	}()

	tmpFile, err := os.CreateTemp(dir, ".brewform-tmp-*")
	if err != nil {
		return &WriteError{Path: path, Message: "failed to create temporary file", Cause: err}
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return &WriteError{Path: path, Message: "failed to write formula", Cause: err}
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		tmpFile.Close()
		return &WriteError{Path: path, Message: "failed to set file mode", Cause: err}
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return &WriteError{Path: path, Message: "failed to sync file", Cause: err}
	}
	if err := tmpFile.Close(); err != nil {
		return &WriteError{Path: path, Message: "failed to close temporary file", Cause: err}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &WriteError{Path: path, Message: "failed to rename temp file", Cause: err}
	}

	if df, err := os.Open(dir); err == nil {
		syncErr := df.Sync()
		df.Close()
		if syncErr != nil {
			return &WriteError{Path: path, Message: "failed to sync directory", Cause: syncErr}
		}
	}
	return nil
}
