package output

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquireLock(t *testing.T) {
	t.Run("creates lock file", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "frobber.rb")

		lock, err := AcquireLock(context.Background(), target)
		if err != nil {
			t.Fatalf("AcquireLock failed: %v", err)
		}
		defer lock.Release()

		data, err := os.ReadFile(target + ".lock")
		if err != nil {
			t.Fatalf("lock file not created: %v", err)
		}
		if len(data) == 0 {
			t.Error("lock file has no metadata")
		}
	})

	t.Run("prevents concurrent locks", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "frobber.rb")

		lock1, err := AcquireLock(context.Background(), target)
		if err != nil {
			t.Fatalf("first AcquireLock failed: %v", err)
		}
		defer lock1.Release()

		_, err = AcquireLock(context.Background(), target)
		if !errors.Is(err, ErrLocked) {
			t.Errorf("expected ErrLocked, got %v", err)
		}
	})

	t.Run("replaces stale lock", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "frobber.rb")
		lockPath := target + ".lock"
		if err := os.WriteFile(lockPath, []byte("pid=1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		old := time.Now().Add(-2 * StaleLockThreshold)
		if err := os.Chtimes(lockPath, old, old); err != nil {
			t.Fatal(err)
		}

		lock, err := AcquireLock(context.Background(), target)
		if err != nil {
			t.Fatalf("AcquireLock over stale lock failed: %v", err)
		}
		defer lock.Release()
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := AcquireLock(ctx, filepath.Join(t.TempDir(), "frobber.rb"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("release removes lock and is idempotent", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "frobber.rb")
		lock, err := AcquireLock(context.Background(), target)
		if err != nil {
			t.Fatal(err)
		}
		if err := lock.Release(); err != nil {
			t.Fatalf("Release failed: %v", err)
		}
		if err := lock.Release(); err != nil {
			t.Fatalf("second Release failed: %v", err)
		}
		if _, err := os.Stat(target + ".lock"); !os.IsNotExist(err) {
			t.Error("lock file still exists after Release")
		}
	})
}

func TestWriteFile(t *testing.T) {
	t.Run("creates directories and file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "Formula", "frobber.rb")

		if err := WriteFile(context.Background(), path, []byte("class Frobber\n")); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "class Frobber\n" {
			t.Errorf("content = %q", got)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o644 {
			t.Errorf("mode = %v, want 0644", info.Mode().Perm())
		}
	})

	t.Run("replaces existing file and leaves no temporaries", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "frobber.rb")
		if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := WriteFile(context.Background(), path, []byte("fresh")); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		got, _ := os.ReadFile(path)
		if string(got) != "fresh" {
			t.Errorf("content = %q, want fresh", got)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the formula in %s, found %d entries", dir, len(entries))
		}
	})

	t.Run("empty content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "frobber.rb")
		if err := WriteFile(context.Background(), path, nil); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() != 0 {
			t.Errorf("size = %d, want 0", info.Size())
		}
	})

	t.Run("locked target is not written", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "frobber.rb")
		lock, err := AcquireLock(context.Background(), path)
		if err != nil {
			t.Fatal(err)
		}
		defer lock.Release()

		err = WriteFile(context.Background(), path, []byte("x"))
		if !errors.Is(err, ErrLocked) {
			t.Errorf("expected ErrLocked, got %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("formula written despite lock")
		}
	})

	t.Run("output directory is a file", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "Formula")
		if err := os.WriteFile(blocker, nil, 0o644); err != nil {
			t.Fatal(err)
		}

		err := WriteFile(context.Background(), filepath.Join(blocker, "frobber.rb"), []byte("x"))
		var writeErr *WriteError
		if !errors.As(err, &writeErr) {
			t.Fatalf("expected *WriteError, got %v", err)
		}
	})
}
