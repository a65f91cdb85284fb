package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// Real FS Tests
//
// These tests verify our Real implementation's helper methods work correctly.
// We're NOT testing os.* behavior in depth (that's Go's job). We ARE testing
// Exists() and Remove()'s no-error-if-missing behavior, since those diverge
// from their raw os.* counterparts, plus a smoke test each of OpenFile with
// the flags the store uses and of ReplaceFile.
// =============================================================================

func TestReal_Exists_ReturnsFalseForNonExistent(t *testing.T) {
	fsys := NewReal()
	dir := t.TempDir()

	exists, err := fsys.Exists(filepath.Join(dir, "does-not-exist.txt"))

	if got, want := err, error(nil); !errors.Is(got, want) {
		t.Fatalf("err=%v, want=%v", got, want)
	}

	if got, want := exists, false; got != want {
		t.Fatalf("exists=%v, want=%v", got, want)
	}
}

func TestReal_Exists_ReturnsTrueForFile(t *testing.T) {
	fsys := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.txt")

	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	exists, err := fsys.Exists(path)

	if got, want := err, error(nil); !errors.Is(got, want) {
		t.Fatalf("err=%v, want=%v", got, want)
	}

	if got, want := exists, true; got != want {
		t.Fatalf("exists=%v, want=%v", got, want)
	}
}

func TestReal_Exists_ReturnsTrueForDirectory(t *testing.T) {
	fsys := NewReal()
	dir := t.TempDir()
	subdir := filepath.Join(dir, "subdir")

	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	exists, err := fsys.Exists(subdir)

	if got, want := err, error(nil); !errors.Is(got, want) {
		t.Fatalf("err=%v, want=%v", got, want)
	}

	if got, want := exists, true; got != want {
		t.Fatalf("exists=%v, want=%v", got, want)
	}
}

func TestReal_Remove_NoErrorForNonExistent(t *testing.T) {
	fsys := NewReal()
	dir := t.TempDir()

	err := fsys.Remove(filepath.Join(dir, "does-not-exist.txt"))

	if got, want := err, error(nil); !errors.Is(got, want) {
		t.Fatalf("err=%v, want=%v", got, want)
	}
}

func TestReal_OpenFile_CreateWriteRead(t *testing.T) {
	fsys := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "log.db")

	f, err := fsys.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		t.Fatalf("OpenFile err=%v", err)
	}

	if _, err := f.Write([]byte("hello")); err != nil {
		t.Fatalf("Write err=%v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close err=%v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile err=%v", err)
	}

	if got, want := string(data), "hello"; got != want {
		t.Fatalf("content=%q, want=%q", got, want)
	}
}

func TestReal_ReplaceFile_ReplacesTarget(t *testing.T) {
	fsys := NewReal()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	if err := os.WriteFile(src, []byte("new"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := os.WriteFile(dst, []byte("old"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := fsys.ReplaceFile(src, dst); err != nil {
		t.Fatalf("ReplaceFile err=%v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile err=%v", err)
	}

	if got, want := string(data), "new"; got != want {
		t.Fatalf("content=%q, want=%q", got, want)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("src should no longer exist, err=%v", err)
	}
}
