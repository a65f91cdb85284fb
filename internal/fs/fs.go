// Package fs provides filesystem abstractions for the storage engine.
//
// The main types are:
//   - [FS]: interface for filesystem operations
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os] package
//
// Example usage:
//
//	store := fs.NewReal()
//	f, err := store.OpenFile("kvs.db", os.O_RDWR|os.O_CREATE, 0o644)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This interface is satisfied by [os.File] and can be used with all
// standard library functions that accept [io.Reader], [io.Writer],
// [io.Seeker], or [io.Closer].
type File interface {
	// Embedded interfaces from [io] package.
	// These provide Read, Write, Close, Seek, and ReadAt methods.
	io.ReadWriteCloser
	io.Seeker
	io.ReaderAt

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)

	// Sync commits the file's contents to disk. See [os.File.Sync].
	Sync() error
}

// FS defines filesystem operations for reading, writing, and managing the
// store directory.
//
// Methods other than ReplaceFile mirror their [os] package equivalents (Remove
// additionally ignores a missing path) but are expressed as an interface so
// the engine can be exercised against a fake in tests.
type FS interface {
	// OpenFile opens a file with specified flags and permissions. See [os.OpenFile].
	//
	// Common flags: [os.O_RDONLY], [os.O_WRONLY], [os.O_RDWR],
	// [os.O_CREATE], [os.O_EXCL].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// Stat returns file info. See [os.Stat].
	// Returns an error satisfying [os.IsNotExist] if the file doesn't exist.
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// Remove deletes a file. See [os.Remove].
	// No error if the path does not exist.
	Remove(path string) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	// No error if the directory already exists.
	MkdirAll(path string, perm os.FileMode) error

	// ReplaceFile atomically replaces newpath with the contents of oldpath,
	// such that any observer sees either the old or the new newpath in
	// full, never a partial file. oldpath no longer exists afterward.
	ReplaceFile(oldpath, newpath string) error
}

// Compile-time interface check.
var _ File = (*os.File)(nil)
