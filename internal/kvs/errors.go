package kvs

import "errors"

// Sentinel errors returned by the store. Wrap with fmt.Errorf("...: %w", err)
// at call sites; callers should use errors.Is to test for them.
var (
	// ErrBadFormat indicates the log contains bytes that do not decode as a
	// valid record, or a get landed on a non-Set record or a mismatched key.
	ErrBadFormat = errors.New("kvs: bad format")

	// ErrBadUTF8 indicates raw bytes expected to decode as text did not.
	ErrBadUTF8 = errors.New("kvs: invalid utf-8")

	// ErrKeyNotFound is returned by Remove for a key absent from the index.
	ErrKeyNotFound = errors.New("kvs: key not found")

	// ErrClosed is returned by Set, Get and Remove on a handle after Close.
	ErrClosed = errors.New("kvs: store is closed")
)
