// Package kvs implements an embedded, log-structured key/value store.
//
// A [Store] persists string keys and values to a single append-only log
// file in a caller-supplied directory. Opening a store replays the log to
// rebuild an in-memory index of key -> (offset, length); sets and removes
// append new records and update the index; compaction rewrites the log to
// contain only live records once the count of dead bytes passes a
// threshold.
//
// A Store is not safe for concurrent use: all operations on a handle must
// run on a single goroutine at a time, matching the single-threaded,
// synchronous engine this package implements.
package kvs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/calvinalkan/kvs/internal/fs"
)

const (
	dbFileName   = "kvs.db"
	compFileName = "kvs.comp"

	// DefaultCompactionThreshold is the dead-byte count past which a set or
	// remove triggers compaction, absent an override in [Options].
	DefaultCompactionThreshold = 1 << 20 // ~1 MiB
)

// Options configures a [Store].
type Options struct {
	// CompactionThreshold is the dead-byte count past which compaction runs
	// immediately after the set/remove that crossed it. Zero means
	// [DefaultCompactionThreshold].
	CompactionThreshold int64
}

func (o Options) threshold() int64 {
	if o.CompactionThreshold > 0 {
		return o.CompactionThreshold
	}

	return DefaultCompactionThreshold
}

// Stats reports a snapshot of the store's internal bookkeeping.
type Stats struct {
	// DeadBytes is the number of log bytes no longer reachable from the
	// index: overwritten Sets, removed Sets, and the tombstones themselves.
	DeadBytes int64

	// LogSize is the current length of the log file in bytes.
	LogSize int64

	// KeyCount is the number of live keys in the index.
	KeyCount int
}

// Store is a handle to an open key/value store. It owns the log file
// descriptor, the in-memory index, and the dead-byte counter exclusively;
// it must not be used from more than one goroutine at a time.
type Store struct {
	fsys fs.FS
	dir  string

	file fs.File
	size int64 // current length of the log, tracked to avoid a Stat per write

	idx       *index
	deadBytes int64

	opts   Options
	closed bool
}

// Open opens (creating if necessary) a store rooted at dir, replaying its
// log to rebuild the index.
func Open(dir string, opts Options) (*Store, error) {
	return OpenFS(fs.NewReal(), dir, opts)
}

// OpenFS is like [Open] but takes an explicit [fs.FS], so callers (tests, in
// particular) can substitute a fake filesystem.
func OpenFS(fsys fs.FS, dir string, opts Options) (*Store, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kvs: open %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, dbFileName)

	// A leftover kvs.comp is the scratch file of a compaction that crashed
	// before the rename in step 3 completed. kvs.db was never touched, so
	// the leftover is safely discarded; it would be overwritten by the next
	// compaction anyway.
	if err := fsys.Remove(filepath.Join(dir, compFileName)); err != nil {
		return nil, fmt.Errorf("kvs: open %s: removing stale compaction file: %w", dir, err)
	}

	file, err := fsys.OpenFile(dbPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("kvs: open %s: %w", dir, err)
	}

	s := &Store{
		fsys: fsys,
		dir:  dir,
		file: file,
		idx:  newIndex(),
		opts: opts,
	}

	if err := s.replay(); err != nil {
		file.Close()
		return nil, err
	}

	return s, nil
}

// replay reads the log from the start, rebuilding the index and dead-byte
// counter. It must succeed on an empty or freshly-created file.
func (s *Store) replay() error {
	dec := newRecordDecoder(s.file)

	var before int64

	for {
		rec, err := dec.next()
		if err == io.EOF {
			break
		}

		if err != nil {
			return err
		}

		after := dec.offset()
		length := after - before

		switch rec.Kind {
		case kindSet:
			prev, existed := s.idx.set(rec.Key, indexEntry{offset: before, length: length})
			if existed {
				s.deadBytes += prev.length
			}
		case kindRemove:
			prev, existed := s.idx.remove(rec.Key)
			if existed {
				s.deadBytes += prev.length
			}

			s.deadBytes += length
		case kindLegacyGet:
			// Tolerated, ignored.
		}

		before = after
	}

	s.size = before

	return nil
}

// Set stores value under key, appending a record to the log and updating
// the index. If dead bytes exceed the configured threshold afterward,
// compaction runs before Set returns.
func (s *Store) Set(key, value string) error {
	if s.closed {
		return ErrClosed
	}

	encoded, err := encodeSet(key, value)
	if err != nil {
		return err
	}

	before := s.size

	n, err := s.file.Write(encoded)
	if err != nil {
		return fmt.Errorf("kvs: set %q: %w", key, err)
	}

	after := before + int64(n)
	s.size = after

	prev, existed := s.idx.set(key, indexEntry{offset: before, length: after - before})
	if existed {
		s.deadBytes += prev.length
	}

	if s.deadBytes > s.opts.threshold() {
		return s.compact()
	}

	return nil
}

// Get returns the value for key and true, or "" and false if key is absent.
func (s *Store) Get(key string) (string, bool, error) {
	if s.closed {
		return "", false, ErrClosed
	}

	entry, ok := s.idx.get(key)
	if !ok {
		return "", false, nil
	}

	buf := make([]byte, entry.length)

	if _, err := s.file.ReadAt(buf, entry.offset); err != nil {
		return "", false, fmt.Errorf("kvs: get %q: %w", key, err)
	}

	rec, err := decodeSingle(buf)
	if err != nil {
		return "", false, err
	}

	if rec.Kind != kindSet || rec.Key != key {
		return "", false, fmt.Errorf("%w: index entry for %q does not point to a matching Set record", ErrBadFormat, key)
	}

	return rec.Value, true, nil
}

// Remove deletes key. It fails with [ErrKeyNotFound] if key is absent from
// the index, without writing a tombstone. If dead bytes exceed the
// configured threshold afterward, compaction runs before Remove returns.
func (s *Store) Remove(key string) error {
	if s.closed {
		return ErrClosed
	}

	prev, existed := s.idx.get(key)
	if !existed {
		return fmt.Errorf("kvs: remove %q: %w", key, ErrKeyNotFound)
	}

	s.idx.remove(key)
	s.deadBytes += prev.length

	encoded, err := encodeRemove(key)
	if err != nil {
		return err
	}

	before := s.size

	n, err := s.file.Write(encoded)
	if err != nil {
		return fmt.Errorf("kvs: remove %q: %w", key, err)
	}

	after := before + int64(n)
	s.size = after
	s.deadBytes += after - before

	if s.deadBytes > s.opts.threshold() {
		return s.compact()
	}

	return nil
}

// Stats reports the store's current dead-byte count, log size, and live
// key count.
func (s *Store) Stats() Stats {
	return Stats{
		DeadBytes: s.deadBytes,
		LogSize:   s.size,
		KeyCount:  s.idx.len(),
	}
}

// Close releases the log file descriptor. The handle must not be used
// afterward.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true

	return s.file.Close()
}
