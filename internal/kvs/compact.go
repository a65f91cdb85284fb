package kvs

import (
	"fmt"
	"os"
	"path/filepath"
)

// compact rewrites the log to contain only the records the index currently
// points to, then replaces kvs.db with the rewrite. Triggered immediately
// after the set/remove that pushed dead bytes past the threshold.
//
// kvs.db is never touched until the final rename, so a crash at any point
// before then leaves the original log, and the index built from it, intact.
func (s *Store) compact() error {
	compPath := filepath.Join(s.dir, compFileName)

	comp, err := s.fsys.OpenFile(compPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("kvs: compact: creating %s: %w", compFileName, err)
	}

	type relocated struct {
		key   string
		entry indexEntry
	}

	var moved []relocated

	var newSize int64

	var copyErr error

	s.idx.each(func(key string, e indexEntry) {
		if copyErr != nil {
			return
		}

		buf := make([]byte, e.length)

		if _, err := s.file.ReadAt(buf, e.offset); err != nil {
			copyErr = fmt.Errorf("kvs: compact: reading live record for %q: %w", key, err)
			return
		}

		n, err := comp.Write(buf)
		if err != nil {
			copyErr = fmt.Errorf("kvs: compact: writing live record for %q: %w", key, err)
			return
		}

		moved = append(moved, relocated{key: key, entry: indexEntry{offset: newSize, length: int64(n)}})
		newSize += int64(n)
	})

	if copyErr != nil {
		comp.Close()
		s.fsys.Remove(compPath)

		return copyErr
	}

	if err := comp.Sync(); err != nil {
		comp.Close()
		s.fsys.Remove(compPath)

		return fmt.Errorf("kvs: compact: syncing %s: %w", compFileName, err)
	}

	if err := comp.Close(); err != nil {
		s.fsys.Remove(compPath)
		return fmt.Errorf("kvs: compact: closing %s: %w", compFileName, err)
	}

	dbPath := filepath.Join(s.dir, dbFileName)

	if err := s.file.Close(); err != nil {
		return fmt.Errorf("kvs: compact: closing %s: %w", dbFileName, err)
	}

	if err := s.fsys.ReplaceFile(compPath, dbPath); err != nil {
		return fmt.Errorf("kvs: compact: replacing %s: %w", dbFileName, err)
	}

	newFile, err := s.fsys.OpenFile(dbPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("kvs: compact: reopening %s: %w", dbFileName, err)
	}

	s.file = newFile
	s.size = newSize

	for _, r := range moved {
		s.idx.set(r.key, r.entry)
	}

	s.deadBytes = 0

	return nil
}
