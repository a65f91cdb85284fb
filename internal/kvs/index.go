package kvs

// indexEntry locates a Set record in the log: the byte offset where it
// starts and its encoded length.
type indexEntry struct {
	offset int64
	length int64
}

// index is the in-memory key -> (offset, length) mapping. No ordering
// guarantees are offered or needed; it is a thin wrapper over a map so the
// store's bookkeeping reads as intent rather than map plumbing.
type index struct {
	entries map[string]indexEntry
}

func newIndex() *index {
	return &index{entries: make(map[string]indexEntry)}
}

// get returns the entry for key, if any.
func (x *index) get(key string) (indexEntry, bool) {
	e, ok := x.entries[key]
	return e, ok
}

// set inserts or overwrites the entry for key, returning the prior entry (if
// any) so the caller can account for its length as dead bytes.
func (x *index) set(key string, e indexEntry) (indexEntry, bool) {
	prev, existed := x.entries[key]
	x.entries[key] = e

	return prev, existed
}

// remove deletes the entry for key, returning the prior entry (if any).
func (x *index) remove(key string) (indexEntry, bool) {
	prev, existed := x.entries[key]
	delete(x.entries, key)

	return prev, existed
}

// len reports the number of live keys.
func (x *index) len() int {
	return len(x.entries)
}

// each calls fn for every (key, entry) pair. Iteration order is unspecified.
func (x *index) each(fn func(key string, e indexEntry)) {
	for k, e := range x.entries {
		fn(k, e)
	}
}
