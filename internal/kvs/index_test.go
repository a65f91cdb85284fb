package kvs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndex_SetReturnsPriorEntry(t *testing.T) {
	idx := newIndex()

	_, existed := idx.set("a", indexEntry{offset: 0, length: 10})
	require.False(t, existed)

	prev, existed := idx.set("a", indexEntry{offset: 10, length: 20})
	require.True(t, existed)
	require.Equal(t, indexEntry{offset: 0, length: 10}, prev)
}

func TestIndex_RemoveReturnsPriorEntry(t *testing.T) {
	idx := newIndex()
	idx.set("a", indexEntry{offset: 0, length: 10})

	prev, existed := idx.remove("a")
	require.True(t, existed)
	require.Equal(t, indexEntry{offset: 0, length: 10}, prev)

	_, existed = idx.remove("a")
	require.False(t, existed)
}

func TestIndex_LenTracksLiveKeys(t *testing.T) {
	idx := newIndex()
	require.Equal(t, 0, idx.len())

	idx.set("a", indexEntry{})
	idx.set("b", indexEntry{})
	require.Equal(t, 2, idx.len())

	idx.remove("a")
	require.Equal(t, 1, idx.len())
}
