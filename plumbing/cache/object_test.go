package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vesi-vcs/vesi/plumbing"
)

func blob(content string) *plumbing.MemoryObject {
	o := &plumbing.MemoryObject{}
	o.SetType(plumbing.BlobObject)
	o.Write([]byte(content))
	return o
}

func TestObjectLRU_addAndGet(t *testing.T) {
	c := NewObjectLRUDefault()

	o := blob("hello")
	c.Add(o)

	got, ok := c.Get(o.Hash())
	require.True(t, ok)
	require.Equal(t, o.Hash(), got.Hash())

	_, ok = c.Get(plumbing.NewHash("0000000000000000000000000000000000000000"))
	require.False(t, ok)
}

func TestObjectLRU_evictsLeastRecentlyUsed(t *testing.T) {
	c := NewObjectLRU(int64(len("aaaaa") + len("bbbbb")))

	a := blob("aaaaa")
	b := blob("bbbbb")
	c.Add(a)
	c.Add(b)

	// Touching a keeps it fresher than b.
	_, ok := c.Get(a.Hash())
	require.True(t, ok)

	cc := blob("ccccc")
	c.Add(cc)

	_, ok = c.Get(b.Hash())
	require.False(t, ok, "b should have been evicted as least recently used")

	_, ok = c.Get(a.Hash())
	require.True(t, ok)

	_, ok = c.Get(cc.Hash())
	require.True(t, ok)
}

func TestObjectLRU_rejectsObjectLargerThanBudget(t *testing.T) {
	c := NewObjectLRU(4)

	o := blob("hello")
	c.Add(o)

	_, ok := c.Get(o.Hash())
	require.False(t, ok)
}

func TestObjectLRU_clear(t *testing.T) {
	c := NewObjectLRUDefault()

	o := blob("hello")
	c.Add(o)
	c.Clear()

	_, ok := c.Get(o.Hash())
	require.False(t, ok)
}
