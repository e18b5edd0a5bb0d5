// Package cache provides an in-memory LRU cache for decoded objects,
// sitting in front of the on-disk object store.
package cache

import (
	"container/list"
	"sync"

	"github.com/vesi-vcs/vesi/plumbing"
)

const (
	Byte = 1 << (iota * 10)
	KiByte
	MiByte
	GiByte
)

// DefaultMaxSize is the default cache size budget, in bytes.
const DefaultMaxSize = 96 * MiByte

// Object is a cache of decoded objects keyed by hash.
type Object interface {
	Add(o plumbing.EncodedObject)
	Get(k plumbing.Hash) (plumbing.EncodedObject, bool)
	Clear()
}

type entry struct {
	hash plumbing.Hash
	obj  plumbing.EncodedObject
}

// ObjectLRU is a size-bounded, least-recently-used object cache.
type ObjectLRU struct {
	mu       sync.Mutex
	maxSize  int64
	curSize  int64
	ll       *list.List
	elements map[plumbing.Hash]*list.Element
}

// NewObjectLRU returns an ObjectLRU with the given size budget, in bytes.
func NewObjectLRU(maxSize int64) *ObjectLRU {
	return &ObjectLRU{
		maxSize:  maxSize,
		ll:       list.New(),
		elements: make(map[plumbing.Hash]*list.Element),
	}
}

// NewObjectLRUDefault returns an ObjectLRU sized to DefaultMaxSize.
func NewObjectLRUDefault() *ObjectLRU {
	return NewObjectLRU(DefaultMaxSize)
}

func (c *ObjectLRU) Add(o plumbing.EncodedObject) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.elements[o.Hash()]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*entry).obj = o
		return
	}

	size := o.Size()
	if size > c.maxSize {
		return
	}

	el := c.ll.PushFront(&entry{hash: o.Hash(), obj: o})
	c.elements[o.Hash()] = el
	c.curSize += size

	for c.curSize > c.maxSize {
		c.removeOldest()
	}
}

func (c *ObjectLRU) Get(k plumbing.Hash) (plumbing.EncodedObject, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.elements[k]
	if !ok {
		return nil, false
	}

	c.ll.MoveToFront(el)
	return el.Value.(*entry).obj, true
}

func (c *ObjectLRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll = list.New()
	c.elements = make(map[plumbing.Hash]*list.Element)
	c.curSize = 0
}

func (c *ObjectLRU) removeOldest() {
	el := c.ll.Back()
	if el == nil {
		return
	}

	c.ll.Remove(el)
	e := el.Value.(*entry)
	delete(c.elements, e.hash)
	c.curSize -= e.obj.Size()
}
