package lang

import (
	"sync"
)

// Cache memoizes parsed nodes by canonical path.
//
// An entry is reused only while the content hash of the file it was parsed
// from still matches, so edited files are always re-parsed. Rendered output is
// never cached; a cached node renders exactly as a freshly parsed one would.
//
// A Cache is safe for concurrent use. The zero value is ready to use.
type Cache struct {
	nodes sync.Map // canonical path -> *Node
}

// NewCache returns an empty Cache.
func NewCache() *Cache { return new(Cache) }

// parse returns the cached node for path if it was parsed from data, and
// otherwise parses data and caches the result. A nil Cache always parses.
func (c *Cache) parse(path, dir string, data []byte) (*Node, bool, error) {
	if c == nil {
		n, err := Parse(path, dir, data)

		return n, false, err
	}

	if v, ok := c.nodes.Load(path); ok {
		if n, ok := v.(*Node); ok && n.sum == hashSource(data) && n.Dir == dir {
			return n, true, nil
		}
	}

	n, err := Parse(path, dir, data)
	if err != nil {
		c.nodes.Delete(path)

		return nil, false, err
	}

	c.nodes.Store(path, n)

	return n, false, nil
}

// Len returns the number of cached nodes.
func (c *Cache) Len() int {
	var n int

	c.nodes.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// Clear removes all cached nodes.
func (c *Cache) Clear() {
	c.nodes.Clear()
}
