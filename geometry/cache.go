package geometry

type cacheKey struct {
	content    string
	styleClass string
}

// Cache memoizes an Oracle by (content, styleClass). It is owned by a single
// editor session and is not safe for concurrent use.
type Cache struct {
	oracle  Oracle
	entries map[cacheKey]Size
	hits    int
	misses  int
}

// NewCache wraps oracle.
func NewCache(oracle Oracle) *Cache {
	return &Cache{
		oracle:  oracle,
		entries: make(map[cacheKey]Size),
	}
}

// Measure returns the cached size or asks the oracle.
func (c *Cache) Measure(content, styleClass string) Size {
	key := cacheKey{content: content, styleClass: styleClass}
	if size, ok := c.entries[key]; ok {
		c.hits++
		return size
	}
	c.misses++
	size := c.oracle.Measure(content, styleClass)
	c.entries[key] = size
	return size
}

// Invalidate drops the entry for content.
func (c *Cache) Invalidate(content, styleClass string) {
	delete(c.entries, cacheKey{content: content, styleClass: styleClass})
}

// Reset drops every entry, e.g. after the oracle's font changed.
func (c *Cache) Reset() {
	c.entries = make(map[cacheKey]Size)
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
