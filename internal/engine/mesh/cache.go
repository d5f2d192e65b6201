package mesh

// AttributeKey identifies a unique combination of source attributes.
// Absent attributes are NoIndex, so keys with and without a texcoord are
// distinct entries.
type AttributeKey struct {
	Position int32
	Normal   int32
	TexCoord int32
}

// keyOf returns the cache key for a face corner.
func keyOf(c Corner) AttributeKey {
	return AttributeKey{Position: c.Position, Normal: c.Normal, TexCoord: c.TexCoord}
}

// AttributeCache maps attribute keys to the output vertex index already
// assigned to them. It belongs to a single build and is not safe for
// concurrent use.
type AttributeCache struct {
	entries map[AttributeKey]uint32
}

// NewAttributeCache creates an empty cache.
func NewAttributeCache() *AttributeCache {
	return &AttributeCache{entries: make(map[AttributeKey]uint32)}
}

// TryGet returns the output index stored for key.
func (c *AttributeCache) TryGet(key AttributeKey) (uint32, bool) {
	idx, ok := c.entries[key]
	return idx, ok
}

// Set records the output index for key.
func (c *AttributeCache) Set(key AttributeKey, index uint32) {
	c.entries[key] = index
}

// Clear discards all entries.
func (c *AttributeCache) Clear() {
	clear(c.entries)
}

// Len returns the number of entries.
func (c *AttributeCache) Len() int {
	return len(c.entries)
}
