package decor

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

// Key identifies a cached placement list. The hash covers the exact
// density/distribution/size tuple so distinct configurations never
// collide on the same island.
type Key struct {
	IslandID  string
	LocalSeed int64
	Hash      uint64
}

// String renders the key in a stable form usable as a database key.
func (k Key) String() string {
	return fmt.Sprintf("%s|%d|%016x", k.IslandID, k.LocalSeed, k.Hash)
}

// NewKey derives the cache key for an island's decoration configuration.
func NewKey(islandID string, localSeed int64, density float64, dist Distribution, size float64) Key {
	h := fnv.New64a()
	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], math.Float64bits(density))
	h.Write(buf[:])
	for _, s := range dist {
		h.Write([]byte(s.Type))
		binary.BigEndian.PutUint64(buf[:], uint64(s.Percent))
		h.Write(buf[:])
	}
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(size))
	h.Write(buf[:])

	return Key{IslandID: islandID, LocalSeed: localSeed, Hash: h.Sum64()}
}

// Cache is a bounded FIFO map of placement lists. When full, inserting
// evicts the oldest entry. Values are pure data; renderable handles are
// reconstructed on hit.
type Cache struct {
	capacity int
	entries  map[Key][]Placement
	order    []Key
}

// NewCache creates a cache holding at most capacity entries.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[Key][]Placement),
	}
}

// Get returns the cached placement list for key, if present.
func (c *Cache) Get(key Key) ([]Placement, bool) {
	p, ok := c.entries[key]
	return p, ok
}

// Put inserts a placement list, evicting the oldest entry when at
// capacity. Re-inserting an existing key refreshes its value without
// consuming a slot.
func (c *Cache) Put(key Key, placements []Placement) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = placements
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = placements
	c.order = append(c.order, key)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return len(c.entries) }

// Clear drops every entry.
func (c *Cache) Clear() {
	c.entries = make(map[Key][]Placement)
	c.order = nil
}
