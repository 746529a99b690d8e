// Package seeder holds the invariant-driven population engine and the local
// entity cache it samples from.
package seeder

import "chat-seeder/generators"

// Cache is an in-process map from entity id to last-known snapshot,
// insertion-ordered so uniform random sampling stays O(1). It is only ever
// mutated by the single control goroutine of a run.
type Cache[T any] struct {
	ids   []string
	items map[string]T
}

func NewCache[T any]() *Cache[T] {
	return &Cache[T]{items: make(map[string]T)}
}

// Put stores or refreshes a snapshot under id.
func (c *Cache[T]) Put(id string, item T) {
	if _, known := c.items[id]; !known {
		c.ids = append(c.ids, id)
	}
	c.items[id] = item
}

func (c *Cache[T]) Get(id string) (T, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *Cache[T]) Len() int {
	return len(c.ids)
}

func (c *Cache[T]) IDs() []string {
	return c.ids
}

// RandomID samples a uniformly random cached id. ok is false when empty.
func (c *Cache[T]) RandomID() (string, bool) {
	if len(c.ids) == 0 {
		return "", false
	}
	return c.ids[generators.IntInRange(len(c.ids), 0)], true
}

// RandomIDExcept samples a uniformly random cached id different from exclude.
func (c *Cache[T]) RandomIDExcept(exclude string) (string, bool) {
	if len(c.ids) == 0 || (len(c.ids) == 1 && c.ids[0] == exclude) {
		return "", false
	}
	for {
		id := c.ids[generators.IntInRange(len(c.ids), 0)]
		if id != exclude {
			return id, true
		}
	}
}
