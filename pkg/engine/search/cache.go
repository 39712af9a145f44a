// Kumo: A resilient manga aggregation library and CLI.
// Copyright (C) 2026 The Kumo Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package search

import (
	"time"

	"Kumo/pkg/core"
)

// Cache defaults: bounded capacity and per-entry TTL keep long-lived
// sessions from growing without bound while still refreshing eventually.
const (
	DefaultCacheSize = 32
	DefaultCacheTTL  = 300 * time.Second
)

type cacheEntry struct {
	items    []core.Manga
	storedAt time.Time
}

// pageCache maps page numbers to parsed pages. It is not safe for concurrent
// use on its own; the session lock serializes access.
type pageCache struct {
	capacity int
	ttl      time.Duration
	entries  map[int]cacheEntry
	now      func() time.Time
}

func newPageCache(capacity int, ttl time.Duration) *pageCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &pageCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[int]cacheEntry, capacity),
		now:      time.Now,
	}
}

func (c *pageCache) get(page int) ([]core.Manga, bool) {
	entry, ok := c.entries[page]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, page)
		return nil, false
	}
	return entry.items, true
}

func (c *pageCache) put(page int, items []core.Manga) {
	if _, ok := c.entries[page]; !ok && len(c.entries) >= c.capacity {
		c.evictOldest()
	}
	c.entries[page] = cacheEntry{items: items, storedAt: c.now()}
}

func (c *pageCache) evictOldest() {
	var oldestPage int
	var oldestAt time.Time
	first := true
	for page, entry := range c.entries {
		if first || entry.storedAt.Before(oldestAt) {
			oldestPage, oldestAt = page, entry.storedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestPage)
	}
}

func (c *pageCache) len() int {
	return len(c.entries)
}
