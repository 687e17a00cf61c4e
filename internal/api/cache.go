// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package api

import (
	"sync"

	"pathtrace.dev/pathtrace/internal/model"
)

// traceCache holds the most recent traces in memory so
// GET /traceroute/device-based/{id} can poll a result already produced
// by a POST, supplementing spec.md's synchronous contract with the
// async-friendly shape the teacher's own long-running-operation handlers
// use. It evicts the oldest entry once it exceeds capacity; it is not a
// durable store.
type traceCache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	byID     map[string]*model.Trace
}

func newTraceCache(capacity int) *traceCache {
	return &traceCache{
		capacity: capacity,
		byID:     make(map[string]*model.Trace, capacity),
	}
}

func (c *traceCache) put(t *model.Trace) {
	id := t.ID.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byID[id]; !exists {
		c.order = append(c.order, id)
	}
	c.byID[id] = t
	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.byID, oldest)
	}
}

func (c *traceCache) get(id string) (*model.Trace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.byID[id]
	return t, ok
}
