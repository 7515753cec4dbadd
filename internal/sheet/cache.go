package sheet

import (
	"context"
	"sync"
	"time"
)

// Cache is a read-through snapshot of a Worksheet. Dashboard reads hit
// the snapshot until it expires; writers call Invalidate so the next
// read refetches.
type Cache struct {
	ws  Worksheet
	ttl time.Duration

	mu        sync.Mutex
	headers   []string
	rows      [][]string
	fetchedAt time.Time
	now       func() time.Time
}

func NewCache(ws Worksheet, ttl time.Duration) *Cache {
	return &Cache{ws: ws, ttl: ttl, now: time.Now}
}

// Snapshot returns the cached headers and rows, refetching when the
// snapshot is stale or has been invalidated. Callers get copies, so
// mutating the result cannot corrupt the snapshot for later readers.
func (c *Cache) Snapshot(ctx context.Context) ([]string, [][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.headers != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return copyHeaders(c.headers), copyRows(c.rows), nil
	}

	headers, err := c.ws.Headers(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, err := c.ws.Rows(ctx)
	if err != nil {
		return nil, nil, err
	}

	c.headers = headers
	c.rows = rows
	c.fetchedAt = c.now()
	return copyHeaders(headers), copyRows(rows), nil
}

func copyHeaders(headers []string) []string {
	out := make([]string, len(headers))
	copy(out, headers)
	return out
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		copy(out[i], row)
	}
	return out
}

// Invalidate drops the snapshot so the next Snapshot call refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers = nil
	c.rows = nil
}
