// Package cache memoizes generated keycap geometry keyed by shape-affecting
// parameters. Two instances exist per evaluator: a small FIFO-bounded one for
// preview geometry and an unbounded, explicitly clearable one for export
// geometry.
package cache

import (
	"sync"

	"keycap-studio/internal/geometry"
)

// Key identifies one keycap shape. Cosmetic parameters (colors, transforms)
// are deliberately absent so recoloring or moving a cap never regenerates it.
type Key struct {
	Profile       string
	Size          string
	TopRadius     float32
	WallThickness float32
	DishDepth     float32
	Height        float32
	HasStem       bool
}

// DefaultPreviewLimit bounds the preview cache entry count.
const DefaultPreviewLimit = 20

// GeometryCache maps shape keys to meshes. Entries are cloned on the way in
// and on the way out, so callers can never mutate a cached mesh. A limit of 0
// means unbounded; otherwise the oldest entry is evicted FIFO when full.
type GeometryCache struct {
	mu      sync.Mutex
	entries map[Key]geometry.Mesh
	order   []Key
	limit   int
}

// NewPreviewCache returns a FIFO-bounded cache for preview-quality geometry.
func NewPreviewCache() *GeometryCache { return New(DefaultPreviewLimit) }

// NewExportCache returns an unbounded cache for export-quality geometry. It
// lives as long as its owning worker and is cleared explicitly.
func NewExportCache() *GeometryCache { return New(0) }

// New returns a cache bounded to limit entries (0 = unbounded).
func New(limit int) *GeometryCache {
	return &GeometryCache{entries: make(map[Key]geometry.Mesh), limit: limit}
}

// Get returns a clone of the cached mesh for key, if present.
func (c *GeometryCache) Get(key Key) (geometry.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[key]
	if !ok {
		return geometry.Mesh{}, false
	}
	return m.Clone(), true
}

// Put stores a clone of mesh under key, evicting the oldest entry when the
// cache is bounded and full. Re-putting an existing key refreshes the mesh
// without growing the FIFO order.
func (c *GeometryCache) Put(key Key, mesh geometry.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		if c.limit > 0 && len(c.order) >= c.limit {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = mesh.Clone()
}

// Len returns the entry count.
func (c *GeometryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry. Called on the user's "clear cache" action and on
// detail-level changes, where stale tessellation would be visually wrong.
func (c *GeometryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]geometry.Mesh)
	c.order = c.order[:0]
}
